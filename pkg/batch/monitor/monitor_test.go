package monitor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchkit/pkg/batch/job"
	core "batchkit/pkg/batch/job/core"
	"batchkit/pkg/batch/monitor"
	"batchkit/pkg/batch/step/reader"
)

func TestMonitor_KeyFormat(t *testing.T) {
	assert.Equal(t, "batchkit:type=JobMonitor,name=master", monitor.Key("master"))
}

func TestMonitor_JobIsRegisteredWhenMonitoringEnabled(t *testing.T) {
	j := job.NewBuilder().
		Named("monitored").
		Reader(reader.NewIterableRecordReader([]any{"a", "b", "c"})).
		BatchSize(2).
		EnableMonitoring(true).
		Build()
	defer monitor.Unregister(monitor.Key("monitored"))

	j.Run(context.Background())

	m, ok := monitor.LookupByJobName("monitored")
	require.True(t, ok)
	assert.Equal(t, "monitored", m.JobName())
	assert.Equal(t, core.JobStatusCompleted, m.Status())
	assert.Equal(t, int64(3), m.ReadCount())
	assert.Equal(t, int64(3), m.WriteCount())
	assert.Equal(t, int64(0), m.FilterCount())
	assert.Equal(t, int64(0), m.ErrorCount())
	assert.Empty(t, m.LastError())
	assert.False(t, m.StartTime().IsZero())
	assert.False(t, m.EndTime().Before(m.StartTime()))
}

func TestMonitor_DefaultJobNameIsUsedWhenUnnamed(t *testing.T) {
	j := job.NewBuilder().EnableMonitoring(true).Build()
	defer monitor.Unregister(monitor.Key(core.DefaultJobName))

	j.Run(context.Background())

	_, ok := monitor.LookupByJobName(core.DefaultJobName)
	assert.True(t, ok)
}

func TestMonitor_JobIsNotRegisteredWhenMonitoringDisabled(t *testing.T) {
	j := job.NewBuilder().Named("unmonitored").Build()

	j.Run(context.Background())

	_, ok := monitor.LookupByJobName("unmonitored")
	assert.False(t, ok)
}

func TestMonitor_UnregisterRemovesEntry(t *testing.T) {
	report := core.NewJobReport(core.NewJobParameters())
	key := monitor.Register(report)

	_, ok := monitor.Lookup(key)
	require.True(t, ok)

	monitor.Unregister(key)
	_, ok = monitor.Lookup(key)
	assert.False(t, ok)
}
