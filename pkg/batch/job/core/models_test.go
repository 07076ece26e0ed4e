package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	core "batchkit/pkg/batch/job/core"
)

func TestJobParameters_NormalizeAppliesDefaults(t *testing.T) {
	tests := []struct {
		name     string
		in       core.JobParameters
		expected core.JobParameters
	}{
		{
			name: "Empty",
			in:   core.JobParameters{},
			expected: core.JobParameters{
				Name:           core.DefaultJobName,
				BatchSize:      core.DefaultBatchSize,
				ErrorThreshold: core.NoErrorThreshold,
			},
		},
		{
			name: "NegativeBatchSize",
			in:   core.JobParameters{Name: "n", BatchSize: -1, ErrorThreshold: 5},
			expected: core.JobParameters{
				Name:           "n",
				BatchSize:      core.DefaultBatchSize,
				ErrorThreshold: 5,
			},
		},
		{
			name: "ValidValuesAreKept",
			in:   core.JobParameters{Name: "n", BatchSize: 2, ErrorThreshold: 1, BatchScanningEnabled: true},
			expected: core.JobParameters{
				Name:                 "n",
				BatchSize:            2,
				ErrorThreshold:       1,
				BatchScanningEnabled: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.Normalize())
		})
	}
}

func TestJobStatus_IsFinished(t *testing.T) {
	assert.False(t, core.JobStatusStarting.IsFinished())
	assert.False(t, core.JobStatusStarted.IsFinished())
	assert.True(t, core.JobStatusCompleted.IsFinished())
	assert.True(t, core.JobStatusFailed.IsFinished())
	assert.True(t, core.JobStatusAborted.IsFinished())
}

func TestJobMetrics_CountersAreMonotonic(t *testing.T) {
	m := core.NewJobMetrics()

	assert.Equal(t, int64(1), m.IncrementReadCount())
	assert.Equal(t, int64(2), m.IncrementReadCount())
	m.IncrementWriteCount(3)
	m.IncrementFilterCount()
	assert.Equal(t, int64(2), m.IncrementErrorCount(2))

	assert.Equal(t, int64(2), m.ReadCount())
	assert.Equal(t, int64(3), m.WriteCount())
	assert.Equal(t, int64(1), m.FilterCount())
	assert.Equal(t, int64(2), m.ErrorCount())
}

func TestJobMetrics_Timestamps(t *testing.T) {
	m := core.NewJobMetrics()
	assert.True(t, m.StartTime().IsZero())

	start := time.Now()
	m.SetStartTime(start)
	m.SetEndTime(start.Add(time.Second))

	assert.Equal(t, start.UnixNano(), m.StartTime().UnixNano())
	assert.False(t, m.EndTime().Before(m.StartTime()))
}

func TestJobReport_LastErrorIsFirstWins(t *testing.T) {
	report := core.NewJobReport(core.NewJobParameters())
	first := errors.New("first")
	second := errors.New("second")

	report.SetLastError(nil)
	assert.Nil(t, report.LastError())

	report.SetLastError(first)
	report.SetLastError(second)
	assert.Equal(t, first, report.LastError(), "クローズ時のエラーは先に記録されたエラーを上書きしない")

	report.ClearLastError()
	assert.Nil(t, report.LastError())
}

func TestJobReport_InitialStateAndSystemProperties(t *testing.T) {
	params := core.NewJobParameters()
	report := core.NewJobReport(params)

	assert.Equal(t, core.JobStatusStarting, report.Status())
	assert.Equal(t, core.DefaultJobName, report.JobName)
	assert.NotEmpty(t, report.SystemProperties["go.version"])
	assert.NotEmpty(t, report.SystemProperties["os"])
}
