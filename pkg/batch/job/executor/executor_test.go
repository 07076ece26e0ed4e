package executor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchkit/pkg/batch/job"
	core "batchkit/pkg/batch/job/core"
	"batchkit/pkg/batch/job/executor"
	"batchkit/pkg/batch/record"
	"batchkit/pkg/batch/step/processor"
	"batchkit/pkg/batch/step/reader"
)

// gatedWriter は最初のバッチの書き込み開始を通知し、解放されるまで
// ブロックするテスト用ライターです。キャンセルのタイミングを決定的にします。
type gatedWriter struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	written int
	mu      sync.Mutex
}

func newGatedWriter() *gatedWriter {
	return &gatedWriter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (w *gatedWriter) Open(ctx context.Context) error { return nil }

func (w *gatedWriter) WriteRecords(ctx context.Context, batch *record.Batch) error {
	w.once.Do(func() {
		close(w.started)
		<-w.release
	})
	w.mu.Lock()
	w.written += batch.Size()
	w.mu.Unlock()
	return nil
}

func (w *gatedWriter) Close(ctx context.Context) error { return nil }

func (w *gatedWriter) total() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

func items(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestJobExecutor_ExecuteRunsSynchronously(t *testing.T) {
	j := job.NewBuilder().
		Named("sync-job").
		Reader(reader.NewIterableRecordReader(items(10))).
		BatchSize(4).
		Build()

	exec := executor.NewJobExecutor()
	report := exec.Execute(context.Background(), j)

	assert.Equal(t, core.JobStatusCompleted, report.Status())
	assert.Equal(t, int64(10), report.Metrics.ReadCount())
	assert.Equal(t, int64(10), report.Metrics.WriteCount())
}

func TestJobExecutor_SubmitReturnsFuture(t *testing.T) {
	j := job.NewBuilder().
		Named("async-job").
		Reader(reader.NewIterableRecordReader(items(100))).
		BatchSize(10).
		Build()

	exec := executor.NewJobExecutor()
	future := exec.Submit(context.Background(), j)

	assert.NotEmpty(t, future.ExecutionID())
	report := future.Wait()
	assert.Equal(t, core.JobStatusCompleted, report.Status())
	assert.Equal(t, int64(100), report.Metrics.ReadCount())
	require.NoError(t, exec.AwaitTermination(5*time.Second))
	assert.Equal(t, 0, exec.ActiveCount())
}

func TestJobExecutor_CancellationIsIsolatedToOneJob(t *testing.T) {
	// ジョブ 1 は最初のバッチの書き込み中にキャンセルされる。
	// ジョブ 2 は同じソース定義を読み切って完走する。
	collector1 := processor.NewRecordCollector()
	collector2 := processor.NewRecordCollector()
	gate := newGatedWriter()

	job1 := job.NewBuilder().
		Named("job1").
		Reader(reader.NewIterableRecordReader(items(10))).
		Processor(collector1).
		Writer(gate).
		BatchSize(5).
		Build()
	job2 := job.NewBuilder().
		Named("job2").
		Reader(reader.NewIterableRecordReader(items(10))).
		Processor(collector2).
		BatchSize(5).
		Build()

	exec := executor.NewJobExecutor()
	future1 := exec.Submit(context.Background(), job1)
	future2 := exec.Submit(context.Background(), job2)

	// ジョブ 1 の最初のバッチが書き込みに入るのを待ってからキャンセルする
	<-gate.started
	future1.Cancel()
	future1.Cancel() // 冪等
	close(gate.release)

	report1 := future1.Wait()
	report2 := future2.Wait()

	assert.True(t, future1.Cancelled())
	assert.Equal(t, core.JobStatusAborted, report1.Status())
	assert.Nil(t, report1.LastError(), "キャンセルはエラーではない")
	// 最初のバッチはキャンセル観測前に読み込み済みのため、プロセッサまで到達している
	assert.Equal(t, 5, collector1.Count())
	assert.Equal(t, 5, gate.total(), "後続のバッチは書き込まれない")

	// 兄弟ジョブは影響を受けない
	assert.Equal(t, core.JobStatusCompleted, report2.Status())
	assert.Equal(t, 10, collector2.Count())
	assert.Equal(t, int64(10), report2.Metrics.ReadCount())

	require.NoError(t, exec.AwaitTermination(5*time.Second))
}

func TestJobExecutor_AwaitTerminationTimesOut(t *testing.T) {
	gate := newGatedWriter()
	j := job.NewBuilder().
		Named("blocked-job").
		Reader(reader.NewIterableRecordReader(items(4))).
		Writer(gate).
		BatchSize(2).
		Build()

	exec := executor.NewJobExecutor()
	future := exec.Submit(context.Background(), j)

	<-gate.started
	err := exec.AwaitTermination(50 * time.Millisecond)
	assert.Error(t, err, "ブロック中のジョブがあるためタイムアウトする")

	close(gate.release)
	future.Wait()
	require.NoError(t, exec.AwaitTermination(5*time.Second))
}

func TestJobExecutor_ShutdownCancelsActiveJobs(t *testing.T) {
	gate := newGatedWriter()
	j := job.NewBuilder().
		Named("shutdown-job").
		Reader(reader.NewIterableRecordReader(items(10))).
		Writer(gate).
		BatchSize(5).
		Build()

	exec := executor.NewJobExecutor()
	future := exec.Submit(context.Background(), j)

	<-gate.started
	done := make(chan error, 1)
	go func() { done <- exec.Shutdown(5 * time.Second) }()
	// Shutdown がキャンセルを要求したのを確認してからゲートを解放する
	require.Eventually(t, future.Cancelled, time.Second, time.Millisecond)
	close(gate.release)

	require.NoError(t, <-done)
	assert.Equal(t, core.JobStatusAborted, future.Wait().Status())
}
