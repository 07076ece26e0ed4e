package executor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	core "batchkit/pkg/batch/job/core"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// JobFuture は非同期に実行中のジョブの結果を表します。
type JobFuture struct {
	executionID string
	job         core.Job
	cancel      context.CancelFunc
	done        chan struct{}
	report      *core.JobReport
	cancelled   atomic.Bool
}

// ExecutionID はこの実行に割り当てられた一意の ID を返します。
func (f *JobFuture) ExecutionID() string {
	return f.executionID
}

// Cancel は対象のジョブにのみ中断を要求します。兄弟ジョブには影響しません。
// 冪等であり、何度呼び出しても安全です。
func (f *JobFuture) Cancel() {
	if f.cancelled.CompareAndSwap(false, true) {
		logger.Infof("ジョブ '%s' (Execution ID: %s) のキャンセルを要求しました。", f.job.JobName(), f.executionID)
		f.job.Abort()
		f.cancel()
	}
}

// Cancelled はキャンセルが要求済みかどうかを返します。
func (f *JobFuture) Cancelled() bool {
	return f.cancelled.Load()
}

// Done はジョブの完了時にクローズされるチャネルを返します。
func (f *JobFuture) Done() <-chan struct{} {
	return f.done
}

// Wait はジョブの完了を待ち、最終的な JobReport を返します。
// キャンセルされたジョブでもレポートは返され、ステータスが ABORTED になります。
func (f *JobFuture) Wait() *core.JobReport {
	<-f.done
	return f.report
}

// JobExecutor は 1 つ以上のジョブをワーカー上で実行します。
// ジョブごとに 1 ワーカーを割り当てる要求駆動のプールで、
// ジョブ内部のバッチループはシングルスレッドのまま動作します。
type JobExecutor struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	active map[string]*JobFuture
}

// NewJobExecutor は新しい JobExecutor のインスタンスを作成します。
func NewJobExecutor() *JobExecutor {
	return &JobExecutor{
		active: make(map[string]*JobFuture),
	}
}

// Execute はジョブを同期実行し、最終的な JobReport を返します。
func (e *JobExecutor) Execute(ctx context.Context, job core.Job) *core.JobReport {
	return job.Run(ctx)
}

// Submit はジョブを非同期に起動し、その JobFuture を返します。
func (e *JobExecutor) Submit(ctx context.Context, job core.Job) *JobFuture {
	jobCtx, cancel := context.WithCancel(ctx)
	f := &JobFuture{
		executionID: uuid.New().String(),
		job:         job,
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	e.mu.Lock()
	e.active[f.executionID] = f
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		logger.Debugf("ジョブ '%s' (Execution ID: %s) を起動します。", job.JobName(), f.executionID)
		f.report = job.Run(jobCtx)
		close(f.done)

		e.mu.Lock()
		delete(e.active, f.executionID)
		e.mu.Unlock()
	}()
	return f
}

// ActiveCount は実行中のジョブ数を返します。
func (e *JobExecutor) ActiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

// AwaitTermination は実行中の全ジョブの完了を待ちます。
// タイムアウトした場合はエラーを返しますが、ジョブ自体は停止しません。
func (e *JobExecutor) AwaitTermination(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return exception.NewBatchErrorf("executor",
			"実行中のジョブが %s 以内に終了しませんでした", timeout)
	}
}

// Shutdown は実行中の全ジョブにキャンセルを要求し、終了を待ちます。
func (e *JobExecutor) Shutdown(timeout time.Duration) error {
	e.mu.Lock()
	futures := make([]*JobFuture, 0, len(e.active))
	for _, f := range e.active {
		futures = append(futures, f)
	}
	e.mu.Unlock()

	for _, f := range futures {
		f.Cancel()
	}
	return e.AwaitTermination(timeout)
}
