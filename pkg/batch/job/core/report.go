package core

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// JobReport は単一のジョブ実行のスナップショットです。
// ステータスとメトリクスは実行中にループが更新し、モニターが読み取るため、
// 読み書きは安全に公開されます。実行終了後は同一インスタンスが全ての
// AfterJob リスナーへ渡されます。
type JobReport struct {
	JobName          string
	Parameters       JobParameters
	Metrics          *JobMetrics
	SystemProperties map[string]string

	status    atomic.Value // JobStatus
	mu        sync.RWMutex // lastError を保護
	lastError error
}

// NewJobReport は新しい JobReport のインスタンスを作成します。
func NewJobReport(params JobParameters) *JobReport {
	r := &JobReport{
		JobName:          params.Name,
		Parameters:       params,
		Metrics:          NewJobMetrics(),
		SystemProperties: systemProperties(),
	}
	r.status.Store(JobStatusStarting)
	return r
}

// Status は現在のジョブステータスを返します。
func (r *JobReport) Status() JobStatus {
	return r.status.Load().(JobStatus)
}

// SetStatus はジョブステータスを更新します。書き込みはジョブのループのみが行います。
func (r *JobReport) SetStatus(s JobStatus) {
	r.status.Store(s)
}

// LastError は最初に記録された致命的エラーを返します。未記録の場合は nil です。
func (r *JobReport) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastError
}

// SetLastError は致命的エラーを記録します。先勝ちポリシーのため、
// 既にエラーが記録されている場合は上書きしません。
func (r *JobReport) SetLastError(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastError == nil {
		r.lastError = err
	}
}

// ClearLastError は記録済みのエラーを破棄します。
// エンジン自身は呼び出しません (中断経路はもともと lastError を記録しません)。
func (r *JobReport) ClearLastError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastError = nil
}

// String は JobReport のサマリ文字列を返します。
func (r *JobReport) String() string {
	last := "なし"
	if err := r.LastError(); err != nil {
		last = err.Error()
	}
	return fmt.Sprintf("ジョブ '%s': status=%s, metrics=%s, lastError=%s",
		r.JobName, r.Status(), r.Metrics, last)
}
