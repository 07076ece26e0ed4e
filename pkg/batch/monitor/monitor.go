package monitor

import (
	"fmt"
	"sync"
	"time"

	core "batchkit/pkg/batch/job/core"
	logger "batchkit/pkg/batch/util/logger"
)

// KeyPrefix はレジストリキーの接頭辞です。キーは
// "batchkit:type=JobMonitor,name=<jobName>" の形式になります。
const KeyPrefix = "batchkit:type=JobMonitor,name="

// Key は指定されたジョブ名のレジストリキーを返します。
func Key(jobName string) string {
	return KeyPrefix + jobName
}

// JobMonitor は実行中 (または実行済み) のジョブのメトリクスとステータスの
// 読み取り専用ビューです。値は呼び出しのたびにレポートからサンプリングされる
// ため、実行中の読み取りでも単調なビューが得られます。
type JobMonitor struct {
	report *core.JobReport
}

// NewJobMonitor は指定されたレポートを観測する JobMonitor を作成します。
func NewJobMonitor(report *core.JobReport) *JobMonitor {
	return &JobMonitor{report: report}
}

// JobName は監視対象のジョブ名を返します。
func (m *JobMonitor) JobName() string { return m.report.JobName }

// Status は現在のジョブステータスを返します。
func (m *JobMonitor) Status() core.JobStatus { return m.report.Status() }

// ReadCount は読み込み済みレコード数を返します。
func (m *JobMonitor) ReadCount() int64 { return m.report.Metrics.ReadCount() }

// WriteCount は書き込み済みレコード数を返します。
func (m *JobMonitor) WriteCount() int64 { return m.report.Metrics.WriteCount() }

// FilterCount はフィルタ済みレコード数を返します。
func (m *JobMonitor) FilterCount() int64 { return m.report.Metrics.FilterCount() }

// ErrorCount はエラーレコード数を返します。
func (m *JobMonitor) ErrorCount() int64 { return m.report.Metrics.ErrorCount() }

// StartTime はジョブの開始時刻を返します。
func (m *JobMonitor) StartTime() time.Time { return m.report.Metrics.StartTime() }

// EndTime はジョブの終了時刻を返します。
func (m *JobMonitor) EndTime() time.Time { return m.report.Metrics.EndTime() }

// LastError は記録済みの致命的エラーの文字列表現を返します。未記録の場合は空文字列です。
func (m *JobMonitor) LastError() string {
	if err := m.report.LastError(); err != nil {
		return err.Error()
	}
	return ""
}

// String は JobMonitor の現在のサンプルの文字列表現を返します。
func (m *JobMonitor) String() string {
	return fmt.Sprintf("JobMonitor{name=%s, status=%s, read=%d, write=%d, filter=%d, error=%d}",
		m.JobName(), m.Status(), m.ReadCount(), m.WriteCount(), m.FilterCount(), m.ErrorCount())
}

// registry はプロセス全体で共有されるモニターのレジストリです。
var (
	mu       sync.RWMutex
	registry = make(map[string]*JobMonitor)
)

// Register は指定されたレポートのモニターをレジストリに登録し、そのキーを返します。
// 同名ジョブの再実行では最新の登録が優先されます。
func Register(report *core.JobReport) string {
	key := Key(report.JobName)
	mu.Lock()
	defer mu.Unlock()
	registry[key] = NewJobMonitor(report)
	logger.Debugf("JobMonitor を登録しました: %s", key)
	return key
}

// Lookup は指定されたキーのモニターを返します。
func Lookup(key string) (*JobMonitor, bool) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := registry[key]
	return m, ok
}

// LookupByJobName は指定されたジョブ名のモニターを返します。
func LookupByJobName(jobName string) (*JobMonitor, bool) {
	return Lookup(Key(jobName))
}

// Unregister は指定されたキーのモニターをレジストリから削除します。
func Unregister(key string) {
	mu.Lock()
	defer mu.Unlock()
	delete(registry, key)
}
