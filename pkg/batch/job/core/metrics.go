package core

import (
	"fmt"
	"sync/atomic"
	"time"
)

// JobMetrics はジョブ実行中のカウンタとタイムスタンプを保持します。
// 書き込みはジョブ自身のループのみが行いますが、モニターが実行中に
// 読み取るため、全フィールドをアトミックに公開します。
type JobMetrics struct {
	startTime   atomic.Int64 // UnixNano。0 は未設定
	endTime     atomic.Int64 // UnixNano。0 は未設定
	readCount   atomic.Int64
	writeCount  atomic.Int64
	filterCount atomic.Int64
	errorCount  atomic.Int64
}

// NewJobMetrics は新しい JobMetrics のインスタンスを作成します。
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{}
}

// SetStartTime はジョブの開始時刻を記録します。
func (m *JobMetrics) SetStartTime(t time.Time) {
	m.startTime.Store(t.UnixNano())
}

// SetEndTime はジョブの終了時刻を記録します。
func (m *JobMetrics) SetEndTime(t time.Time) {
	m.endTime.Store(t.UnixNano())
}

// StartTime はジョブの開始時刻を返します。未設定の場合はゼロ値を返します。
func (m *JobMetrics) StartTime() time.Time {
	n := m.startTime.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// EndTime はジョブの終了時刻を返します。未設定の場合はゼロ値を返します。
func (m *JobMetrics) EndTime() time.Time {
	n := m.endTime.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// IncrementReadCount は読み込み済みレコード数を 1 増やし、増加後の値を返します。
func (m *JobMetrics) IncrementReadCount() int64 {
	return m.readCount.Add(1)
}

// IncrementWriteCount は書き込み済みレコード数を n 増やします。
func (m *JobMetrics) IncrementWriteCount(n int64) {
	m.writeCount.Add(n)
}

// IncrementFilterCount はフィルタ済みレコード数を 1 増やします。
func (m *JobMetrics) IncrementFilterCount() {
	m.filterCount.Add(1)
}

// IncrementErrorCount はエラーレコード数を n 増やし、増加後の値を返します。
func (m *JobMetrics) IncrementErrorCount(n int64) int64 {
	return m.errorCount.Add(n)
}

// ReadCount は読み込み済みレコード数を返します。
func (m *JobMetrics) ReadCount() int64 { return m.readCount.Load() }

// WriteCount は書き込み済みレコード数を返します。
func (m *JobMetrics) WriteCount() int64 { return m.writeCount.Load() }

// FilterCount はフィルタ済みレコード数を返します。
func (m *JobMetrics) FilterCount() int64 { return m.filterCount.Load() }

// ErrorCount はエラーレコード数を返します。
func (m *JobMetrics) ErrorCount() int64 { return m.errorCount.Load() }

// String は JobMetrics の文字列表現を返します。
func (m *JobMetrics) String() string {
	return fmt.Sprintf("{read=%d, write=%d, filter=%d, error=%d}",
		m.ReadCount(), m.WriteCount(), m.FilterCount(), m.ErrorCount())
}
