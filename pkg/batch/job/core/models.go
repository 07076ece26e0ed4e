package core

import (
	"fmt"
	"math"
	"os"
	"runtime"
)

// JobStatus はジョブ実行の状態を表します。
// 遷移は STARTING → STARTED → (COMPLETED | FAILED | ABORTED) です。
// リーダーまたはライターのオープンに失敗した場合は STARTING → FAILED と直接遷移します。
type JobStatus string

const (
	JobStatusStarting  JobStatus = "STARTING"
	JobStatusStarted   JobStatus = "STARTED"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusAborted   JobStatus = "ABORTED"
)

// IsFinished は JobStatus が終了状態かどうかを判定するヘルパーメソッドです。
func (s JobStatus) IsFinished() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusAborted:
		return true
	default:
		return false
	}
}

const (
	// DefaultJobName はジョブ名が指定されなかった場合に使用される名前です。
	DefaultJobName = "job"
	// DefaultBatchSize はバッチサイズが指定されなかった場合の既定値です。
	DefaultBatchSize = 100
	// NoErrorThreshold はエラー閾値が未設定であることを表します (実質無限)。
	NoErrorThreshold = int64(math.MaxInt64)
)

// JobParameters はジョブ実行時のパラメータを保持する構造体です。
type JobParameters struct {
	Name                 string
	BatchSize            int
	ErrorThreshold       int64
	MonitoringEnabled    bool
	BatchScanningEnabled bool
}

// NewJobParameters は既定値を適用した JobParameters を作成します。
func NewJobParameters() JobParameters {
	return JobParameters{
		Name:           DefaultJobName,
		BatchSize:      DefaultBatchSize,
		ErrorThreshold: NoErrorThreshold,
	}
}

// Normalize は不正な値を既定値に丸めた JobParameters を返します。
// BatchSize は 1 以上、ErrorThreshold は未設定 (0 以下) の場合 NoErrorThreshold になります。
func (p JobParameters) Normalize() JobParameters {
	if p.Name == "" {
		p.Name = DefaultJobName
	}
	if p.BatchSize < 1 {
		p.BatchSize = DefaultBatchSize
	}
	if p.ErrorThreshold <= 0 {
		p.ErrorThreshold = NoErrorThreshold
	}
	return p
}

// String は JobParameters の文字列表現を返します。
func (p JobParameters) String() string {
	threshold := "N/A"
	if p.ErrorThreshold != NoErrorThreshold {
		threshold = fmt.Sprintf("%d", p.ErrorThreshold)
	}
	return fmt.Sprintf("{name=%s, batchSize=%d, errorThreshold=%s, monitoring=%t, batchScanning=%t}",
		p.Name, p.BatchSize, threshold, p.MonitoringEnabled, p.BatchScanningEnabled)
}

// systemProperties はレポート作成時点の実行環境情報をサンプリングします。
func systemProperties() map[string]string {
	hostname, _ := os.Hostname()
	return map[string]string{
		"go.version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"num.cpu":    fmt.Sprintf("%d", runtime.NumCPU()),
		"hostname":   hostname,
	}
}
