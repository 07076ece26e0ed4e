package listener

import (
	"context"

	core "batchkit/pkg/batch/job/core"
	logger "batchkit/pkg/batch/util/logger"
)

// LoggingJobListener はジョブの開始と終了をログに出力する JobListener の実装です。
type LoggingJobListener struct{}

// NewLoggingJobListener は新しい LoggingJobListener のインスタンスを作成します。
func NewLoggingJobListener() *LoggingJobListener {
	return &LoggingJobListener{}
}

// BeforeJob はジョブが開始される直前に呼び出されます。
func (l *LoggingJobListener) BeforeJob(ctx context.Context, params core.JobParameters) {
	logger.Infof("JobListener: ジョブ '%s' を開始します。パラメータ: %s", params.Name, params)
}

// AfterJob はジョブが終了した後に呼び出されます。成功・失敗に関わらず呼び出されます。
func (l *LoggingJobListener) AfterJob(ctx context.Context, report *core.JobReport) {
	logger.Infof("JobListener: %s", report)
}
