package listener

import (
	"context"

	"batchkit/pkg/batch/record"
	logger "batchkit/pkg/batch/util/logger"
)

// LoggingBatchListener はバッチ処理の進行をログに出力する BatchListener の実装です。
type LoggingBatchListener struct{}

// NewLoggingBatchListener は新しい LoggingBatchListener のインスタンスを作成します。
func NewLoggingBatchListener() *LoggingBatchListener {
	return &LoggingBatchListener{}
}

// BeforeBatchReading はバッチの読み込みが開始される直前に呼び出されます。
func (l *LoggingBatchListener) BeforeBatchReading(ctx context.Context) {
	logger.Debugf("BatchListener: バッチの読み込みを開始します。")
}

// AfterBatchProcessing はバッチ内の全レコードの処理が完了した後に呼び出されます。
func (l *LoggingBatchListener) AfterBatchProcessing(ctx context.Context, batch *record.Batch) {
	logger.Debugf("BatchListener: %d 件のレコードの処理が完了しました。", batch.Size())
}

// AfterBatchWriting はバッチの書き込みが成功した後に呼び出されます。
func (l *LoggingBatchListener) AfterBatchWriting(ctx context.Context, batch *record.Batch) {
	logger.Debugf("BatchListener: %d 件のレコードを書き込みました。", batch.Size())
}

// OnBatchWritingException はバッチの書き込みが失敗したときに呼び出されます。
func (l *LoggingBatchListener) OnBatchWritingException(ctx context.Context, batch *record.Batch, cause error) {
	logger.Errorf("BatchListener: %d 件のバッチの書き込みに失敗しました: %v", batch.Size(), cause)
}
