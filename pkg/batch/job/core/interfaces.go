package core

import (
	"context"

	"batchkit/pkg/batch/record"
)

// Job は実行可能なバッチジョブのインターフェースです。
// Run はいかなる経路でも panic せず、必ず JobReport を返します。
type Job interface {
	JobName() string
	Run(ctx context.Context) *JobReport
	// Abort はジョブに中断を要求します。冪等であり、何度呼び出しても安全です。
	Abort()
}

// RecordReader はデータソースからレコードを 1 件ずつ読み込むインターフェースです。
// ReadRecord が (nil, nil) を返した場合はデータの終端を意味します。
// Open が失敗した後でも Close を安全に呼び出せる必要があります。
type RecordReader interface {
	Open(ctx context.Context) error
	ReadRecord(ctx context.Context) (*record.Record, error)
	Close(ctx context.Context) error
}

// RecordWriter はレコードのバッチをシンクへ書き込むインターフェースです。
// Open が失敗した後でも Close を安全に呼び出せる必要があります。
type RecordWriter interface {
	Open(ctx context.Context) error
	WriteRecords(ctx context.Context, batch *record.Batch) error
	Close(ctx context.Context) error
}

// RecordProcessor はレコードを変換するパイプラインステージのインターフェースです。
// nil を返した場合、そのレコードはフィルタ済みとして破棄されます。
// エラーを返した場合、そのレコードはエラーとしてカウントされます。
type RecordProcessor interface {
	ProcessRecord(ctx context.Context, r *record.Record) (*record.Record, error)
}

// RecordFilter はレコードを選別するステージです。契約は RecordProcessor と同一で、
// nil を返すことでレコードを破棄します。
type RecordFilter interface {
	RecordProcessor
}

// RecordValidator はレコードを検証するステージです。このエンジンにとっては
// RecordFilter と意味的に同一です。
type RecordValidator interface {
	RecordProcessor
}

// JobListener はジョブレベルのイベントを処理するためのインターフェースです。
type JobListener interface {
	BeforeJob(ctx context.Context, params JobParameters)
	AfterJob(ctx context.Context, report *JobReport)
}

// BatchListener はバッチレベルのイベントを処理するためのインターフェースです。
type BatchListener interface {
	BeforeBatchReading(ctx context.Context)
	AfterBatchProcessing(ctx context.Context, batch *record.Batch)
	AfterBatchWriting(ctx context.Context, batch *record.Batch)
	OnBatchWritingException(ctx context.Context, batch *record.Batch, cause error)
}

// RecordReaderListener はレコード読み込みイベントを処理するためのインターフェースです。
type RecordReaderListener interface {
	BeforeRecordReading(ctx context.Context)
	AfterRecordReading(ctx context.Context, r *record.Record)
	OnRecordReadingException(ctx context.Context, cause error)
}

// RecordWriterListener はレコード書き込みイベントを処理するためのインターフェースです。
type RecordWriterListener interface {
	BeforeRecordWriting(ctx context.Context, batch *record.Batch)
	AfterRecordWriting(ctx context.Context, batch *record.Batch)
	OnRecordWritingException(ctx context.Context, batch *record.Batch, cause error)
}

// PipelineListener はレコード処理パイプラインのイベントを処理するためのインターフェースです。
// BeforeRecordProcessing が nil を返した場合、そのレコードはスキップされます。
// スキップはフィルタでもエラーでもなく、カウンタには計上されません。
type PipelineListener interface {
	BeforeRecordProcessing(ctx context.Context, r *record.Record) *record.Record
	AfterRecordProcessing(ctx context.Context, input, output *record.Record)
	OnRecordProcessingException(ctx context.Context, r *record.Record, cause error)
}
