package job

import (
	"context"

	core "batchkit/pkg/batch/job/core"
	listener "batchkit/pkg/batch/job/listener"
	"batchkit/pkg/batch/pipeline"
	"batchkit/pkg/batch/record"
)

// Builder は BatchJob を組み立てるための流暢なビルダーです。
// リーダー・ライターが未指定の場合は空のリーダーと何もしないライターが
// 使用されます。リスナーの登録順が呼び出し順を決めます。
type Builder struct {
	params core.JobParameters
	reader core.RecordReader
	writer core.RecordWriter
	stages []core.RecordProcessor
	hub    *listener.Hub
}

// NewBuilder は既定のパラメータを持つ新しい Builder を作成します。
func NewBuilder() *Builder {
	return &Builder{
		params: core.NewJobParameters(),
		hub:    listener.NewHub(),
	}
}

// Named はジョブ名を設定します。
func (b *Builder) Named(name string) *Builder {
	b.params.Name = name
	return b
}

// Reader はレコードの読み込み元を設定します。
func (b *Builder) Reader(r core.RecordReader) *Builder {
	b.reader = r
	return b
}

// Writer はレコードの書き込み先を設定します。
func (b *Builder) Writer(w core.RecordWriter) *Builder {
	b.writer = w
	return b
}

// Filter はパイプラインの末尾にフィルタステージを追加します。
func (b *Builder) Filter(f core.RecordFilter) *Builder {
	b.stages = append(b.stages, f)
	return b
}

// Validator はパイプラインの末尾にバリデータステージを追加します。
func (b *Builder) Validator(v core.RecordValidator) *Builder {
	b.stages = append(b.stages, v)
	return b
}

// Processor はパイプラインの末尾にプロセッサステージを追加します。
func (b *Builder) Processor(p core.RecordProcessor) *Builder {
	b.stages = append(b.stages, p)
	return b
}

// BatchSize はバッチサイズを設定します。1 未満の値は既定値に丸められます。
func (b *Builder) BatchSize(size int) *Builder {
	b.params.BatchSize = size
	return b
}

// ErrorThreshold は許容するエラー数の上限を設定します。
// 超過したジョブは FAILED で終了します。
func (b *Builder) ErrorThreshold(threshold int64) *Builder {
	b.params.ErrorThreshold = threshold
	return b
}

// EnableMonitoring はモニターレジストリへの登録を有効化します。
func (b *Builder) EnableMonitoring(enabled bool) *Builder {
	b.params.MonitoringEnabled = enabled
	return b
}

// EnableBatchScanning はバッチ書き込み失敗時のレコード単位スキャンを有効化します。
func (b *Builder) EnableBatchScanning(enabled bool) *Builder {
	b.params.BatchScanningEnabled = enabled
	return b
}

// JobListener はジョブリスナーを登録します。
func (b *Builder) JobListener(l core.JobListener) *Builder {
	b.hub.AddJobListener(l)
	return b
}

// BatchListener はバッチリスナーを登録します。
func (b *Builder) BatchListener(l core.BatchListener) *Builder {
	b.hub.AddBatchListener(l)
	return b
}

// ReaderListener はリーダーリスナーを登録します。
func (b *Builder) ReaderListener(l core.RecordReaderListener) *Builder {
	b.hub.AddReaderListener(l)
	return b
}

// WriterListener はライターリスナーを登録します。
func (b *Builder) WriterListener(l core.RecordWriterListener) *Builder {
	b.hub.AddWriterListener(l)
	return b
}

// PipelineListener はパイプラインリスナーを登録します。
func (b *Builder) PipelineListener(l core.PipelineListener) *Builder {
	b.hub.AddPipelineListener(l)
	return b
}

// Build は BatchJob を組み立てます。
func (b *Builder) Build() *BatchJob {
	params := b.params.Normalize()
	r := b.reader
	if r == nil {
		r = &emptyReader{}
	}
	w := b.writer
	if w == nil {
		w = &discardWriter{}
	}
	return &BatchJob{
		params: params,
		reader: r,
		writer: w,
		pipe:   pipeline.New(b.stages...),
		hub:    b.hub,
		report: core.NewJobReport(params),
	}
}

// emptyReader はレコードを 1 件も返さないリーダーです。リーダー未指定時の既定値です。
type emptyReader struct{}

func (r *emptyReader) Open(ctx context.Context) error { return nil }
func (r *emptyReader) ReadRecord(ctx context.Context) (*record.Record, error) {
	return nil, nil
}
func (r *emptyReader) Close(ctx context.Context) error { return nil }

// discardWriter は受け取ったバッチを破棄するライターです。ライター未指定時の既定値です。
type discardWriter struct{}

func (w *discardWriter) Open(ctx context.Context) error { return nil }
func (w *discardWriter) WriteRecords(ctx context.Context, batch *record.Batch) error {
	return nil
}
func (w *discardWriter) Close(ctx context.Context) error { return nil }
