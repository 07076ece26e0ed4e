package listener

import (
	"context"
	"fmt"

	core "batchkit/pkg/batch/job/core"
	"batchkit/pkg/batch/record"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// Hub は 5 種類のリスナーリストを保持し、定義された順序で呼び出しを
// ファンアウトします。登録順が呼び出し順を決めます:
//
//   - Before* は登録順 (先頭から)
//   - After* と On*Exception は登録の逆順 (末尾から)
//   - BeforeRecordProcessing は登録順に出力を連鎖
//
// リスナー内の panic はログに記録され、他のリスナーの呼び出しを妨げません。
// ただし BeforeRecordProcessing 内の panic は、そのレコードの
// パイプラインエラーとして扱われます。
type Hub struct {
	jobListeners      []core.JobListener
	batchListeners    []core.BatchListener
	readerListeners   []core.RecordReaderListener
	writerListeners   []core.RecordWriterListener
	pipelineListeners []core.PipelineListener
}

// NewHub は新しい Hub のインスタンスを作成します。
func NewHub() *Hub {
	return &Hub{}
}

// AddJobListener はジョブリスナーを登録します。
func (h *Hub) AddJobListener(l core.JobListener) {
	h.jobListeners = append(h.jobListeners, l)
}

// AddBatchListener はバッチリスナーを登録します。
func (h *Hub) AddBatchListener(l core.BatchListener) {
	h.batchListeners = append(h.batchListeners, l)
}

// AddReaderListener はリーダーリスナーを登録します。
func (h *Hub) AddReaderListener(l core.RecordReaderListener) {
	h.readerListeners = append(h.readerListeners, l)
}

// AddWriterListener はライターリスナーを登録します。
func (h *Hub) AddWriterListener(l core.RecordWriterListener) {
	h.writerListeners = append(h.writerListeners, l)
}

// AddPipelineListener はパイプラインリスナーを登録します。
func (h *Hub) AddPipelineListener(l core.PipelineListener) {
	h.pipelineListeners = append(h.pipelineListeners, l)
}

// guard はリスナー呼び出しを panic 回収付きで実行します。
func guard(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("リスナー %s の呼び出し中に panic が発生しました: %v", name, rec)
		}
	}()
	fn()
}

// BeforeJob は全ジョブリスナーの BeforeJob を登録順に呼び出します。
func (h *Hub) BeforeJob(ctx context.Context, params core.JobParameters) {
	for _, l := range h.jobListeners {
		guard("BeforeJob", func() { l.BeforeJob(ctx, params) })
	}
}

// AfterJob は全ジョブリスナーの AfterJob を登録の逆順に呼び出します。
func (h *Hub) AfterJob(ctx context.Context, report *core.JobReport) {
	for i := len(h.jobListeners) - 1; i >= 0; i-- {
		l := h.jobListeners[i]
		guard("AfterJob", func() { l.AfterJob(ctx, report) })
	}
}

// BeforeBatchReading は全バッチリスナーの BeforeBatchReading を登録順に呼び出します。
func (h *Hub) BeforeBatchReading(ctx context.Context) {
	for _, l := range h.batchListeners {
		guard("BeforeBatchReading", func() { l.BeforeBatchReading(ctx) })
	}
}

// AfterBatchProcessing は全バッチリスナーの AfterBatchProcessing を登録の逆順に呼び出します。
func (h *Hub) AfterBatchProcessing(ctx context.Context, batch *record.Batch) {
	for i := len(h.batchListeners) - 1; i >= 0; i-- {
		l := h.batchListeners[i]
		guard("AfterBatchProcessing", func() { l.AfterBatchProcessing(ctx, batch) })
	}
}

// AfterBatchWriting は全バッチリスナーの AfterBatchWriting を登録の逆順に呼び出します。
func (h *Hub) AfterBatchWriting(ctx context.Context, batch *record.Batch) {
	for i := len(h.batchListeners) - 1; i >= 0; i-- {
		l := h.batchListeners[i]
		guard("AfterBatchWriting", func() { l.AfterBatchWriting(ctx, batch) })
	}
}

// OnBatchWritingException は全バッチリスナーの OnBatchWritingException を登録の逆順に呼び出します。
func (h *Hub) OnBatchWritingException(ctx context.Context, batch *record.Batch, cause error) {
	for i := len(h.batchListeners) - 1; i >= 0; i-- {
		l := h.batchListeners[i]
		guard("OnBatchWritingException", func() { l.OnBatchWritingException(ctx, batch, cause) })
	}
}

// BeforeRecordReading は全リーダーリスナーの BeforeRecordReading を登録順に呼び出します。
func (h *Hub) BeforeRecordReading(ctx context.Context) {
	for _, l := range h.readerListeners {
		guard("BeforeRecordReading", func() { l.BeforeRecordReading(ctx) })
	}
}

// AfterRecordReading は全リーダーリスナーの AfterRecordReading を登録の逆順に呼び出します。
func (h *Hub) AfterRecordReading(ctx context.Context, r *record.Record) {
	for i := len(h.readerListeners) - 1; i >= 0; i-- {
		l := h.readerListeners[i]
		guard("AfterRecordReading", func() { l.AfterRecordReading(ctx, r) })
	}
}

// OnRecordReadingException は全リーダーリスナーの OnRecordReadingException を登録の逆順に呼び出します。
func (h *Hub) OnRecordReadingException(ctx context.Context, cause error) {
	for i := len(h.readerListeners) - 1; i >= 0; i-- {
		l := h.readerListeners[i]
		guard("OnRecordReadingException", func() { l.OnRecordReadingException(ctx, cause) })
	}
}

// BeforeRecordWriting は全ライターリスナーの BeforeRecordWriting を登録順に呼び出します。
func (h *Hub) BeforeRecordWriting(ctx context.Context, batch *record.Batch) {
	for _, l := range h.writerListeners {
		guard("BeforeRecordWriting", func() { l.BeforeRecordWriting(ctx, batch) })
	}
}

// AfterRecordWriting は全ライターリスナーの AfterRecordWriting を登録の逆順に呼び出します。
func (h *Hub) AfterRecordWriting(ctx context.Context, batch *record.Batch) {
	for i := len(h.writerListeners) - 1; i >= 0; i-- {
		l := h.writerListeners[i]
		guard("AfterRecordWriting", func() { l.AfterRecordWriting(ctx, batch) })
	}
}

// OnRecordWritingException は全ライターリスナーの OnRecordWritingException を登録の逆順に呼び出します。
func (h *Hub) OnRecordWritingException(ctx context.Context, batch *record.Batch, cause error) {
	for i := len(h.writerListeners) - 1; i >= 0; i-- {
		l := h.writerListeners[i]
		guard("OnRecordWritingException", func() { l.OnRecordWritingException(ctx, batch, cause) })
	}
}

// BeforeRecordProcessing は全パイプラインリスナーの BeforeRecordProcessing を
// 登録順に呼び出し、出力を次のリスナーの入力として連鎖させます。
// いずれかが nil を返した場合は (nil, nil) を返し、レコードはスキップされます。
// リスナー内の panic はパイプラインエラーとしてエラー返却されます。
func (h *Hub) BeforeRecordProcessing(ctx context.Context, r *record.Record) (out *record.Record, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = exception.NewBatchError("listener",
				fmt.Sprintf("BeforeRecordProcessing 内で panic が発生しました: %v", rec), nil, false, false)
		}
	}()
	current := r
	for _, l := range h.pipelineListeners {
		current = l.BeforeRecordProcessing(ctx, current)
		if current == nil {
			return nil, nil
		}
	}
	return current, nil
}

// AfterRecordProcessing は全パイプラインリスナーの AfterRecordProcessing を登録の逆順に呼び出します。
func (h *Hub) AfterRecordProcessing(ctx context.Context, input, output *record.Record) {
	for i := len(h.pipelineListeners) - 1; i >= 0; i-- {
		l := h.pipelineListeners[i]
		guard("AfterRecordProcessing", func() { l.AfterRecordProcessing(ctx, input, output) })
	}
}

// OnRecordProcessingException は全パイプラインリスナーの OnRecordProcessingException を登録の逆順に呼び出します。
func (h *Hub) OnRecordProcessingException(ctx context.Context, r *record.Record, cause error) {
	for i := len(h.pipelineListeners) - 1; i >= 0; i-- {
		l := h.pipelineListeners[i]
		guard("OnRecordProcessingException", func() { l.OnRecordProcessingException(ctx, r, cause) })
	}
}
