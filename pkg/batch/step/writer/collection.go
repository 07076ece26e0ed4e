package writer

import (
	"context"
	"sync"

	"batchkit/pkg/batch/record"
)

// CollectionRecordWriter は受け取ったバッチをメモリ上に蓄積する
// RecordWriter の実装です。テストと小規模なインメモリシンクに使用します。
type CollectionRecordWriter struct {
	mu      sync.Mutex
	batches []*record.Batch
}

// NewCollectionRecordWriter は新しい CollectionRecordWriter のインスタンスを作成します。
func NewCollectionRecordWriter() *CollectionRecordWriter {
	return &CollectionRecordWriter{}
}

// Open はライターを初期化します。
func (w *CollectionRecordWriter) Open(ctx context.Context) error {
	return nil
}

// WriteRecords はバッチを蓄積します。
func (w *CollectionRecordWriter) WriteRecords(ctx context.Context, batch *record.Batch) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, batch)
	return nil
}

// Close はリソースを解放します。インメモリのため何もしません。
func (w *CollectionRecordWriter) Close(ctx context.Context) error {
	return nil
}

// Batches は受け取ったバッチのコピーを受領順に返します。
func (w *CollectionRecordWriter) Batches() []*record.Batch {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*record.Batch, len(w.batches))
	copy(out, w.batches)
	return out
}

// Records は受け取った全レコードを受領順に平坦化して返します。
func (w *CollectionRecordWriter) Records() []*record.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []*record.Record
	for _, b := range w.batches {
		out = append(out, b.Records()...)
	}
	return out
}
