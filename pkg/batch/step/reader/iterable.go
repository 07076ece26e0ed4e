package reader

import (
	"context"

	"batchkit/pkg/batch/record"
)

// IterableRecordReader はスライスの要素を順にレコードとして返す
// RecordReader の実装です。主にテストと小規模なインメモリソースに使用します。
type IterableRecordReader struct {
	items      []any
	sourceName string
	index      int
	number     int64
}

// NewIterableRecordReader は新しい IterableRecordReader のインスタンスを作成します。
func NewIterableRecordReader(items []any) *IterableRecordReader {
	return &IterableRecordReader{
		items:      items,
		sourceName: "In-Memory Iterable",
	}
}

// Open はリーダーを初期化します。再オープンで先頭から読み直せます。
func (r *IterableRecordReader) Open(ctx context.Context) error {
	r.index = 0
	r.number = 0
	return nil
}

// ReadRecord は次の要素をレコードとして返します。終端では (nil, nil) を返します。
func (r *IterableRecordReader) ReadRecord(ctx context.Context) (*record.Record, error) {
	if r.index >= len(r.items) {
		return nil, nil
	}
	payload := r.items[r.index]
	r.index++
	r.number++
	return record.New(record.NewHeader(r.number, r.sourceName), payload), nil
}

// Close はリソースを解放します。インメモリのため何もしません。
func (r *IterableRecordReader) Close(ctx context.Context) error {
	return nil
}
