package processor

import (
	"context"
	"sync"

	"batchkit/pkg/batch/record"
)

// RecordCollector は通過したレコードを蓄積し、そのまま下流へ流す
// RecordProcessor の実装です。ジョブの処理結果をメモリ上で回収する
// 用途とテストに使用します。
type RecordCollector struct {
	mu      sync.Mutex
	records []*record.Record
}

// NewRecordCollector は新しい RecordCollector のインスタンスを作成します。
func NewRecordCollector() *RecordCollector {
	return &RecordCollector{}
}

// ProcessRecord はレコードを蓄積し、変更せずに返します。
func (c *RecordCollector) ProcessRecord(ctx context.Context, r *record.Record) (*record.Record, error) {
	c.mu.Lock()
	c.records = append(c.records, r)
	c.mu.Unlock()
	return r, nil
}

// Records は蓄積済みレコードのコピーを通過順に返します。
func (c *RecordCollector) Records() []*record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*record.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Count は蓄積済みレコード数を返します。
func (c *RecordCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}
