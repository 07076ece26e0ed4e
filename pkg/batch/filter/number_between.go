package filter

import (
	"context"

	"batchkit/pkg/batch/record"
)

// RecordNumberBetweenFilter はヘッダの連番が指定範囲の内側 (両端を含む) に
// あるレコードをフィルタする RecordFilter の実装です。範囲内のレコードが
// 破棄され、範囲外のレコードはそのまま通過します。
//
// Deprecated: 連番ベースのフィルタリングはカスタムフィルタで表現してください。
type RecordNumberBetweenFilter struct {
	lowerBound  int64
	higherBound int64
}

// NewRecordNumberBetweenFilter は新しい RecordNumberBetweenFilter のインスタンスを作成します。
func NewRecordNumberBetweenFilter(lowerBound, higherBound int64) *RecordNumberBetweenFilter {
	return &RecordNumberBetweenFilter{
		lowerBound:  lowerBound,
		higherBound: higherBound,
	}
}

// ProcessRecord は連番が [lowerBound, higherBound] に含まれる場合 nil を返します。
func (f *RecordNumberBetweenFilter) ProcessRecord(ctx context.Context, r *record.Record) (*record.Record, error) {
	if r.Header.Number >= f.lowerBound && r.Header.Number <= f.higherBound {
		return nil, nil
	}
	return r, nil
}
