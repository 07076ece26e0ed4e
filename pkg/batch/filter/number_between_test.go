package filter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"batchkit/pkg/batch/filter"
	"batchkit/pkg/batch/record"
)

// 範囲の「内側」(両端を含む) がフィルタされることを明示的に固定する。
// 述語の向きを反転させやすいため、境界値を個別に検証する。
func TestRecordNumberBetweenFilter_FiltersNumbersInsideInclusiveRange(t *testing.T) {
	tests := []struct {
		name     string
		number   int64
		filtered bool
	}{
		{name: "BelowLowerBound", number: 1, filtered: false},
		{name: "AtLowerBound", number: 2, filtered: true},
		{name: "InsideRange", number: 3, filtered: true},
		{name: "AtHigherBound", number: 4, filtered: true},
		{name: "AboveHigherBound", number: 5, filtered: false},
	}

	f := filter.NewRecordNumberBetweenFilter(2, 4)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := record.New(record.NewHeader(tt.number, "test"), "payload")
			out, err := f.ProcessRecord(context.Background(), r)
			assert.NoError(t, err)
			if tt.filtered {
				assert.Nil(t, out)
			} else {
				assert.Same(t, r, out)
			}
		})
	}
}
