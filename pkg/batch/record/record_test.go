package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchkit/pkg/batch/record"
)

func TestRecord_WithPayloadSharesHeader(t *testing.T) {
	r := record.New(record.NewHeader(7, "source"), "original")

	out := r.WithPayload("transformed")

	assert.Same(t, r.Header, out.Header)
	assert.Equal(t, "transformed", out.Payload)
	assert.Equal(t, "original", r.Payload)
}

func TestHeader_NewHeaderSetsCreationTimestamp(t *testing.T) {
	h := record.NewHeader(1, "source")

	assert.Equal(t, int64(1), h.Number)
	assert.Equal(t, "source", h.SourceName)
	assert.False(t, h.CreationTimestamp.IsZero())
	assert.False(t, h.Scanned)
}

func TestBatch_RecordsReturnsCopy(t *testing.T) {
	r1 := record.New(record.NewHeader(1, "s"), "a")
	r2 := record.New(record.NewHeader(2, "s"), "b")
	b := record.NewBatch(r1, r2)

	records := b.Records()
	records[0] = nil

	// 返されたスライスを変更してもバッチ本体には影響しない
	require.Equal(t, 2, b.Size())
	assert.Same(t, r1, b.Get(0))
	assert.Same(t, r2, b.Get(1))
}

func TestBatch_GetOutOfRangeReturnsNil(t *testing.T) {
	b := record.NewBatch()

	assert.True(t, b.IsEmpty())
	assert.Nil(t, b.Get(0))
	assert.Nil(t, b.Get(-1))
}
