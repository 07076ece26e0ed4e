package processor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchkit/pkg/batch/record"
	"batchkit/pkg/batch/step/processor"
)

func TestRecordCollector_CollectsAndPassesThrough(t *testing.T) {
	c := processor.NewRecordCollector()
	ctx := context.Background()
	r1 := record.New(record.NewHeader(1, "test"), "a")
	r2 := record.New(record.NewHeader(2, "test"), "b")

	out, err := c.ProcessRecord(ctx, r1)
	require.NoError(t, err)
	assert.Same(t, r1, out)

	_, err = c.ProcessRecord(ctx, r2)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Count())
	records := c.Records()
	require.Len(t, records, 2)
	assert.Same(t, r1, records[0])
	assert.Same(t, r2, records[1])
}

func TestPayloadFunc_TransformsPayloadOnly(t *testing.T) {
	p := processor.PayloadFunc(func(payload any) (any, error) {
		return payload.(string) + "!", nil
	})
	r := record.New(record.NewHeader(1, "test"), "a")

	out, err := p.ProcessRecord(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "a!", out.Payload)
	assert.Same(t, r.Header, out.Header)
}

func TestPayloadFunc_NilResultFiltersRecord(t *testing.T) {
	p := processor.PayloadFunc(func(payload any) (any, error) {
		return nil, nil
	})

	out, err := p.ProcessRecord(context.Background(), record.New(record.NewHeader(1, "t"), "a"))
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestPayloadFunc_PropagatesErrors(t *testing.T) {
	wantErr := errors.New("bad payload")
	p := processor.PayloadFunc(func(payload any) (any, error) {
		return nil, wantErr
	})

	out, err := p.ProcessRecord(context.Background(), record.New(record.NewHeader(1, "t"), "a"))
	assert.Nil(t, out)
	assert.Equal(t, wantErr, err)
}
