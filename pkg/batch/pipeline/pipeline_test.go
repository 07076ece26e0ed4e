package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchkit/pkg/batch/pipeline"
	"batchkit/pkg/batch/record"
)

type stageFunc func(ctx context.Context, r *record.Record) (*record.Record, error)

func (f stageFunc) ProcessRecord(ctx context.Context, r *record.Record) (*record.Record, error) {
	return f(ctx, r)
}

func newRecord(payload any) *record.Record {
	return record.New(record.NewHeader(1, "test"), payload)
}

func appendStage(suffix string) stageFunc {
	return func(ctx context.Context, r *record.Record) (*record.Record, error) {
		return r.WithPayload(r.Payload.(string) + suffix), nil
	}
}

func TestPipeline_AppliesStagesInOrder(t *testing.T) {
	p := pipeline.New(appendStage("-a"), appendStage("-b"), appendStage("-c"))

	out := p.Process(context.Background(), newRecord("in"))

	require.Equal(t, pipeline.Accepted, out.Verdict)
	assert.Equal(t, "in-a-b-c", out.Record.Payload)
}

func TestPipeline_EmptyPipelineAcceptsRecordUnchanged(t *testing.T) {
	p := pipeline.New()

	out := p.Process(context.Background(), newRecord("in"))

	require.Equal(t, pipeline.Accepted, out.Verdict)
	assert.Equal(t, "in", out.Record.Payload)
}

func TestPipeline_NilShortCircuitsAsFiltered(t *testing.T) {
	invoked := false
	filter := stageFunc(func(ctx context.Context, r *record.Record) (*record.Record, error) {
		return nil, nil
	})
	next := stageFunc(func(ctx context.Context, r *record.Record) (*record.Record, error) {
		invoked = true
		return r, nil
	})
	p := pipeline.New(filter, next)

	out := p.Process(context.Background(), newRecord("in"))

	assert.Equal(t, pipeline.Filtered, out.Verdict)
	assert.False(t, invoked, "フィルタ後のステージは呼び出されない")
}

func TestPipeline_ErrorShortCircuitsWithFailedInput(t *testing.T) {
	stageErr := errors.New("stage failed")
	invoked := false
	failing := stageFunc(func(ctx context.Context, r *record.Record) (*record.Record, error) {
		return nil, stageErr
	})
	next := stageFunc(func(ctx context.Context, r *record.Record) (*record.Record, error) {
		invoked = true
		return r, nil
	})
	p := pipeline.New(appendStage("-a"), failing, next)

	out := p.Process(context.Background(), newRecord("in"))

	require.Equal(t, pipeline.Errored, out.Verdict)
	assert.Equal(t, stageErr, out.Err)
	// 失敗したステージへの入力が FailedInput に入る
	assert.Equal(t, "in-a", out.FailedInput.Payload)
	assert.False(t, invoked, "エラー後のステージは呼び出されない")
}

func TestPipeline_PanicIsRecoveredAsError(t *testing.T) {
	boom := stageFunc(func(ctx context.Context, r *record.Record) (*record.Record, error) {
		panic("boom")
	})
	p := pipeline.New(boom)

	out := p.Process(context.Background(), newRecord("in"))

	require.Equal(t, pipeline.Errored, out.Verdict)
	assert.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "panic")
}
