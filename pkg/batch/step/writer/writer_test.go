package writer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchkit/pkg/batch/record"
	"batchkit/pkg/batch/step/writer"
)

func newRecord(number int64, payload any) *record.Record {
	return record.New(record.NewHeader(number, "test"), payload)
}

func TestCollectionRecordWriter_AccumulatesBatchesInOrder(t *testing.T) {
	w := writer.NewCollectionRecordWriter()
	ctx := context.Background()
	require.NoError(t, w.Open(ctx))
	defer w.Close(ctx)

	require.NoError(t, w.WriteRecords(ctx, record.NewBatch(newRecord(1, "a"), newRecord(2, "b"))))
	require.NoError(t, w.WriteRecords(ctx, record.NewBatch(newRecord(3, "c"))))

	batches := w.Batches()
	require.Len(t, batches, 2)
	assert.Equal(t, 2, batches[0].Size())
	assert.Equal(t, 1, batches[1].Size())

	records := w.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].Payload)
	assert.Equal(t, "c", records[2].Payload)
}

func TestFlatFileRecordWriter_WritesOneLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w := writer.NewFlatFileRecordWriter(path)
	ctx := context.Background()
	require.NoError(t, w.Open(ctx))

	require.NoError(t, w.WriteRecords(ctx, record.NewBatch(newRecord(1, "a"), newRecord(2, "b"))))
	require.NoError(t, w.Close(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestFlatFileRecordWriter_CloseAfterFailedOpenIsSafe(t *testing.T) {
	w := writer.NewFlatFileRecordWriter(filepath.Join(t.TempDir(), "no-such-dir", "out.txt"))
	ctx := context.Background()

	assert.Error(t, w.Open(ctx))
	assert.NoError(t, w.Close(ctx))
}

func TestSQLRecordWriter_MapperErrorsAbortTheBatch(t *testing.T) {
	w := writer.NewSQLRecordWriter(nil, "postgres", "records",
		[]string{"record_number", "payload"},
		func(r *record.Record) ([]any, error) {
			// 列数が一致しない行変換
			return []any{r.Header.Number}, nil
		})
	ctx := context.Background()

	err := w.WriteRecords(ctx, record.NewBatch(newRecord(1, "a")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "列数")
}

func TestSQLRecordWriter_EmptyBatchIsANoOp(t *testing.T) {
	w := writer.NewSQLRecordWriter(nil, "mysql", "records", []string{"payload"},
		func(r *record.Record) ([]any, error) { return []any{r.Payload}, nil })

	assert.NoError(t, w.WriteRecords(context.Background(), record.NewBatch()))
}
