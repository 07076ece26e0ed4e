package writer

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"batchkit/pkg/batch/record"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// FlatFileRecordWriter はレコードのペイロードを 1 レコード 1 行として
// テキストファイルへ書き込む RecordWriter の実装です。
type FlatFileRecordWriter struct {
	path string
	file *os.File
	buf  *bufio.Writer
}

// NewFlatFileRecordWriter は新しい FlatFileRecordWriter のインスタンスを作成します。
func NewFlatFileRecordWriter(path string) *FlatFileRecordWriter {
	return &FlatFileRecordWriter{path: path}
}

// Open は出力ファイルを作成します。既存のファイルは上書きされます。
func (w *FlatFileRecordWriter) Open(ctx context.Context) error {
	f, err := os.Create(w.path)
	if err != nil {
		return exception.NewBatchError("writer",
			"ファイルの作成に失敗しました: "+w.path, err, false, false)
	}
	w.file = f
	w.buf = bufio.NewWriter(f)
	logger.Debugf("出力ファイル '%s' を開きました。", w.path)
	return nil
}

// WriteRecords はバッチ内の各レコードのペイロードを 1 行ずつ書き込みます。
func (w *FlatFileRecordWriter) WriteRecords(ctx context.Context, batch *record.Batch) error {
	for _, r := range batch.Records() {
		if _, err := fmt.Fprintln(w.buf, r.Payload); err != nil {
			return exception.NewBatchError("writer",
				"レコードの書き込みに失敗しました: "+w.path, err, false, false)
		}
	}
	return w.buf.Flush()
}

// Close はバッファをフラッシュし、ファイルを閉じます。
// Open が失敗した後でも安全に呼び出せます。
func (w *FlatFileRecordWriter) Close(ctx context.Context) error {
	if w.file == nil {
		return nil
	}
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
