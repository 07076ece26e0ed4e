package reader

import (
	"bufio"
	"context"
	"os"

	"batchkit/pkg/batch/record"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// FlatFileRecordReader はテキストファイルを 1 行 1 レコードとして読み込む
// RecordReader の実装です。ペイロードは行の文字列です。
type FlatFileRecordReader struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	number  int64
}

// NewFlatFileRecordReader は新しい FlatFileRecordReader のインスタンスを作成します。
func NewFlatFileRecordReader(path string) *FlatFileRecordReader {
	return &FlatFileRecordReader{path: path}
}

// Open はファイルを開きます。
func (r *FlatFileRecordReader) Open(ctx context.Context) error {
	f, err := os.Open(r.path)
	if err != nil {
		return exception.NewBatchError("reader",
			"ファイルのオープンに失敗しました: "+r.path, err, false, false)
	}
	r.file = f
	r.scanner = bufio.NewScanner(f)
	r.number = 0
	logger.Debugf("ファイル '%s' を開きました。", r.path)
	return nil
}

// ReadRecord は次の行をレコードとして返します。終端では (nil, nil) を返します。
func (r *FlatFileRecordReader) ReadRecord(ctx context.Context) (*record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, exception.NewBatchError("reader",
				"ファイルの読み込みに失敗しました: "+r.path, err, false, false)
		}
		return nil, nil
	}
	r.number++
	return record.New(record.NewHeader(r.number, r.path), r.scanner.Text()), nil
}

// Close はファイルを閉じます。Open が失敗した後でも安全に呼び出せます。
func (r *FlatFileRecordReader) Close(ctx context.Context) error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}
