package reader

import (
	"context"
	"database/sql"

	"batchkit/pkg/batch/record"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// SQLRecordReader はクエリの結果行を 1 行 1 レコードとして読み込む
// RecordReader の実装です。ペイロードは列名 → 値のマップです。
type SQLRecordReader struct {
	db      *sql.DB
	query   string
	args    []any
	rows    *sql.Rows
	columns []string
	number  int64
}

// NewSQLRecordReader は新しい SQLRecordReader のインスタンスを作成します。
func NewSQLRecordReader(db *sql.DB, query string, args ...any) *SQLRecordReader {
	return &SQLRecordReader{db: db, query: query, args: args}
}

// Open はクエリを実行し、結果セットを開きます。
func (r *SQLRecordReader) Open(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, r.query, r.args...)
	if err != nil {
		return exception.NewBatchError("reader", "クエリの実行に失敗しました", err, true, false)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return exception.NewBatchError("reader", "列情報の取得に失敗しました", err, false, false)
	}
	r.rows = rows
	r.columns = cols
	r.number = 0
	logger.Debugf("クエリを実行しました: %s", r.query)
	return nil
}

// ReadRecord は次の行をレコードとして返します。終端では (nil, nil) を返します。
func (r *SQLRecordReader) ReadRecord(ctx context.Context) (*record.Record, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, exception.NewBatchError("reader", "結果行の読み込みに失敗しました", err, true, false)
		}
		return nil, nil
	}

	values := make([]any, len(r.columns))
	scanArgs := make([]any, len(r.columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}
	if err := r.rows.Scan(scanArgs...); err != nil {
		return nil, exception.NewBatchError("reader", "行のスキャンに失敗しました", err, false, false)
	}

	row := make(map[string]any, len(r.columns))
	for i, col := range r.columns {
		row[col] = values[i]
	}
	r.number++
	return record.New(record.NewHeader(r.number, r.query), row), nil
}

// Close は結果セットを閉じます。Open が失敗した後でも安全に呼び出せます。
func (r *SQLRecordReader) Close(ctx context.Context) error {
	if r.rows == nil {
		return nil
	}
	return r.rows.Close()
}
