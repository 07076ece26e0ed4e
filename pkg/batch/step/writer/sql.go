package writer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"batchkit/pkg/batch/record"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// RowMapper はレコードを挿入行の値列に変換する関数です。
type RowMapper func(r *record.Record) ([]any, error)

// SQLRecordWriter はバッチを複数行 INSERT でテーブルへ書き込む
// RecordWriter の実装です。プレースホルダはデータベースタイプ
// ("mysql" / "postgres" / "redshift" / "snowflake") に応じて組み立てられます。
type SQLRecordWriter struct {
	db      *sql.DB
	dbType  string
	table   string
	columns []string
	mapper  RowMapper
}

// NewSQLRecordWriter は新しい SQLRecordWriter のインスタンスを作成します。
func NewSQLRecordWriter(db *sql.DB, dbType, table string, columns []string, mapper RowMapper) *SQLRecordWriter {
	return &SQLRecordWriter{
		db:      db,
		dbType:  strings.ToLower(dbType),
		table:   table,
		columns: columns,
		mapper:  mapper,
	}
}

// Open は接続を確認します。
func (w *SQLRecordWriter) Open(ctx context.Context) error {
	if err := w.db.PingContext(ctx); err != nil {
		return exception.NewBatchError("writer", "データベースへの Ping に失敗しました", err, true, false)
	}
	return nil
}

// WriteRecords はバッチ全体を 1 つの INSERT 文で書き込みます。
func (w *SQLRecordWriter) WriteRecords(ctx context.Context, batch *record.Batch) error {
	if batch.IsEmpty() {
		return nil
	}

	records := batch.Records()
	args := make([]any, 0, len(records)*len(w.columns))
	rows := make([]string, 0, len(records))
	for i, r := range records {
		values, err := w.mapper(r)
		if err != nil {
			return exception.NewBatchError("writer",
				fmt.Sprintf("レコード %d の行変換に失敗しました", r.Header.Number), err, false, false)
		}
		if len(values) != len(w.columns) {
			return exception.NewBatchErrorf("writer",
				"行の値数 (%d) が列数 (%d) と一致しません", len(values), len(w.columns))
		}
		rows = append(rows, w.rowPlaceholders(i))
		args = append(args, values...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		w.table, strings.Join(w.columns, ", "), strings.Join(rows, ", "))
	if _, err := w.db.ExecContext(ctx, query, args...); err != nil {
		return exception.NewBatchError("writer",
			fmt.Sprintf("%d 件の挿入に失敗しました", len(records)), err, true, false)
	}
	logger.Debugf("テーブル '%s' に %d 件を挿入しました。", w.table, len(records))
	return nil
}

// rowPlaceholders は行インデックスに応じたプレースホルダ列を組み立てます。
func (w *SQLRecordWriter) rowPlaceholders(rowIndex int) string {
	ph := make([]string, len(w.columns))
	for i := range w.columns {
		switch w.dbType {
		case "postgres", "redshift":
			ph[i] = fmt.Sprintf("$%d", rowIndex*len(w.columns)+i+1)
		default:
			ph[i] = "?"
		}
	}
	return "(" + strings.Join(ph, ", ") + ")"
}

// Close はリソースを解放します。接続の所有権は呼び出し側にあるため閉じません。
func (w *SQLRecordWriter) Close(ctx context.Context) error {
	return nil
}
