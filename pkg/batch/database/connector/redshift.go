package connector

import (
	"database/sql"

	_ "github.com/lib/pq" // Redshift は PostgreSQL 互換プロトコルを使用

	"batchkit/pkg/batch/config"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// redshiftConnector は Amazon Redshift への接続を確立する DBConnector の実装です。
type redshiftConnector struct{}

// Connect は Redshift への接続を確立し、*sql.DB を返します。
func (c *redshiftConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, exception.NewBatchError("database", "Redshift への接続に失敗しました", err, false, false)
	}

	applyPool(db, cfg.ConnectionPool)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, exception.NewBatchError("database", "Redshift への Ping に失敗しました", err, true, false)
	}

	logger.Debugf("Redshift に正常に接続しました。")
	return db, nil
}

func init() {
	RegisterConnector("redshift", &redshiftConnector{})
}
