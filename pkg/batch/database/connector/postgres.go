package connector

import (
	"database/sql"

	_ "github.com/lib/pq" // PostgreSQL ドライバ

	"batchkit/pkg/batch/config"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// postgresConnector は PostgreSQL データベースへの接続を確立する DBConnector の実装です。
type postgresConnector struct{}

// Connect は PostgreSQL データベースへの接続を確立し、*sql.DB を返します。
func (c *postgresConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, exception.NewBatchError("database", "PostgreSQL への接続に失敗しました", err, false, false)
	}

	applyPool(db, cfg.ConnectionPool)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, exception.NewBatchError("database", "PostgreSQL への Ping に失敗しました", err, true, false)
	}

	logger.Debugf("PostgreSQL に正常に接続しました。")
	return db, nil
}

func init() {
	RegisterConnector("postgres", &postgresConnector{})
}
