package connector

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL ドライバ

	"batchkit/pkg/batch/config"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// mysqlConnector は MySQL データベースへの接続を確立する DBConnector の実装です。
type mysqlConnector struct{}

// Connect は MySQL データベースへの接続を確立し、*sql.DB を返します。
func (c *mysqlConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.ConnectionString())
	if err != nil {
		return nil, exception.NewBatchError("database", "MySQL への接続に失敗しました", err, false, false)
	}

	applyPool(db, cfg.ConnectionPool)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, exception.NewBatchError("database", "MySQL への Ping に失敗しました", err, true, false)
	}

	logger.Debugf("MySQL に正常に接続しました。")
	return db, nil
}

// applyPool はコネクションプール設定を適用します。
func applyPool(db *sql.DB, pool config.ConnectionPoolConfig) {
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
}

func init() {
	RegisterConnector("mysql", &mysqlConnector{})
}
