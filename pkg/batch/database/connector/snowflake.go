package connector

import (
	"database/sql"

	_ "github.com/snowflakedb/gosnowflake" // Snowflake ドライバ

	"batchkit/pkg/batch/config"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// snowflakeConnector は Snowflake への接続を確立する DBConnector の実装です。
type snowflakeConnector struct{}

// Connect は Snowflake への接続を確立し、*sql.DB を返します。
func (c *snowflakeConnector) Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("snowflake", cfg.ConnectionString())
	if err != nil {
		return nil, exception.NewBatchError("database", "Snowflake への接続に失敗しました", err, false, false)
	}

	applyPool(db, cfg.ConnectionPool)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, exception.NewBatchError("database", "Snowflake への Ping に失敗しました", err, true, false)
	}

	logger.Debugf("Snowflake に正常に接続しました。")
	return db, nil
}

func init() {
	RegisterConnector("snowflake", &snowflakeConnector{})
}
