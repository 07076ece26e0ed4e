package connector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"batchkit/pkg/batch/config"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// DBConnector は特定のデータベースタイプへの接続を確立するためのインターフェースです。
type DBConnector interface {
	Connect(cfg config.DatabaseConfig) (*sql.DB, error)
}

// connectors は登録された DBConnector の実装を保持するマップです。
var connectors = make(map[string]DBConnector)

// RegisterConnector は指定されたタイプ名で DBConnector を登録します。
func RegisterConnector(dbType string, connector DBConnector) {
	connectors[dbType] = connector
}

// GetSQLDB は設定に基づいて適切なデータベース接続を確立します。
// 登録されたコネクタの中から適切なものを選択して接続します。
func GetSQLDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	connector, ok := connectors[cfg.Type]
	if !ok {
		return nil, exception.NewBatchErrorf("database", "未対応のデータベースタイプ: %s", cfg.Type)
	}
	return connector.Connect(cfg)
}

// Connect は接続を確立し、疎通確認まで行います。
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := GetSQLDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, exception.NewBatchError("database", "データベースへの Ping に失敗しました", err, true, false)
	}
	return db, nil
}

// RunMigrations は書き込み先スキーマのマイグレーションを実行します。
// migrationPath が空の場合は何もしません。
func RunMigrations(cfg config.DatabaseConfig) error {
	if cfg.MigrationPath == "" {
		logger.Infof("マイグレーションパスが指定されていません。スキップします。")
		return nil
	}

	var migrateURL string
	switch cfg.Type {
	case "postgres", "redshift":
		migrateURL = cfg.ConnectionString()
	case "mysql":
		migrateURL = fmt.Sprintf("mysql://%s", cfg.ConnectionString())
	default:
		return exception.NewBatchErrorf("database_migration",
			"マイグレーション未対応のデータベースタイプです: %s", cfg.Type)
	}

	logger.Infof("マイグレーションを実行中: パス '%s'", cfg.MigrationPath)
	m, err := migrate.New(fmt.Sprintf("file://%s", cfg.MigrationPath), migrateURL)
	if err != nil {
		return exception.NewBatchError("database_migration",
			fmt.Sprintf("マイグレーションインスタンスの作成に失敗しました: %s", cfg.MigrationPath), err, false, false)
	}

	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return exception.NewBatchError("database_migration",
			fmt.Sprintf("マイグレーションの適用に失敗しました: %s", cfg.MigrationPath), err, false, false)
	}

	if err == migrate.ErrNoChange {
		logger.Infof("マイグレーションは不要です。データベースは最新の状態です。")
	} else {
		logger.Infof("マイグレーションが正常に完了しました。")
	}
	return nil
}
