package config

import (
	"fmt"
	"strings"

	core "batchkit/pkg/batch/job/core"
)

// ConnectionPoolConfig はデータベースコネクションプールの設定を保持します。
type ConnectionPoolConfig struct {
	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `yaml:"conn_max_lifetime_seconds"`
}

// DatabaseConfig はデータベース接続の設定を保持します。
type DatabaseConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Sslmode  string `yaml:"sslmode"`
	Account  string `yaml:"account"` // snowflake 用のアカウント識別子
	Schema   string `yaml:"schema"`  // snowflake 用のスキーマ
	// 書き込み先スキーマのマイグレーションファイルのパス
	MigrationPath string `yaml:"migration_path"`
	// コネクションプール設定
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
}

// ConnectionString はデータベースタイプに応じた DSN を組み立てます。
func (c DatabaseConfig) ConnectionString() string {
	switch strings.ToLower(c.Type) {
	case "postgres", "redshift":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.Database, c.Sslmode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			c.User, c.Password, c.Host, c.Port, c.Database)
	case "snowflake":
		return fmt.Sprintf("%s:%s@%s/%s/%s",
			c.User, c.Password, c.Account, c.Database, c.Schema)
	default:
		return ""
	}
}

// BatchConfig はエンジンのジョブ設定を保持します。
type BatchConfig struct {
	JobName              string `yaml:"job_name"`
	BatchSize            int    `yaml:"batch_size"`
	ErrorThreshold       int64  `yaml:"error_threshold"`
	MonitoringEnabled    bool   `yaml:"monitoring_enabled"`
	BatchScanningEnabled bool   `yaml:"batch_scanning_enabled"`
}

// ToJobParameters は BatchConfig を正規化済みの JobParameters に変換します。
// ErrorThreshold の 0 以下は「閾値なし」として扱われます。
func (c BatchConfig) ToJobParameters() core.JobParameters {
	return core.JobParameters{
		Name:                 c.JobName,
		BatchSize:            c.BatchSize,
		ErrorThreshold:       c.ErrorThreshold,
		MonitoringEnabled:    c.MonitoringEnabled,
		BatchScanningEnabled: c.BatchScanningEnabled,
	}.Normalize()
}

// LoggingConfig はロギングの設定を保持します。
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SystemConfig はシステム全体の設定を保持します。
type SystemConfig struct {
	Timezone string        `yaml:"timezone"`
	Logging  LoggingConfig `yaml:"logging"`
}

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Batch    BatchConfig    `yaml:"batch"`
	System   SystemConfig   `yaml:"system"`
}

// NewConfig は既定値を適用した Config の新しいインスタンスを返します。
func NewConfig() *Config {
	return &Config{
		System: SystemConfig{
			Timezone: "UTC",
			Logging:  LoggingConfig{Level: "INFO"},
		},
		Batch: BatchConfig{
			JobName:   core.DefaultJobName,
			BatchSize: core.DefaultBatchSize,
		},
	}
}
