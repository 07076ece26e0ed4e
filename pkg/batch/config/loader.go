package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// LoadDotEnv はカレントディレクトリの .env ファイルをロードします。
// ファイルが存在しない場合は何もしません。
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debugf(".env ファイルはロードされませんでした: %v", err)
	}
}

// BytesConfigLoader はバイトスライスから設定をロードするローダーです。
// 埋め込み設定 (go:embed) を渡す用途を想定しています。
type BytesConfigLoader struct {
	data []byte
}

// NewBytesConfigLoader は新しい BytesConfigLoader のインスタンスを作成します。
func NewBytesConfigLoader(data []byte) *BytesConfigLoader {
	return &BytesConfigLoader{data: data}
}

// Load はバイトスライスから設定をロードし、環境変数で上書きします。
func (l *BytesConfigLoader) Load() (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(l.data, cfg); err != nil {
		return nil, exception.NewBatchError("config", "YAML設定のパースに失敗しました", err, false, false)
	}
	loadEnvVars(cfg)
	return cfg, nil
}

// LoadFromFile は指定されたパスの YAML ファイルから設定をロードします。
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, exception.NewBatchError("config",
			"設定ファイルの読み込みに失敗しました: "+path, err, false, false)
	}
	return NewBytesConfigLoader(data).Load()
}

// loadEnvVars は環境変数で個別の設定値を上書きします。
func loadEnvVars(cfg *Config) {
	// Database 設定
	if dbType := os.Getenv("DATABASE_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPortStr := os.Getenv("DATABASE_PORT"); dbPortStr != "" {
		if dbPort, err := strconv.Atoi(dbPortStr); err == nil {
			cfg.Database.Port = dbPort
		}
	}
	if dbName := os.Getenv("DATABASE_DATABASE"); dbName != "" {
		cfg.Database.Database = dbName
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPassword := os.Getenv("DATABASE_PASSWORD"); dbPassword != "" {
		cfg.Database.Password = dbPassword
	}
	if dbSSLMode := os.Getenv("DATABASE_SSLMODE"); dbSSLMode != "" {
		cfg.Database.Sslmode = dbSSLMode
	}

	// Batch 設定
	if jobName := os.Getenv("BATCH_JOB_NAME"); jobName != "" {
		cfg.Batch.JobName = jobName
	}
	if batchSizeStr := os.Getenv("BATCH_SIZE"); batchSizeStr != "" {
		if batchSize, err := strconv.Atoi(batchSizeStr); err == nil {
			cfg.Batch.BatchSize = batchSize
		} else {
			logger.Warnf("BATCH_SIZE の値 '%s' が無効です。設定ファイルの値を使用します。", batchSizeStr)
		}
	}
	if thresholdStr := os.Getenv("BATCH_ERROR_THRESHOLD"); thresholdStr != "" {
		if threshold, err := strconv.ParseInt(thresholdStr, 10, 64); err == nil {
			cfg.Batch.ErrorThreshold = threshold
		} else {
			logger.Warnf("BATCH_ERROR_THRESHOLD の値 '%s' が無効です。設定ファイルの値を使用します。", thresholdStr)
		}
	}
	if monitoringStr := os.Getenv("BATCH_MONITORING_ENABLED"); monitoringStr != "" {
		if monitoring, err := strconv.ParseBool(monitoringStr); err == nil {
			cfg.Batch.MonitoringEnabled = monitoring
		}
	}
	if scanningStr := os.Getenv("BATCH_SCANNING_ENABLED"); scanningStr != "" {
		if scanning, err := strconv.ParseBool(scanningStr); err == nil {
			cfg.Batch.BatchScanningEnabled = scanning
		}
	}

	// System 設定
	if logLevel := os.Getenv("SYSTEM_LOGGING_LEVEL"); logLevel != "" {
		cfg.System.Logging.Level = logLevel
	}
}
