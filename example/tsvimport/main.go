package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	batch_config "batchkit/pkg/batch/config"
	"batchkit/pkg/batch/database/connector"
	"batchkit/pkg/batch/job"
	"batchkit/pkg/batch/job/executor"
	"batchkit/pkg/batch/job/listener"
	core "batchkit/pkg/batch/job/core"
	"batchkit/pkg/batch/record"
	"batchkit/pkg/batch/step/processor"
	"batchkit/pkg/batch/step/reader"
	"batchkit/pkg/batch/step/writer"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

//go:embed config.yaml
var embeddedConfig []byte

// tsvRow は TSV の 1 行をパースした結果です。
type tsvRow struct {
	Name  string
	Value string
}

// parseTSV は行をパースします。列数が不正な行はエラーになります。
func parseTSV(payload any) (any, error) {
	line, ok := payload.(string)
	if !ok {
		return nil, exception.NewBatchErrorf("processor", "予期しないペイロードの型です: %T", payload)
	}
	fields := strings.Split(line, "\t")
	if len(fields) != 2 {
		return nil, exception.NewBatchErrorf("processor", "列数が不正です: %d", len(fields))
	}
	return tsvRow{Name: strings.TrimSpace(fields[0]), Value: strings.TrimSpace(fields[1])}, nil
}

// skipComments はコメント行と空行をフィルタします。
func skipComments(payload any) (any, error) {
	line, _ := payload.(string)
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}
	return payload, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "使用方法: tsvimport <入力ファイル>")
		os.Exit(2)
	}
	inputPath := os.Args[1]

	batch_config.LoadDotEnv()
	cfg, err := batch_config.NewBytesConfigLoader(embeddedConfig).Load()
	if err != nil {
		logger.Fatalf("設定のロードに失敗しました: %v", err)
	}
	logger.SetLogLevel(cfg.System.Logging.Level)

	ctx := context.Background()

	db, err := connector.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatalf("データベースへの接続に失敗しました: %v", err)
	}
	defer db.Close()

	if err := connector.RunMigrations(cfg.Database); err != nil {
		logger.Fatalf("マイグレーションに失敗しました: %v", err)
	}

	sqlWriter := writer.NewSQLRecordWriter(db, cfg.Database.Type, "imported_records",
		[]string{"record_number", "name", "value"},
		func(r *record.Record) ([]any, error) {
			row, ok := r.Payload.(tsvRow)
			if !ok {
				return nil, exception.NewBatchErrorf("writer", "予期しないペイロードの型です: %T", r.Payload)
			}
			return []any{r.Header.Number, row.Name, row.Value}, nil
		})

	params := cfg.Batch.ToJobParameters()
	importJob := job.NewBuilder().
		Named(params.Name).
		BatchSize(params.BatchSize).
		ErrorThreshold(params.ErrorThreshold).
		EnableMonitoring(params.MonitoringEnabled).
		EnableBatchScanning(params.BatchScanningEnabled).
		Reader(reader.NewFlatFileRecordReader(inputPath)).
		Filter(processor.PayloadFunc(skipComments)).
		Processor(processor.PayloadFunc(parseTSV)).
		Writer(sqlWriter).
		JobListener(listener.NewLoggingJobListener()).
		BatchListener(listener.NewLoggingBatchListener()).
		Build()

	exec := executor.NewJobExecutor()
	report := exec.Execute(ctx, importJob)

	fmt.Println(report)
	if report.Status() != core.JobStatusCompleted {
		os.Exit(1)
	}
}
