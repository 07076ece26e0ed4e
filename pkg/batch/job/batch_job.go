package job

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	core "batchkit/pkg/batch/job/core"
	listener "batchkit/pkg/batch/job/listener"
	"batchkit/pkg/batch/monitor"
	"batchkit/pkg/batch/pipeline"
	"batchkit/pkg/batch/record"
	exception "batchkit/pkg/batch/util/exception"
	logger "batchkit/pkg/batch/util/logger"
)

// BatchJob はバッチ処理のドライバです。リーダーからレコードを読み込み、
// パイプラインを適用し、固定サイズのバッチとしてライターへ書き込みます。
// 状態は INIT → OPEN → LOOP → DRAIN → CLOSE → DONE と遷移し、LOOP は
// バッチごとに再突入します。いかなる経路でも Run は panic せず、
// リソースの解放と AfterJob リスナーへの最終通知が保証されます。
type BatchJob struct {
	params  core.JobParameters
	reader  core.RecordReader
	writer  core.RecordWriter
	pipe    *pipeline.Pipeline
	hub     *listener.Hub
	report  *core.JobReport
	aborted atomic.Bool
}

// BatchJob が core.Job インターフェースを満たすことを確認
var _ core.Job = (*BatchJob)(nil)

// JobName はジョブの名前を返します。
func (j *BatchJob) JobName() string {
	return j.params.Name
}

// Report はこのジョブのレポートを返します。実行中でも参照できます。
func (j *BatchJob) Report() *core.JobReport {
	return j.report
}

// Abort はジョブに中断を要求します。冪等です。
// 中断は読み込み境界・書き込み直前・バッチ間でのみ観測されるため、
// 既にチェックを通過した処理中のバッチは完了することがあります。
func (j *BatchJob) Abort() {
	j.aborted.Store(true)
}

// interrupted は中断要求またはコンテキストのキャンセルを観測したかを返します。
func (j *BatchJob) interrupted(ctx context.Context) bool {
	return j.aborted.Load() || ctx.Err() != nil
}

// Run はジョブを実行し、最終的な JobReport を返します。
// エラーや panic を外へ伝播させることはありません。
func (j *BatchJob) Run(ctx context.Context) *core.JobReport {
	defer func() {
		// 最後の砦: ここまで到達する panic は想定外だが、Run の契約を守る
		if rec := recover(); rec != nil {
			logger.Errorf("ジョブ '%s' の実行中に予期しない panic が発生しました: %v", j.params.Name, rec)
			j.report.SetLastError(exception.NewBatchErrorf("job", "予期しない panic: %v", rec))
			j.report.SetStatus(core.JobStatusFailed)
		}
	}()

	metrics := j.report.Metrics
	metrics.SetStartTime(time.Now())
	logger.Infof("ジョブ '%s' を開始します。パラメータ: %s", j.params.Name, j.params)

	if j.params.MonitoringEnabled {
		monitor.Register(j.report)
	}

	j.hub.BeforeJob(ctx, j.params)

	// OPEN: リーダー → ライターの順に開く。どちらかが失敗した場合も
	// 両方のクローズは CLOSE で必ず試みられる。
	opened := false
	if err := j.guard("reader", func() error { return j.reader.Open(ctx) }); err != nil {
		j.fail("リーダーのオープンに失敗しました", err)
	} else if err := j.guard("writer", func() error { return j.writer.Open(ctx) }); err != nil {
		j.fail("ライターのオープンに失敗しました", err)
	} else {
		opened = true
	}

	if opened {
		j.report.SetStatus(core.JobStatusStarted)
		j.loop(ctx)
	}

	// CLOSE: どの経路でも両方のクローズを 1 回ずつ試みる。
	// クローズ時のエラーは先勝ちポリシーに従い、既存の lastError を上書きしない。
	j.closeQuietly(ctx, "reader", j.reader.Close)
	j.closeQuietly(ctx, "writer", j.writer.Close)

	metrics.SetEndTime(time.Now())
	if j.report.Status() == core.JobStatusStarted {
		j.report.SetStatus(core.JobStatusCompleted)
	}

	logger.Infof("%s", j.report)
	j.hub.AfterJob(ctx, j.report)
	return j.report
}

// loop は LOOP / DRAIN 状態を駆動します。リーダーの終端・致命的エラー・
// 中断のいずれかを観測するまでバッチ単位で反復します。
func (j *BatchJob) loop(ctx context.Context) {
	for {
		if j.interrupted(ctx) {
			j.abort()
			return
		}

		j.hub.BeforeBatchReading(ctx)
		items, exhausted, ok := j.fillBatch(ctx)
		if !ok {
			return
		}

		if len(items) > 0 {
			batch := record.NewBatch(items...)
			j.hub.AfterBatchProcessing(ctx, batch)
			// 書き込み直前のキャンセルチェック。中断時は処理中のバッチを破棄する。
			if j.interrupted(ctx) {
				j.abort()
				return
			}
			if !j.writeBatch(ctx, batch) {
				return
			}
		}

		if exhausted {
			return
		}
	}
}

// fillBatch はバッチサイズに達するかリーダーが終端に達するまでレコードを
// 読み込み、パイプラインを適用します。ok=false は致命的エラーまたは中断を
// 意味し、バッファ済みのレコードは破棄されます。
func (j *BatchJob) fillBatch(ctx context.Context) (items []*record.Record, exhausted bool, ok bool) {
	metrics := j.report.Metrics

	for len(items) < j.params.BatchSize {
		// 読み込み境界のキャンセルチェック
		if j.interrupted(ctx) {
			j.abort()
			return nil, false, false
		}

		j.hub.BeforeRecordReading(ctx)
		r, err := j.readRecord(ctx)
		if err != nil {
			// 読み込みエラーはジョブに対して致命的
			j.hub.OnRecordReadingException(ctx, err)
			j.fail("レコードの読み込みに失敗しました", err)
			return nil, false, false
		}
		if r == nil {
			exhausted = true
			break
		}

		r.Header.Number = metrics.IncrementReadCount()
		j.hub.AfterRecordReading(ctx, r)

		// 前処理フックの連鎖。nil はスキップで、フィルタにもエラーにも計上しない。
		pre, perr := j.hub.BeforeRecordProcessing(ctx, r)
		if perr != nil {
			j.hub.OnRecordProcessingException(ctx, r, perr)
			if !j.recordErrors(1) {
				return nil, false, false
			}
			continue
		}
		if pre == nil {
			j.hub.AfterRecordProcessing(ctx, r, nil)
			continue
		}

		outcome := j.pipe.Process(ctx, pre)
		switch outcome.Verdict {
		case pipeline.Errored:
			j.hub.OnRecordProcessingException(ctx, outcome.FailedInput, outcome.Err)
			if !j.recordErrors(1) {
				return nil, false, false
			}
		case pipeline.Filtered:
			metrics.IncrementFilterCount()
			j.hub.AfterRecordProcessing(ctx, pre, nil)
		case pipeline.Accepted:
			j.hub.AfterRecordProcessing(ctx, pre, outcome.Record)
			items = append(items, outcome.Record)
		}
	}

	return items, exhausted, true
}

// writeBatch はバッチをライターへ書き込みます。false は致命的な失敗を意味します。
func (j *BatchJob) writeBatch(ctx context.Context, batch *record.Batch) bool {
	j.hub.BeforeRecordWriting(ctx, batch)
	err := j.writeRecords(ctx, batch)
	if err == nil {
		j.report.Metrics.IncrementWriteCount(int64(batch.Size()))
		j.hub.AfterRecordWriting(ctx, batch)
		j.hub.AfterBatchWriting(ctx, batch)
		return true
	}

	j.hub.OnRecordWritingException(ctx, batch, err)
	j.hub.OnBatchWritingException(ctx, batch, err)

	if !j.params.BatchScanningEnabled {
		// スキャン無効時の書き込み失敗はジョブに対して致命的
		j.report.Metrics.IncrementErrorCount(int64(batch.Size()))
		j.fail(fmt.Sprintf("%d 件のバッチの書き込みに失敗しました", batch.Size()), err)
		return false
	}

	return j.scanBatch(ctx, batch, err)
}

// scanBatch は失敗したバッチの各レコードを単独のバッチとして挿入順に
// 再書き込みし、問題のあるレコードを特定します。スキャンは再帰しません。
func (j *BatchJob) scanBatch(ctx context.Context, batch *record.Batch, cause error) bool {
	logger.Warnf("ジョブ '%s': バッチの書き込みに失敗したため、レコード単位のスキャンを開始します: %v",
		j.params.Name, cause)

	records := batch.Records()
	for _, r := range records {
		r.Header.Scanned = true
	}

	// 失敗したバッチ 1 件につきエラーを 1 回計上する
	if !j.recordErrors(1) {
		return false
	}

	for _, r := range records {
		// 書き込み直前のキャンセルチェック
		if j.interrupted(ctx) {
			j.abort()
			return false
		}

		single := record.NewBatch(r)
		j.hub.AfterBatchProcessing(ctx, single)
		j.hub.BeforeRecordWriting(ctx, single)
		err := j.writeRecords(ctx, single)
		if err == nil {
			j.report.Metrics.IncrementWriteCount(1)
			j.hub.AfterRecordWriting(ctx, single)
			j.hub.AfterBatchWriting(ctx, single)
			continue
		}

		j.hub.OnRecordWritingException(ctx, single, err)
		j.hub.OnBatchWritingException(ctx, single, err)
		logger.Warnf("ジョブ '%s': レコード %d の再書き込みに失敗しました: %v",
			j.params.Name, r.Header.Number, err)
		// 閾値を超過した場合、スキャンは早期終了する
		if !j.recordErrors(1) {
			return false
		}
	}
	return true
}

// recordErrors はエラーカウンタを n 増やし、閾値超過時にジョブを FAILED にします。
// 継続可能な場合 true を返します。
func (j *BatchJob) recordErrors(n int64) bool {
	if j.report.Metrics.IncrementErrorCount(n) > j.params.ErrorThreshold {
		logger.Errorf("ジョブ '%s': エラー数がエラー閾値 %d を超過しました。",
			j.params.Name, j.params.ErrorThreshold)
		j.report.SetStatus(core.JobStatusFailed)
		return false
	}
	return true
}

// fail はジョブを FAILED にし、先勝ちポリシーで lastError を記録します。
func (j *BatchJob) fail(message string, err error) {
	logger.Errorf("ジョブ '%s': %s: %v", j.params.Name, message, err)
	j.report.SetLastError(err)
	j.report.SetStatus(core.JobStatusFailed)
}

// abort はジョブを ABORTED にします。キャンセルはエラーではないため、
// lastError は記録しません。既に FAILED のジョブは変更しません。
func (j *BatchJob) abort() {
	if j.report.Status() == core.JobStatusFailed {
		return
	}
	logger.Warnf("ジョブ '%s' は中断されました。", j.params.Name)
	j.report.SetStatus(core.JobStatusAborted)
}

// readRecord はリーダーの呼び出しを panic 回収付きで実行します。
func (j *BatchJob) readRecord(ctx context.Context) (r *record.Record, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = exception.NewBatchErrorf("reader", "レコードの読み込み中に panic が発生しました: %v", rec)
		}
	}()
	return j.reader.ReadRecord(ctx)
}

// writeRecords はライターの呼び出しを panic 回収付きで実行します。
func (j *BatchJob) writeRecords(ctx context.Context, batch *record.Batch) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = exception.NewBatchErrorf("writer", "バッチの書き込み中に panic が発生しました: %v", rec)
		}
	}()
	return j.writer.WriteRecords(ctx, batch)
}

// guard は任意の呼び出しを panic 回収付きで実行します。
func (j *BatchJob) guard(module string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = exception.NewBatchErrorf(module, "panic が発生しました: %v", rec)
		}
	}()
	return fn()
}

// closeQuietly はリソースのクローズを試み、エラーをログと lastError
// (未記録の場合のみ) に反映します。クローズの失敗は相手側のクローズを妨げません。
func (j *BatchJob) closeQuietly(ctx context.Context, module string, closeFn func(context.Context) error) {
	if err := j.guard(module, func() error { return closeFn(ctx) }); err != nil {
		logger.Errorf("ジョブ '%s': %s のクローズに失敗しました: %v", j.params.Name, module, err)
		j.report.SetLastError(err)
	}
}
