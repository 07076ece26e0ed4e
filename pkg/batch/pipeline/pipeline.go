package pipeline

import (
	"context"
	"fmt"

	core "batchkit/pkg/batch/job/core"
	"batchkit/pkg/batch/record"
	exception "batchkit/pkg/batch/util/exception"
)

// Verdict はパイプライン適用の結果種別です。
type Verdict int

const (
	// Accepted はレコードが全ステージを通過したことを示します。
	Accepted Verdict = iota
	// Filtered はいずれかのステージがレコードを破棄したことを示します。
	Filtered
	// Errored はいずれかのステージがエラーを返した (または panic した) ことを示します。
	Errored
)

// Outcome は 1 レコードに対するパイプライン適用の結果です。
// Errored の場合、FailedInput には失敗したステージへの入力レコードが入ります。
type Outcome struct {
	Verdict     Verdict
	Record      *record.Record
	FailedInput *record.Record
	Err         error
}

// Pipeline はフィルタ → バリデータ → プロセッサ群の順序付きチェーンです。
// 1 レコードに対して各ステージを順に適用し、nil 返却で Filtered、
// エラーで Errored として短絡します。後続ステージは呼び出されません。
type Pipeline struct {
	stages []core.RecordProcessor
}

// New は渡されたステージ列から新しい Pipeline を作成します。
func New(stages ...core.RecordProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Size はパイプラインのステージ数を返します。
func (p *Pipeline) Size() int {
	return len(p.stages)
}

// Process は 1 レコードに全ステージを順に適用します。
// ステージ内の panic もエラーとして回収され、呼び出し元へ伝播しません。
func (p *Pipeline) Process(ctx context.Context, r *record.Record) Outcome {
	current := r
	for _, stage := range p.stages {
		out, err := applyStage(ctx, stage, current)
		if err != nil {
			return Outcome{Verdict: Errored, FailedInput: current, Err: err}
		}
		if out == nil {
			return Outcome{Verdict: Filtered}
		}
		current = out
	}
	return Outcome{Verdict: Accepted, Record: current}
}

// applyStage は 1 ステージを panic 回収付きで適用します。
func applyStage(ctx context.Context, stage core.RecordProcessor, r *record.Record) (out *record.Record, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = exception.NewBatchError("pipeline",
				fmt.Sprintf("ステージの実行中に panic が発生しました: %v", rec), nil, false, false)
		}
	}()
	return stage.ProcessRecord(ctx, r)
}
