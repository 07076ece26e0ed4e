package processor

import (
	"context"

	"batchkit/pkg/batch/record"
)

// ProcessorFunc は関数を RecordProcessor として扱うためのアダプタです。
type ProcessorFunc func(ctx context.Context, r *record.Record) (*record.Record, error)

// ProcessRecord は関数自身を呼び出します。
func (f ProcessorFunc) ProcessRecord(ctx context.Context, r *record.Record) (*record.Record, error) {
	return f(ctx, r)
}

// PayloadFunc はペイロードのみを変換する関数から RecordProcessor を作ります。
// ヘッダは変更されません。関数が nil を返した場合、レコードはフィルタされます。
func PayloadFunc(fn func(payload any) (any, error)) ProcessorFunc {
	return func(ctx context.Context, r *record.Record) (*record.Record, error) {
		out, err := fn(r.Payload)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, nil
		}
		return r.WithPayload(out), nil
	}
}
