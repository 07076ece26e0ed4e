package record

import (
	"fmt"
	"time"
)

// Header はレコードのメタデータを保持します。
// Number は読み込み順の連番 (1始まり) で、BatchLoop が readCount に合わせて採番します。
// Scanned はバッチスキャン中に単独で再書き込みされるレコードであることを示すフラグで、
// エンジンのスキャンプロトコルのみが true に設定します。
type Header struct {
	Number            int64
	SourceName        string
	CreationTimestamp time.Time
	Scanned           bool
}

// NewHeader は新しい Header のインスタンスを作成します。
func NewHeader(number int64, sourceName string) *Header {
	return &Header{
		Number:            number,
		SourceName:        sourceName,
		CreationTimestamp: time.Now(),
	}
}

// String は Header の文字列表現を返します。
func (h *Header) String() string {
	return fmt.Sprintf("Record: {number=%d, source=%s, creationTimestamp=%s, scanned=%t}",
		h.Number, h.SourceName, h.CreationTimestamp.Format(time.RFC3339), h.Scanned)
}

// Record はパイプラインを流れるデータの運搬単位です。
// Payload はパイプラインの各ステージで型が変わり得るため any で保持します。
// nil の *Record は「レコードなし」(EOF またはフィルタ済み) を意味します。
type Record struct {
	Header  *Header
	Payload any
}

// New は新しい Record のインスタンスを作成します。
func New(header *Header, payload any) *Record {
	return &Record{Header: header, Payload: payload}
}

// WithPayload は同じヘッダを共有し、ペイロードのみ差し替えたレコードを返します。
// プロセッサが変換結果を返すときに使用します。
func (r *Record) WithPayload(payload any) *Record {
	return &Record{Header: r.Header, Payload: payload}
}

// String は Record の文字列表現を返します。
func (r *Record) String() string {
	return fmt.Sprintf("%s payload=%v", r.Header, r.Payload)
}

// Batch はライターに一括で渡されるレコードの順序付き集合です。
type Batch struct {
	records []*Record
}

// NewBatch は渡されたレコード列から新しい Batch を作成します。
func NewBatch(records ...*Record) *Batch {
	return &Batch{records: records}
}

// Size はバッチ内のレコード数を返します。
func (b *Batch) Size() int {
	return len(b.records)
}

// IsEmpty はバッチが空かどうかを返します。
func (b *Batch) IsEmpty() bool {
	return len(b.records) == 0
}

// Records はバッチ内のレコードのコピーを返します。
// 返されたスライスへの変更はバッチに影響しません。
func (b *Batch) Records() []*Record {
	out := make([]*Record, len(b.records))
	copy(out, b.records)
	return out
}

// Get は指定位置のレコードを返します。範囲外の場合は nil を返します。
func (b *Batch) Get(i int) *Record {
	if i < 0 || i >= len(b.records) {
		return nil
	}
	return b.records[i]
}

// String は Batch の文字列表現を返します。
func (b *Batch) String() string {
	return fmt.Sprintf("Batch(size=%d)", len(b.records))
}
