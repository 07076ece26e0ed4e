package reader

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"batchkit/pkg/batch/record"
	exception "batchkit/pkg/batch/util/exception"
)

// xmlElement は対象タグの要素を内側の生 XML ごと取り込むための受け皿です。
type xmlElement struct {
	Inner string `xml:",innerxml"`
}

// XMLRecordReader は XML ファイルから指定タグの要素をストリーミングで
// 読み込む RecordReader の実装です。ペイロードは要素の内側の XML を
// <tag>…</tag> で包み直した文字列です。要素自身の属性は含まれません。
type XMLRecordReader struct {
	path    string
	tag     string
	file    *os.File
	decoder *xml.Decoder
	number  int64
}

// NewXMLRecordReader は新しい XMLRecordReader のインスタンスを作成します。
// tag にはレコードとして切り出す要素名を指定します。
func NewXMLRecordReader(path, tag string) *XMLRecordReader {
	return &XMLRecordReader{path: path, tag: tag}
}

// Open はファイルを開き、XML デコーダを初期化します。
func (r *XMLRecordReader) Open(ctx context.Context) error {
	f, err := os.Open(r.path)
	if err != nil {
		return exception.NewBatchError("reader",
			"XML ファイルのオープンに失敗しました: "+r.path, err, false, false)
	}
	r.file = f
	r.decoder = xml.NewDecoder(f)
	r.number = 0
	return nil
}

// ReadRecord は次の対象要素をレコードとして返します。終端では (nil, nil) を返します。
func (r *XMLRecordReader) ReadRecord(ctx context.Context) (*record.Record, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tok, err := r.decoder.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, exception.NewBatchError("reader",
				"XML トークンの読み込みに失敗しました: "+r.path, err, false, false)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != r.tag {
			continue
		}
		var elem xmlElement
		if err := r.decoder.DecodeElement(&elem, &start); err != nil {
			return nil, exception.NewBatchError("reader",
				fmt.Sprintf("要素 <%s> のデコードに失敗しました", r.tag), err, false, false)
		}
		r.number++
		payload := fmt.Sprintf("<%s>%s</%s>", r.tag, elem.Inner, r.tag)
		return record.New(record.NewHeader(r.number, r.path), payload), nil
	}
}

// Close はファイルを閉じます。Open が失敗した後でも安全に呼び出せます。
func (r *XMLRecordReader) Close(ctx context.Context) error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}
