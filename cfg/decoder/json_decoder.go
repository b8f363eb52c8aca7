package decoder

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/hatlonely/minidb/cfg/storage"
	"github.com/pkg/errors"
)

type JsonDecoderOptions struct {
	// UseNumber 数字解码成 json.Number 而不是 float64
	UseNumber bool `cfg:"useNumber"`
}

type JsonDecoder struct {
	useNumber bool
}

func NewJsonDecoderWithOptions(options *JsonDecoderOptions) *JsonDecoder {
	if options == nil {
		return &JsonDecoder{}
	}
	return &JsonDecoder{useNumber: options.UseNumber}
}

func (d *JsonDecoder) Decode(data []byte) (storage.Storage, error) {
	var result any
	decoder := json.NewDecoder(bytes.NewReader(data))
	if d.useNumber {
		decoder.UseNumber()
	}
	if err := decoder.Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decode json failed")
	}
	return storage.NewMapStorage(result), nil
}
