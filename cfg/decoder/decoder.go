package decoder

import (
	"github.com/hatlonely/minidb/cfg/storage"
	"github.com/hatlonely/minidb/ref"
	"github.com/pkg/errors"
)

const Namespace = "github.com/hatlonely/minidb/cfg/decoder"

func init() {
	ref.MustRegister(Namespace, "JsonDecoder", NewJsonDecoderWithOptions)
	ref.MustRegister(Namespace, "YamlDecoder", NewYamlDecoderWithOptions)
	ref.MustRegister(Namespace, "TomlDecoder", NewTomlDecoderWithOptions)
	ref.MustRegister(Namespace, "IniDecoder", NewIniDecoderWithOptions)
}

// Decoder 把 provider 读到的原始数据解码成 Storage
type Decoder interface {
	Decode(data []byte) (storage.Storage, error)
}

func NewDecoderWithOptions(options *ref.TypeOptions) (Decoder, error) {
	decoder, err := ref.NewWithOptions[Decoder](options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.NewWithOptions failed")
	}
	return decoder, nil
}
