package decoder

import (
	"github.com/BurntSushi/toml"
	"github.com/hatlonely/minidb/cfg/storage"
	"github.com/pkg/errors"
)

type TomlDecoder struct{}

func NewTomlDecoderWithOptions() *TomlDecoder {
	return &TomlDecoder{}
}

func (d *TomlDecoder) Decode(data []byte) (storage.Storage, error) {
	result := map[string]any{}
	if _, err := toml.Decode(string(data), &result); err != nil {
		return nil, errors.Wrap(err, "decode toml failed")
	}
	return storage.NewMapStorage(result), nil
}
