package decoder

import (
	"github.com/hatlonely/minidb/cfg/storage"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type YamlDecoder struct{}

func NewYamlDecoderWithOptions() *YamlDecoder {
	return &YamlDecoder{}
}

func (d *YamlDecoder) Decode(data []byte) (storage.Storage, error) {
	var result any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "decode yaml failed")
	}
	return storage.NewMapStorage(result), nil
}
