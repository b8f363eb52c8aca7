package decoder

import (
	"strings"

	"github.com/hatlonely/minidb/cfg/storage"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

type IniDecoderOptions struct {
	// AllowBoolKeys 没有值的键当作 true
	AllowBoolKeys bool `cfg:"allowBoolKeys"`
}

// IniDecoder 解码 INI，section 名按点号展开成嵌套 map，例如 [logger.output] 对应 logger.output
// 值都保留为字符串，由 MapStorage 在转换时解析成目标类型
type IniDecoder struct {
	allowBoolKeys bool
}

func NewIniDecoderWithOptions(options *IniDecoderOptions) *IniDecoder {
	if options == nil {
		return &IniDecoder{}
	}
	return &IniDecoder{allowBoolKeys: options.AllowBoolKeys}
}

func (d *IniDecoder) Decode(data []byte) (storage.Storage, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:         d.allowBoolKeys,
		SpaceBeforeInlineComment: true,
	}, data)
	if err != nil {
		return nil, errors.Wrap(err, "decode ini failed")
	}

	result := map[string]any{}
	for _, section := range file.Sections() {
		target := result
		if name := section.Name(); name != ini.DefaultSection {
			for _, part := range strings.Split(name, ".") {
				child, ok := target[part].(map[string]any)
				if !ok {
					child = map[string]any{}
					target[part] = child
				}
				target = child
			}
		}
		for _, key := range section.Keys() {
			target[key.Name()] = key.Value()
		}
	}
	return storage.NewMapStorage(result), nil
}
