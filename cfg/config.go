package cfg

import (
	"path/filepath"
	"strings"

	"github.com/hatlonely/minidb/cfg/decoder"
	"github.com/hatlonely/minidb/cfg/def"
	"github.com/hatlonely/minidb/cfg/provider"
	"github.com/hatlonely/minidb/cfg/storage"
	"github.com/hatlonely/minidb/cfg/validator"
	"github.com/hatlonely/minidb/ref"
	"github.com/pkg/errors"
)

type Options struct {
	Provider ref.TypeOptions `cfg:"provider"`
	Decoder  ref.TypeOptions `cfg:"decoder"`
}

// Config 一次性加载的配置，provider 读取数据，decoder 解码成 storage
// ConvertTo 依次执行 默认值 -> 转换 -> 校验
type Config struct {
	provider provider.Provider
	storage  storage.Storage
}

func NewConfigWithOptions(options *Options) (*Config, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}

	p, err := provider.NewProviderWithOptions(&options.Provider)
	if err != nil {
		return nil, errors.WithMessage(err, "create provider failed")
	}

	d, err := decoder.NewDecoderWithOptions(&options.Decoder)
	if err != nil {
		_ = p.Close()
		return nil, errors.WithMessage(err, "create decoder failed")
	}

	data, err := p.Load()
	if err != nil {
		_ = p.Close()
		return nil, errors.WithMessage(err, "provider.Load failed")
	}

	s, err := d.Decode(data)
	if err != nil {
		_ = p.Close()
		return nil, errors.WithMessage(err, "decoder.Decode failed")
	}

	return &Config{
		provider: p,
		storage:  storage.NewValidateStorage(s),
	}, nil
}

// NewConfig 从文件创建配置，按扩展名选择解码器
//   - .json -> JsonDecoder
//   - .yaml/.yml -> YamlDecoder
//   - .toml -> TomlDecoder
//   - .ini -> IniDecoder
func NewConfig(filename string) (*Config, error) {
	if filename == "" {
		return nil, errors.New("filename cannot be empty")
	}

	decoderType, err := decoderTypeByExt(filename)
	if err != nil {
		return nil, err
	}

	return NewConfigWithOptions(&Options{
		Provider: ref.TypeOptions{
			Namespace: provider.Namespace,
			Type:      "FileProvider",
			Options:   &provider.FileProviderOptions{FilePath: filename},
		},
		Decoder: ref.TypeOptions{
			Namespace: decoder.Namespace,
			Type:      decoderType,
		},
	})
}

func decoderTypeByExt(filename string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return "JsonDecoder", nil
	case ".yaml", ".yml":
		return "YamlDecoder", nil
	case ".toml":
		return "TomlDecoder", nil
	case ".ini":
		return "IniDecoder", nil
	default:
		return "", errors.Errorf("unsupported config file extension %q", ext)
	}
}

func (c *Config) Sub(key string) *Config {
	return &Config{provider: c.provider, storage: c.storage.Sub(key)}
}

func (c *Config) ConvertTo(object any) error {
	return c.storage.ConvertTo(object)
}

func (c *Config) Close() error {
	return c.provider.Close()
}

// SetDefaults 根据 def tag 填充零值字段
func SetDefaults(object any) error {
	return def.SetDefaults(object)
}

// Validate 根据 validate tag 校验结构体
func Validate(object any) error {
	return validator.ValidateStruct(object)
}
