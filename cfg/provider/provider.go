package provider

import (
	"github.com/hatlonely/minidb/ref"
	"github.com/pkg/errors"
)

const Namespace = "github.com/hatlonely/minidb/cfg/provider"

func init() {
	ref.MustRegister(Namespace, "FileProvider", NewFileProviderWithOptions)
}

// Provider 配置数据来源
type Provider interface {
	Load() ([]byte, error)
	Close() error
}

func NewProviderWithOptions(options *ref.TypeOptions) (Provider, error) {
	provider, err := ref.NewWithOptions[Provider](options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.NewWithOptions failed")
	}
	return provider, nil
}
