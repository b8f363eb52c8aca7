package storage

import (
	"github.com/hatlonely/minidb/cfg/def"
	"github.com/hatlonely/minidb/cfg/validator"
	"github.com/pkg/errors"
)

// ValidateStorage 在转换前填充 def 默认值，转换后用 validate tag 校验
type ValidateStorage struct {
	storage Storage
}

func NewValidateStorage(storage Storage) *ValidateStorage {
	return &ValidateStorage{storage: storage}
}

func (vs *ValidateStorage) Sub(key string) Storage {
	return NewValidateStorage(vs.storage.Sub(key))
}

func (vs *ValidateStorage) ConvertTo(object any) error {
	if err := def.SetDefaults(object); err != nil {
		return errors.WithMessage(err, "set defaults failed")
	}

	if err := vs.storage.ConvertTo(object); err != nil {
		return err
	}

	if err := validator.ValidateStruct(object); err != nil {
		return errors.Wrap(err, "validation failed")
	}
	return nil
}
