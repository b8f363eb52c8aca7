// Package def 根据 def tag 为结构体的零值字段填充默认值
package def

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// SetDefaults 为 object 指向的结构体设置默认值
// 非零字段保持不变，嵌套结构体和非 nil 的结构体指针会递归处理，nil 指针保持 nil
func SetDefaults(object any) error {
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Errorf("object must be a non-nil pointer, got %T", object)
	}
	return setDefaults(rv.Elem())
}

func setDefaults(rv reflect.Value) error {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || rv.Type() == timeType {
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)
		if !value.CanSet() {
			continue
		}

		if err := setDefaults(value); err != nil {
			return errors.WithMessagef(err, "set defaults for field %s failed", field.Name)
		}

		tag, ok := field.Tag.Lookup("def")
		if !ok || !value.IsZero() {
			continue
		}
		if value.Kind() == reflect.Ptr {
			value.Set(reflect.New(value.Type().Elem()))
			value = value.Elem()
		}
		if err := setValue(value, tag); err != nil {
			return errors.WithMessagef(err, "set default value for field %s failed", field.Name)
		}
	}
	return nil
}

func setValue(rv reflect.Value, tag string) error {
	if rv.Type() == durationType {
		d, err := time.ParseDuration(tag)
		if err != nil {
			return errors.Wrapf(err, "invalid duration %q", tag)
		}
		rv.SetInt(int64(d))
		return nil
	}
	if rv.Type() == timeType {
		t, err := time.Parse(time.RFC3339, tag)
		if err != nil {
			return errors.Wrapf(err, "invalid time %q", tag)
		}
		rv.Set(reflect.ValueOf(t))
		return nil
	}

	switch rv.Kind() {
	case reflect.String:
		rv.SetString(tag)
	case reflect.Bool:
		b, err := strconv.ParseBool(tag)
		if err != nil {
			return errors.Wrapf(err, "invalid bool %q", tag)
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(tag, 0, rv.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid int %q", tag)
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(tag, 0, rv.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid uint %q", tag)
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(tag, rv.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid float %q", tag)
		}
		rv.SetFloat(f)
	case reflect.Slice:
		// 逗号分隔，例如 def:"a,b,c"
		parts := strings.Split(tag, ",")
		slice := reflect.MakeSlice(rv.Type(), len(parts), len(parts))
		for i, part := range parts {
			if err := setValue(slice.Index(i), strings.TrimSpace(part)); err != nil {
				return errors.WithMessagef(err, "element [%d]", i)
			}
		}
		rv.Set(slice)
	default:
		return errors.Errorf("unsupported default value type %v", rv.Type())
	}
	return nil
}
