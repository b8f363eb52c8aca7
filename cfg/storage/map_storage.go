package storage

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/hatlonely/minidb/ref"
	"github.com/pkg/errors"
)

var (
	durationType    = reflect.TypeOf(time.Duration(0))
	timeType        = reflect.TypeOf(time.Time{})
	typeOptionsType = reflect.TypeOf(ref.TypeOptions{})
)

// MapStorage 基于 map 和 slice 的存储实现，各个 decoder 解码的结果都落在这里
type MapStorage struct {
	data any
}

func NewMapStorage(data any) *MapStorage {
	return &MapStorage{data: data}
}

// Data 获取存储的原始数据
func (ms *MapStorage) Data() any {
	return ms.data
}

func (ms *MapStorage) Sub(key string) Storage {
	if key == "" {
		return ms
	}

	current := ms.data
	for _, k := range parseKey(key) {
		current = valueByKey(current, k)
		if current == nil {
			break
		}
	}
	return NewMapStorage(current)
}

func (ms *MapStorage) ConvertTo(object any) error {
	dst := reflect.ValueOf(object)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Errorf("object must be a non-nil pointer, got %T", object)
	}
	return convertValue(ms.data, dst)
}

// parseKey 把 "a.b[0].c" 拆成 ["a", "b", "0", "c"]
func parseKey(key string) []string {
	var keys []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			keys = append(keys, current.String())
			current.Reset()
		}
	}

	inBracket := false
	for _, c := range key {
		switch {
		case c == '.' && !inBracket:
			flush()
		case c == '[':
			flush()
			inBracket = true
		case c == ']' && inBracket:
			flush()
			inBracket = false
		default:
			current.WriteRune(c)
		}
	}
	flush()

	return keys
}

func valueByKey(data any, key string) any {
	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		value := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !value.IsValid() {
			return nil
		}
		return value.Interface()
	case reflect.Slice, reflect.Array:
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= rv.Len() {
			return nil
		}
		return rv.Index(index).Interface()
	}

	return nil
}

func convertValue(src any, dst reflect.Value) error {
	srcValue := reflect.ValueOf(src)
	if !srcValue.IsValid() {
		return nil
	}

	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return convertValue(src, dst.Elem())
	}

	for srcValue.Kind() == reflect.Ptr || srcValue.Kind() == reflect.Interface {
		if srcValue.IsNil() {
			return nil
		}
		srcValue = srcValue.Elem()
	}

	if srcValue.Type().AssignableTo(dst.Type()) {
		dst.Set(srcValue)
		return nil
	}

	switch dst.Type() {
	case typeOptionsType:
		// Options 保持为 Storage，由 ref 在构造时转换成构造函数需要的类型，同时带上默认值和校验
		return convertToTypeOptions(srcValue, dst)
	case durationType:
		return convertToDuration(srcValue, dst)
	case timeType:
		return convertToTime(srcValue, dst)
	}

	switch dst.Kind() {
	case reflect.Struct:
		return convertToStruct(srcValue, dst)
	case reflect.Map:
		return convertToMap(srcValue, dst)
	case reflect.Slice:
		return convertToSlice(srcValue, dst)
	case reflect.String:
		dst.SetString(toString(srcValue))
		return nil
	case reflect.Bool:
		return convertToBool(srcValue, dst)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return convertToNumber(srcValue, dst)
	}

	if srcValue.Type().ConvertibleTo(dst.Type()) {
		dst.Set(srcValue.Convert(dst.Type()))
		return nil
	}
	return errors.Errorf("cannot convert %v to %v", srcValue.Type(), dst.Type())
}

func convertToTypeOptions(src, dst reflect.Value) error {
	if err := convertToStruct(src, dst); err != nil {
		return err
	}
	options := dst.Addr().Interface().(*ref.TypeOptions)
	if options.Options == nil {
		return nil
	}
	if _, ok := options.Options.(Storage); !ok {
		options.Options = NewValidateStorage(NewMapStorage(options.Options))
	}
	return nil
}

func convertToDuration(src, dst reflect.Value) error {
	switch src.Kind() {
	case reflect.String:
		d, err := time.ParseDuration(src.String())
		if err != nil {
			return errors.Wrapf(err, "parse duration %q failed", src.String())
		}
		dst.SetInt(int64(d))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(src.Int())
		return nil
	case reflect.Float32, reflect.Float64:
		dst.SetInt(int64(src.Float()))
		return nil
	}
	return errors.Errorf("cannot convert %v to time.Duration", src.Type())
}

func convertToTime(src, dst reflect.Value) error {
	if src.Type() == timeType {
		dst.Set(src)
		return nil
	}
	if src.Kind() != reflect.String {
		return errors.Errorf("cannot convert %v to time.Time", src.Type())
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, src.String()); err == nil {
			dst.Set(reflect.ValueOf(t))
			return nil
		}
	}
	return errors.Errorf("cannot parse %q as time", src.String())
}

func convertToBool(src, dst reflect.Value) error {
	switch src.Kind() {
	case reflect.Bool:
		dst.SetBool(src.Bool())
		return nil
	case reflect.String:
		b, err := strconv.ParseBool(src.String())
		if err != nil {
			return errors.Wrapf(err, "parse bool %q failed", src.String())
		}
		dst.SetBool(b)
		return nil
	}
	return errors.Errorf("cannot convert %v to bool", src.Type())
}

func convertToNumber(src, dst reflect.Value) error {
	if src.Kind() == reflect.String {
		f, err := strconv.ParseFloat(strings.TrimSpace(src.String()), 64)
		if err != nil {
			return errors.Wrapf(err, "parse number %q failed", src.String())
		}
		src = reflect.ValueOf(f)
	}

	if !src.Type().ConvertibleTo(dst.Type()) || src.Kind() == reflect.Bool {
		return errors.Errorf("cannot convert %v to %v", src.Type(), dst.Type())
	}

	converted := src.Convert(dst.Type())
	// 整数目标往回转一次，能发现溢出和小数截断
	if !dst.CanFloat() && !converted.Convert(src.Type()).Equal(src) {
		return errors.Errorf("value %v overflows %v", src.Interface(), dst.Type())
	}
	dst.Set(converted)
	return nil
}

func convertToMap(src, dst reflect.Value) error {
	if src.Kind() != reflect.Map {
		return errors.Errorf("cannot convert %v to %v", src.Type(), dst.Type())
	}

	dstType := dst.Type()
	result := reflect.MakeMapWithSize(dstType, src.Len())
	iter := src.MapRange()
	for iter.Next() {
		key := reflect.New(dstType.Key()).Elem()
		if err := convertValue(iter.Key().Interface(), key); err != nil {
			return errors.WithMessagef(err, "convert map key %v failed", iter.Key().Interface())
		}
		value := reflect.New(dstType.Elem()).Elem()
		if err := convertValue(iter.Value().Interface(), value); err != nil {
			return errors.WithMessagef(err, "convert map value of key %v failed", iter.Key().Interface())
		}
		result.SetMapIndex(key, value)
	}
	dst.Set(result)
	return nil
}

func convertToSlice(src, dst reflect.Value) error {
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		return errors.Errorf("cannot convert %v to %v", src.Type(), dst.Type())
	}

	result := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		if err := convertValue(src.Index(i).Interface(), result.Index(i)); err != nil {
			return errors.WithMessagef(err, "convert element [%d] failed", i)
		}
	}
	dst.Set(result)
	return nil
}

func convertToStruct(src, dst reflect.Value) error {
	if src.Kind() != reflect.Map {
		return errors.Errorf("cannot convert %v to %v", src.Type(), dst.Type())
	}

	values := map[string]reflect.Value{}
	iter := src.MapRange()
	for iter.Next() {
		values[toString(iter.Key())] = iter.Value()
	}

	dstType := dst.Type()
	for i := 0; i < dstType.NumField(); i++ {
		field := dstType.Field(i)
		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		if name == "-" {
			continue
		}

		value, ok := values[name]
		if !ok {
			// 精确匹配不到时大小写不敏感匹配
			for k, v := range values {
				if strings.EqualFold(k, name) {
					value, ok = v, true
					break
				}
			}
		}
		if !ok {
			continue
		}

		if err := convertValue(value.Interface(), dst.Field(i)); err != nil {
			return errors.WithMessagef(err, "convert field %s failed", field.Name)
		}
	}
	return nil
}

func fieldName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("cfg"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}
	return field.Name
}

func toString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	if v.Kind() == reflect.Interface && !v.IsNil() {
		return toString(v.Elem())
	}
	return fmt.Sprint(v.Interface())
}
