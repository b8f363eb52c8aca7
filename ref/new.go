package ref

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// TypeOptions 通过命名空间和类型名定位一个已注册的构造函数
// Options 会原样传给构造函数，或者通过 Convertable 转换成构造函数需要的类型
type TypeOptions struct {
	Namespace string `cfg:"namespace"`
	Type      string `cfg:"type"`
	Options   any    `cfg:"options"`
}

// Convertable 可以转换成任意目标类型的配置数据，cfg 的 Storage 实现了该接口
type Convertable interface {
	ConvertTo(object any) error
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type constructor struct {
	fn           reflect.Value
	hasOptions   bool
	returnsError bool
}

func newConstructor(newFunc any) (*constructor, error) {
	fn := reflect.ValueOf(newFunc)
	if fn.Kind() != reflect.Func {
		return nil, errors.New("newFunc must be a function")
	}

	ft := fn.Type()
	if ft.NumIn() > 1 {
		return nil, errors.Errorf("newFunc must have 0 or 1 input parameters, got %d", ft.NumIn())
	}
	if ft.NumOut() != 1 && ft.NumOut() != 2 {
		return nil, errors.Errorf("newFunc must have 1 or 2 return values, got %d", ft.NumOut())
	}
	if ft.NumOut() == 2 && !ft.Out(1).Implements(errorType) {
		return nil, errors.New("second return value must be error type")
	}

	return &constructor{
		fn:           fn,
		hasOptions:   ft.NumIn() == 1,
		returnsError: ft.NumOut() == 2,
	}, nil
}

func (c *constructor) new(options any) (any, error) {
	var args []reflect.Value
	if c.hasOptions {
		arg, err := c.prepareOptions(options)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	results := c.fn.Call(args)
	if c.returnsError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// prepareOptions 把 options 转换成构造函数的参数
// nil 会变成参数类型的零值，指针参数即为 nil，由构造函数决定默认行为
func (c *constructor) prepareOptions(options any) (reflect.Value, error) {
	paramType := c.fn.Type().In(0)

	if options == nil {
		return reflect.Zero(paramType), nil
	}

	if convertable, ok := options.(Convertable); ok {
		if paramType.Kind() == reflect.Ptr {
			target := reflect.New(paramType.Elem())
			if err := convertable.ConvertTo(target.Interface()); err != nil {
				return reflect.Value{}, errors.Wrapf(err, "convert options to %v failed", paramType)
			}
			return target, nil
		}
		target := reflect.New(paramType)
		if err := convertable.ConvertTo(target.Interface()); err != nil {
			return reflect.Value{}, errors.Wrapf(err, "convert options to %v failed", paramType)
		}
		return target.Elem(), nil
	}

	value := reflect.ValueOf(options)
	if !value.Type().AssignableTo(paramType) {
		return reflect.Value{}, errors.Errorf("options type %v is not assignable to %v", value.Type(), paramType)
	}
	return value, nil
}

type registration struct {
	original    any
	constructor *constructor
}

var registry sync.Map

func key(namespace string, type_ string) string {
	return namespace + ":" + type_
}

func isSameFunc(func1, func2 any) bool {
	if func1 == nil || func2 == nil {
		return func1 == func2
	}
	return reflect.ValueOf(func1).Pointer() == reflect.ValueOf(func2).Pointer()
}

// Register 注册构造函数，相同函数重复注册会被忽略，不同函数返回错误
func Register(namespace string, type_ string, newFunc any) error {
	k := key(namespace, type_)
	if existing, ok := registry.Load(k); ok {
		if isSameFunc(existing.(*registration).original, newFunc) {
			return nil
		}
		return errors.Errorf("constructor for %s already registered with different function", k)
	}

	c, err := newConstructor(newFunc)
	if err != nil {
		return errors.WithMessage(err, "failed to create constructor")
	}

	registry.Store(k, &registration{original: newFunc, constructor: c})
	return nil
}

// RegisterT 以 T 的包路径和类型名注册构造函数
func RegisterT[T any](newFunc any) error {
	namespace, type_, err := typeName[T]()
	if err != nil {
		return err
	}
	return Register(namespace, type_, newFunc)
}

func MustRegister(namespace string, type_ string, newFunc any) {
	if err := Register(namespace, type_, newFunc); err != nil {
		panic(err)
	}
}

// New 调用已注册的构造函数创建对象
func New(namespace string, type_ string, options any) (any, error) {
	value, ok := registry.Load(key(namespace, type_))
	if !ok {
		return nil, errors.Errorf("constructor not found for %s", key(namespace, type_))
	}
	return value.(*registration).constructor.new(options)
}

// NewT 以 T 的包路径和类型名查找构造函数，并断言结果类型
func NewT[T any](options any) (T, error) {
	var zero T
	namespace, type_, err := typeName[T]()
	if err != nil {
		return zero, err
	}

	obj, err := New(namespace, type_, options)
	if err != nil {
		return zero, err
	}

	result, ok := obj.(T)
	if !ok {
		return zero, errors.Errorf("created object is not of type %T", zero)
	}
	return result, nil
}

// NewWithOptions 按 TypeOptions 创建对象并断言为 T
func NewWithOptions[T any](options *TypeOptions) (T, error) {
	var zero T
	if options == nil {
		return zero, errors.New("type options is nil")
	}

	obj, err := New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return zero, err
	}

	result, ok := obj.(T)
	if !ok {
		return zero, errors.Errorf("%s:%s does not implement %v", options.Namespace, options.Type, reflect.TypeOf((*T)(nil)).Elem())
	}
	return result, nil
}

// Types 列出命名空间下已注册的类型名
func Types(namespace string) []string {
	var types []string
	prefix := namespace + ":"
	registry.Range(func(k, _ any) bool {
		if name, ok := strings.CutPrefix(k.(string), prefix); ok {
			types = append(types, name)
		}
		return true
	})
	sort.Strings(types)
	return types
}

func typeName[T any]() (string, string, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return "", "", errors.Errorf("cannot determine package path or type name for type %v", t)
	}
	return t.PkgPath(), t.Name(), nil
}
