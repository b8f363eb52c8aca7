package ref

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type Value struct {
	Name string
}

type Options struct {
	Name string
}

// 接收 options，返回对象和错误
func NewValue(options *Options) (*Value, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if options.Name == "" {
		return nil, errors.New("name cannot be empty")
	}
	return &Value{Name: options.Name}, nil
}

// 不接收参数，只返回对象
func NewDefaultValue() *Value {
	return &Value{Name: "default"}
}

// 接收 options，只返回对象
func NewSimpleValue(options *Options) *Value {
	if options == nil {
		return &Value{Name: "nil-options"}
	}
	return &Value{Name: options.Name}
}

type mapConvertable map[string]string

func (m mapConvertable) ConvertTo(object any) error {
	options, ok := object.(*Options)
	if !ok {
		return errors.New("unexpected target")
	}
	options.Name = m["name"]
	return nil
}

func TestRegisterAndNew(t *testing.T) {
	Convey("Register/New", t, func() {
		So(Register("test", "Value", NewValue), ShouldBeNil)
		So(Register("test", "DefaultValue", NewDefaultValue), ShouldBeNil)
		So(Register("test", "SimpleValue", NewSimpleValue), ShouldBeNil)

		Convey("带 options 创建", func() {
			obj, err := New("test", "Value", &Options{Name: "registered"})
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "registered")
		})

		Convey("无参构造函数", func() {
			obj, err := New("test", "DefaultValue", nil)
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "default")
		})

		Convey("nil options 传给指针参数", func() {
			obj, err := New("test", "SimpleValue", nil)
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "nil-options")
		})

		Convey("构造函数返回错误", func() {
			obj, err := New("test", "Value", &Options{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "name cannot be empty")
			So(obj, ShouldBeNil)
		})

		Convey("Convertable options", func() {
			obj, err := New("test", "Value", mapConvertable{"name": "converted"})
			So(err, ShouldBeNil)
			So(obj.(*Value).Name, ShouldEqual, "converted")
		})

		Convey("options 类型不匹配", func() {
			_, err := New("test", "Value", "not-options")
			So(err, ShouldNotBeNil)
		})

		Convey("未注册的类型", func() {
			_, err := New("test", "Missing", nil)
			So(err, ShouldNotBeNil)
		})

		Convey("重复注册相同函数被忽略", func() {
			So(Register("test", "Value", NewValue), ShouldBeNil)
		})

		Convey("重复注册不同函数返回错误", func() {
			So(Register("test", "Value", NewSimpleValue), ShouldNotBeNil)
		})

		Convey("Types 列出命名空间下的类型", func() {
			So(Types("test"), ShouldResemble, []string{"DefaultValue", "SimpleValue", "Value"})
		})
	})
}

func TestRegisterInvalidConstructor(t *testing.T) {
	Convey("非法构造函数", t, func() {
		So(Register("invalid", "NotFunc", 1), ShouldNotBeNil)
		So(Register("invalid", "TooManyArgs", func(a, b int) int { return a + b }), ShouldNotBeNil)
		So(Register("invalid", "NoReturn", func() {}), ShouldNotBeNil)
		So(Register("invalid", "SecondNotError", func() (int, int) { return 1, 2 }), ShouldNotBeNil)
	})
}

func TestRegisterTAndNewT(t *testing.T) {
	Convey("RegisterT/NewT", t, func() {
		So(RegisterT[*Value](NewSimpleValue), ShouldBeNil)

		v, err := NewT[*Value](&Options{Name: "generic"})
		So(err, ShouldBeNil)
		So(v.Name, ShouldEqual, "generic")

		Convey("NewWithOptions 断言结果类型", func() {
			v, err := NewWithOptions[*Value](&TypeOptions{
				Namespace: "github.com/hatlonely/minidb/ref",
				Type:      "Value",
				Options:   &Options{Name: "typed"},
			})
			So(err, ShouldBeNil)
			So(v.Name, ShouldEqual, "typed")

			_, err = NewWithOptions[*Options](&TypeOptions{
				Namespace: "github.com/hatlonely/minidb/ref",
				Type:      "Value",
				Options:   &Options{Name: "typed"},
			})
			So(err, ShouldNotBeNil)

			_, err = NewWithOptions[*Value](nil)
			So(err, ShouldNotBeNil)
		})
	})
}
