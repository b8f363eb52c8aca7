package decoder

import (
	"testing"

	"github.com/hatlonely/minidb/ref"
	. "github.com/smartystreets/goconvey/convey"
)

type loggerOptions struct {
	Level  string `cfg:"level"`
	Format string `cfg:"format"`
}

type shellOptions struct {
	Prompt string `cfg:"prompt"`
	Parser struct {
		OverflowPolicy string `cfg:"overflowPolicy"`
	} `cfg:"parser"`
	Table struct {
		Name          string `cfg:"name"`
		EnableMetrics bool   `cfg:"enableMetrics"`
		Buckets       int    `cfg:"buckets"`
	} `cfg:"table"`
	Logger loggerOptions `cfg:"logger"`
}

func TestDecoders(t *testing.T) {
	cases := []struct {
		name string
		typ  string
		data string
	}{
		{"json", "JsonDecoder", `{
  "prompt": "sql> ",
  "parser": {"overflowPolicy": "truncate"},
  "table": {"name": "users", "enableMetrics": true, "buckets": 8},
  "logger": {"level": "debug", "format": "json"}
}`},
		{"yaml", "YamlDecoder", `
prompt: "sql> "
parser:
  overflowPolicy: truncate
table:
  name: users
  enableMetrics: true
  buckets: 8
logger:
  level: debug
  format: json
`},
		{"toml", "TomlDecoder", `
prompt = "sql> "

[parser]
overflowPolicy = "truncate"

[table]
name = "users"
enableMetrics = true
buckets = 8

[logger]
level = "debug"
format = "json"
`},
		{"ini", "IniDecoder", `
prompt = sql>

[parser]
overflowPolicy = truncate

[table]
name = users
enableMetrics = true
buckets = 8

[logger]
level = debug
format = json
`},
	}

	for _, c := range cases {
		Convey("解码 "+c.name, t, func() {
			d, err := NewDecoderWithOptions(&ref.TypeOptions{Namespace: Namespace, Type: c.typ})
			So(err, ShouldBeNil)

			s, err := d.Decode([]byte(c.data))
			So(err, ShouldBeNil)

			var options shellOptions
			So(s.ConvertTo(&options), ShouldBeNil)
			if c.name != "ini" {
				So(options.Prompt, ShouldEqual, "sql> ")
			} else {
				// ini 会裁掉值两端的空白
				So(options.Prompt, ShouldEqual, "sql>")
			}
			So(options.Parser.OverflowPolicy, ShouldEqual, "truncate")
			So(options.Table.Name, ShouldEqual, "users")
			So(options.Table.EnableMetrics, ShouldBeTrue)
			So(options.Table.Buckets, ShouldEqual, 8)
			So(options.Logger, ShouldResemble, loggerOptions{Level: "debug", Format: "json"})

			var logger loggerOptions
			So(s.Sub("logger").ConvertTo(&logger), ShouldBeNil)
			So(logger.Level, ShouldEqual, "debug")
		})
	}
}

func TestIniNestedSection(t *testing.T) {
	Convey("section 名按点号展开", t, func() {
		s, err := NewIniDecoderWithOptions(nil).Decode([]byte(`
[logger.output]
type = ConsoleWriter

[logger.output.options]
target = stdout
`))
		So(err, ShouldBeNil)

		var target string
		So(s.Sub("logger.output.options.target").ConvertTo(&target), ShouldBeNil)
		So(target, ShouldEqual, "stdout")
	})
}

func TestDecodeError(t *testing.T) {
	Convey("非法数据返回错误", t, func() {
		_, err := NewJsonDecoderWithOptions(nil).Decode([]byte(`{"a":`))
		So(err, ShouldNotBeNil)
		_, err = NewYamlDecoderWithOptions().Decode([]byte("a: [1"))
		So(err, ShouldNotBeNil)
		_, err = NewTomlDecoderWithOptions().Decode([]byte("a = "))
		So(err, ShouldNotBeNil)
	})

	Convey("未注册的解码器", t, func() {
		_, err := NewDecoderWithOptions(&ref.TypeOptions{Namespace: Namespace, Type: "XmlDecoder"})
		So(err, ShouldNotBeNil)
	})
}
