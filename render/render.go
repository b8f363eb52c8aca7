package render

import (
	"io"
	"iter"

	"github.com/hatlonely/minidb/record"
	"github.com/hatlonely/minidb/ref"
	"github.com/pkg/errors"
)

const Namespace = "github.com/hatlonely/minidb/render"

func init() {
	ref.MustRegister(Namespace, "DebugRenderer", NewDebugRenderer)
	ref.MustRegister(Namespace, "TupleRenderer", NewTupleRenderer)
	ref.MustRegister(Namespace, "JsonRenderer", NewJsonRendererWithOptions)
	ref.MustRegister(Namespace, "YamlRenderer", NewYamlRenderer)
}

// Renderer 把一次全表遍历的结果写到 w
type Renderer interface {
	Render(w io.Writer, rows iter.Seq[record.Record]) error
}

var formats = map[string]string{
	"debug": "DebugRenderer",
	"tuple": "TupleRenderer",
	"json":  "JsonRenderer",
	"yaml":  "YamlRenderer",
}

type Options struct {
	Format string `cfg:"format" def:"debug" validate:"omitempty,oneof=debug tuple json yaml"`
	// Indent 只对 json 生效，为空时输出单行
	Indent string `cfg:"indent"`
}

// NewRendererWithOptions 按 format 创建 Renderer，format 为空时使用 debug
func NewRendererWithOptions(options *Options) (Renderer, error) {
	if options == nil {
		options = &Options{}
	}

	format := options.Format
	if format == "" {
		format = "debug"
	}
	type_, ok := formats[format]
	if !ok {
		return nil, errors.Errorf("unsupported format %q", format)
	}

	var rendererOptions any
	if type_ == "JsonRenderer" {
		rendererOptions = &JsonRendererOptions{Indent: options.Indent}
	}

	r, err := ref.NewWithOptions[Renderer](&ref.TypeOptions{
		Namespace: Namespace,
		Type:      type_,
		Options:   rendererOptions,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "ref.NewWithOptions failed")
	}
	return r, nil
}

// Row 记录的导出视图，json 和 yaml 共用
type Row struct {
	ID       uint8  `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
}

func NewRow(rec record.Record) Row {
	return Row{
		ID:       rec.ID,
		Username: rec.Username.String(),
		Email:    rec.Email.String(),
	}
}

func collect(rows iter.Seq[record.Record]) []Row {
	result := []Row{}
	for rec := range rows {
		result = append(result, NewRow(rec))
	}
	return result
}
