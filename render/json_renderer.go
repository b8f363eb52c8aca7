package render

import (
	"io"
	"iter"

	"github.com/goccy/go-json"
	"github.com/hatlonely/minidb/record"
	"github.com/pkg/errors"
)

type JsonRendererOptions struct {
	Indent string `cfg:"indent"`
}

// JsonRenderer 输出一个 JSON 数组，空表输出 []
type JsonRenderer struct {
	indent string
}

func NewJsonRendererWithOptions(options *JsonRendererOptions) *JsonRenderer {
	if options == nil {
		return &JsonRenderer{}
	}
	return &JsonRenderer{indent: options.Indent}
}

func (r *JsonRenderer) Render(w io.Writer, rows iter.Seq[record.Record]) error {
	encoder := json.NewEncoder(w)
	if r.indent != "" {
		encoder.SetIndent("", r.indent)
	}
	return errors.Wrap(encoder.Encode(collect(rows)), "encode json failed")
}
