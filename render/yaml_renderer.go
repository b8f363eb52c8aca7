package render

import (
	"io"
	"iter"

	"github.com/hatlonely/minidb/record"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type YamlRenderer struct{}

func NewYamlRenderer() *YamlRenderer {
	return &YamlRenderer{}
}

func (r *YamlRenderer) Render(w io.Writer, rows iter.Seq[record.Record]) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(collect(rows)); err != nil {
		return errors.Wrap(err, "encode yaml failed")
	}
	return errors.Wrap(encoder.Close(), "encode yaml failed")
}
