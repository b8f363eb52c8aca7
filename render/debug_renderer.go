package render

import (
	"bufio"
	"io"
	"iter"

	"github.com/hatlonely/minidb/record"
	"github.com/pkg/errors"
)

// DebugRenderer 单行输出整张表，例如
//
//	Table{Rows: [Record{ID: 1, Username: "alice", Email: "alice@example.com"}]}
type DebugRenderer struct{}

func NewDebugRenderer() *DebugRenderer {
	return &DebugRenderer{}
}

func (r *DebugRenderer) Render(w io.Writer, rows iter.Seq[record.Record]) error {
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString("Table{Rows: [")
	first := true
	for rec := range rows {
		if !first {
			_, _ = bw.WriteString(", ")
		}
		first = false
		_, _ = bw.WriteString(rec.String())
	}
	_, _ = bw.WriteString("]}\n")
	return errors.Wrap(bw.Flush(), "write failed")
}
