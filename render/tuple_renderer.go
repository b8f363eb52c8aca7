package render

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/hatlonely/minidb/record"
	"github.com/pkg/errors"
)

// TupleRenderer 每条记录一行 (id, username, email)，空表不输出
type TupleRenderer struct{}

func NewTupleRenderer() *TupleRenderer {
	return &TupleRenderer{}
}

func (r *TupleRenderer) Render(w io.Writer, rows iter.Seq[record.Record]) error {
	bw := bufio.NewWriter(w)
	for rec := range rows {
		_, _ = fmt.Fprintf(bw, "(%d, %s, %s)\n", rec.ID, rec.Username, rec.Email)
	}
	return errors.Wrap(bw.Flush(), "write failed")
}
