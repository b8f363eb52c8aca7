package table

import (
	"context"
	"iter"

	"github.com/hatlonely/minidb/record"
	"github.com/hatlonely/minidb/ref"
	"github.com/pkg/errors"
)

const Namespace = "github.com/hatlonely/minidb/table"

var ErrTableClosed = errors.New("table closed")

func init() {
	ref.MustRegister(Namespace, "MemoryTable", NewMemoryTableWithOptions)
	ref.MustRegister(Namespace, "ObservableTable", NewObservableTableWithOptions)
}

// Table 只追加的有序记录容器，不做去重，也不检查 id 唯一
type Table interface {
	// Append 把记录追加到末尾，表关闭后返回 ErrTableClosed
	Append(ctx context.Context, rec record.Record) error
	// Scan 按插入顺序遍历，每次迭代从头开始，遍历开始时的快照之后追加的记录不可见
	Scan(ctx context.Context) iter.Seq[record.Record]
	Len() int
	Close() error
}

// NewTableWithOptions options 为 nil 时创建 MemoryTable
func NewTableWithOptions(options *ref.TypeOptions) (Table, error) {
	if options == nil || options.Type == "" {
		return NewMemoryTableWithOptions(nil), nil
	}

	t, err := ref.NewWithOptions[Table](options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.NewWithOptions failed")
	}
	return t, nil
}
