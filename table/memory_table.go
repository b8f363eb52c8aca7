package table

import (
	"context"
	"iter"

	"github.com/hatlonely/minidb/record"
)

type MemoryTableOptions struct {
	// Capacity 预分配的行数
	Capacity int `cfg:"capacity" validate:"gte=0"`
}

// MemoryTable 基于 slice 的表，只支持单线程访问
type MemoryTable struct {
	rows   []record.Record
	closed bool
}

func NewMemoryTableWithOptions(options *MemoryTableOptions) *MemoryTable {
	if options == nil {
		options = &MemoryTableOptions{}
	}
	return &MemoryTable{
		rows: make([]record.Record, 0, max(options.Capacity, 0)),
	}
}

func (t *MemoryTable) Append(ctx context.Context, rec record.Record) error {
	if t.closed {
		return ErrTableClosed
	}
	t.rows = append(t.rows, rec)
	return nil
}

func (t *MemoryTable) Scan(ctx context.Context) iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		if t.closed {
			return
		}
		rows := t.rows[:len(t.rows):len(t.rows)]
		for _, rec := range rows {
			if !yield(rec) {
				return
			}
		}
	}
}

func (t *MemoryTable) Len() int {
	return len(t.rows)
}

// Close 之后表不再接受写入，遍历不返回任何记录
func (t *MemoryTable) Close() error {
	t.closed = true
	t.rows = nil
	return nil
}
