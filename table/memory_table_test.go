package table

import (
	"context"
	"slices"
	"testing"

	"github.com/hatlonely/minidb/record"
	"github.com/hatlonely/minidb/ref"
	. "github.com/smartystreets/goconvey/convey"
)

func ids(t Table) []uint8 {
	var result []uint8
	for rec := range t.Scan(context.Background()) {
		result = append(result, rec.ID)
	}
	return result
}

func TestMemoryTable(t *testing.T) {
	Convey("MemoryTable", t, func() {
		ctx := context.Background()
		tbl := NewMemoryTableWithOptions(&MemoryTableOptions{Capacity: 2})

		Convey("空表遍历不返回记录", func() {
			So(tbl.Len(), ShouldEqual, 0)
			So(ids(tbl), ShouldBeEmpty)
		})

		Convey("保持插入顺序，不去重", func() {
			for _, id := range []uint8{3, 1, 2, 1} {
				So(tbl.Append(ctx, record.New(id, "u", "u@x.y")), ShouldBeNil)
			}
			So(tbl.Len(), ShouldEqual, 4)
			So(ids(tbl), ShouldResemble, []uint8{3, 1, 2, 1})

			Convey("遍历可以重复执行且不修改表", func() {
				So(ids(tbl), ShouldResemble, ids(tbl))
				So(tbl.Len(), ShouldEqual, 4)
			})

			Convey("提前结束遍历", func() {
				var first []uint8
				for rec := range tbl.Scan(ctx) {
					first = append(first, rec.ID)
					if len(first) == 2 {
						break
					}
				}
				So(first, ShouldResemble, []uint8{3, 1})
			})
		})

		Convey("遍历中追加的记录不可见", func() {
			So(tbl.Append(ctx, record.New(1, "u", "u@x.y")), ShouldBeNil)
			var seen []uint8
			for rec := range tbl.Scan(ctx) {
				seen = append(seen, rec.ID)
				So(tbl.Append(ctx, record.New(rec.ID+1, "u", "u@x.y")), ShouldBeNil)
			}
			So(seen, ShouldResemble, []uint8{1})
			So(ids(tbl), ShouldResemble, []uint8{1, 2})
		})

		Convey("关闭后拒绝写入", func() {
			So(tbl.Append(ctx, record.New(1, "u", "u@x.y")), ShouldBeNil)
			So(tbl.Close(), ShouldBeNil)
			So(tbl.Append(ctx, record.New(2, "u", "u@x.y")), ShouldEqual, ErrTableClosed)
			So(ids(tbl), ShouldBeEmpty)
		})
	})
}

func TestNewTableWithOptions(t *testing.T) {
	Convey("NewTableWithOptions", t, func() {
		Convey("nil 创建 MemoryTable", func() {
			tbl, err := NewTableWithOptions(nil)
			So(err, ShouldBeNil)
			_, ok := tbl.(*MemoryTable)
			So(ok, ShouldBeTrue)
		})

		Convey("通过 ref 创建", func() {
			tbl, err := NewTableWithOptions(&ref.TypeOptions{
				Namespace: Namespace,
				Type:      "MemoryTable",
				Options:   &MemoryTableOptions{Capacity: 16},
			})
			So(err, ShouldBeNil)
			So(cap(tbl.(*MemoryTable).rows), ShouldEqual, 16)
		})

		Convey("未知类型", func() {
			_, err := NewTableWithOptions(&ref.TypeOptions{Namespace: Namespace, Type: "DiskTable"})
			So(err, ShouldNotBeNil)
		})

		Convey("已注册的类型", func() {
			So(slices.Contains(ref.Types(Namespace), "MemoryTable"), ShouldBeTrue)
			So(slices.Contains(ref.Types(Namespace), "ObservableTable"), ShouldBeTrue)
		})
	})
}
