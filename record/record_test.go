package record

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEncode(t *testing.T) {
	Convey("Encode", t, func() {
		Convey("短文本左对齐，其余槽位为 0", func() {
			f := Encode("alice")
			So(f.Len(), ShouldEqual, 5)
			So(f.String(), ShouldEqual, "alice")
			So(f[0], ShouldEqual, 'a')
			So(f[5], ShouldEqual, rune(0))
			So(f[FieldSize-1], ShouldEqual, rune(0))
		})

		Convey("空文本", func() {
			f := Encode("")
			So(f.Len(), ShouldEqual, 0)
			So(f.String(), ShouldEqual, "")
			So(f, ShouldResemble, Field{})
		})

		Convey("恰好 32 个字符", func() {
			text := strings.Repeat("a", FieldSize)
			f := Encode(text)
			So(f.Len(), ShouldEqual, FieldSize)
			So(f.String(), ShouldEqual, text)
			So(Fits(text), ShouldBeTrue)
		})

		Convey("超过 32 个字符被截断", func() {
			text := strings.Repeat("a", FieldSize) + "b"
			f := Encode(text)
			So(f.Len(), ShouldEqual, FieldSize)
			So(f.String(), ShouldEqual, strings.Repeat("a", FieldSize))
			So(Fits(text), ShouldBeFalse)
		})

		Convey("按字符而不是字节计数", func() {
			text := strings.Repeat("数", FieldSize)
			So(Fits(text), ShouldBeTrue)
			So(CharCount(text), ShouldEqual, FieldSize)
			So(Encode(text).String(), ShouldEqual, text)
		})
	})
}

func TestRecord(t *testing.T) {
	Convey("Record", t, func() {
		r := New(1, "alice", "alice@example.com")

		Convey("字段", func() {
			So(r.ID, ShouldEqual, uint8(1))
			So(r.Username.String(), ShouldEqual, "alice")
			So(r.Email.String(), ShouldEqual, "alice@example.com")
		})

		Convey("相等性", func() {
			So(r.Equal(New(1, "alice", "alice@example.com")), ShouldBeTrue)
			So(r.Equal(New(2, "alice", "alice@example.com")), ShouldBeFalse)
			So(r.Equal(New(1, "bob", "alice@example.com")), ShouldBeFalse)
		})

		Convey("调试输出", func() {
			So(r.String(), ShouldEqual, `Record{ID: 1, Username: "alice", Email: "alice@example.com"}`)
		})
	})
}
