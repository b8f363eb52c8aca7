package writer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hatlonely/minidb/ref"
	. "github.com/smartystreets/goconvey/convey"
)

type bufferWriter struct {
	bytes.Buffer
	closed bool
}

func (b *bufferWriter) Close() error {
	b.closed = true
	return nil
}

func TestConsoleWriter(t *testing.T) {
	Convey("NewConsoleWriterWithOptions", t, func() {
		Convey("默认输出到 stderr", func() {
			w, err := NewConsoleWriterWithOptions(nil)
			So(err, ShouldBeNil)
			So(w.Target(), ShouldEqual, "stderr")
			So(w.writer == io.Writer(os.Stderr), ShouldBeTrue)
		})

		Convey("指定 stdout", func() {
			w, err := NewConsoleWriterWithOptions(&ConsoleWriterOptions{Target: "stdout"})
			So(err, ShouldBeNil)
			So(w.Target(), ShouldEqual, "stdout")
			So(w.writer == io.Writer(os.Stdout), ShouldBeTrue)
		})

		Convey("未知目标回退到 stderr", func() {
			w, err := NewConsoleWriterWithOptions(&ConsoleWriterOptions{Target: "invalid"})
			So(err, ShouldBeNil)
			So(w.Target(), ShouldEqual, "stderr")
		})

		Convey("写入底层 writer", func() {
			var buf bytes.Buffer
			w := &ConsoleWriter{writer: &buf, target: "stdout"}
			n, err := w.Write([]byte("hello"))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 5)
			So(buf.String(), ShouldEqual, "hello")
			So(w.Close(), ShouldBeNil)
		})
	})
}

func TestFileWriter(t *testing.T) {
	Convey("FileWriter", t, func() {
		path := filepath.Join(t.TempDir(), "logs", "minidb.log")

		Convey("路径为空返回错误", func() {
			_, err := NewFileWriterWithOptions(&FileWriterOptions{})
			So(err, ShouldNotBeNil)
			_, err = NewFileWriterWithOptions(nil)
			So(err, ShouldNotBeNil)
		})

		Convey("自动创建目录并追加写入", func() {
			w, err := NewFileWriterWithOptions(&FileWriterOptions{Path: path})
			So(err, ShouldBeNil)
			_, err = w.Write([]byte("line1\n"))
			So(err, ShouldBeNil)
			So(w.Close(), ShouldBeNil)

			w, err = NewFileWriterWithOptions(&FileWriterOptions{Path: path})
			So(err, ShouldBeNil)
			_, err = w.Write([]byte("line2\n"))
			So(err, ShouldBeNil)
			So(w.Close(), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "line1\nline2\n")
		})

		Convey("关闭后写入返回错误", func() {
			w, err := NewFileWriterWithOptions(&FileWriterOptions{Path: path})
			So(err, ShouldBeNil)
			So(w.Close(), ShouldBeNil)
			So(w.Close(), ShouldBeNil)
			_, err = w.Write([]byte("x"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMultiWriter(t *testing.T) {
	Convey("MultiWriter", t, func() {
		Convey("写入所有输出器", func() {
			a, b := &bufferWriter{}, &bufferWriter{}
			m := NewMultiWriter(a, b)
			n, err := m.Write([]byte("msg"))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)
			So(a.String(), ShouldEqual, "msg")
			So(b.String(), ShouldEqual, "msg")
			So(m.Close(), ShouldBeNil)
			So(a.closed, ShouldBeTrue)
			So(b.closed, ShouldBeTrue)
		})

		Convey("通过 ref 配置创建", func() {
			path := filepath.Join(t.TempDir(), "multi.log")
			w, err := NewWriterWithOptions(&ref.TypeOptions{
				Namespace: Namespace,
				Type:      "MultiWriter",
				Options: &MultiWriterOptions{
					Writers: []ref.TypeOptions{
						{Namespace: Namespace, Type: "ConsoleWriter", Options: &ConsoleWriterOptions{Target: "stderr"}},
						{Namespace: Namespace, Type: "FileWriter", Options: &FileWriterOptions{Path: path}},
					},
				},
			})
			So(err, ShouldBeNil)
			_, err = w.Write([]byte("both\n"))
			So(err, ShouldBeNil)
			So(w.Close(), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "both\n")
		})

		Convey("空配置返回错误", func() {
			_, err := NewMultiWriterWithOptions(&MultiWriterOptions{})
			So(err, ShouldNotBeNil)
		})

		Convey("子输出器创建失败", func() {
			_, err := NewMultiWriterWithOptions(&MultiWriterOptions{
				Writers: []ref.TypeOptions{{Namespace: Namespace, Type: "FileWriter", Options: &FileWriterOptions{}}},
			})
			So(err, ShouldNotBeNil)
		})
	})
}
