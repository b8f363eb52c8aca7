package writer

import (
	"io"

	"github.com/hatlonely/minidb/ref"
)

const Namespace = "github.com/hatlonely/minidb/log/writer"

func init() {
	ref.MustRegister(Namespace, "ConsoleWriter", NewConsoleWriterWithOptions)
	ref.MustRegister(Namespace, "FileWriter", NewFileWriterWithOptions)
	ref.MustRegister(Namespace, "MultiWriter", NewMultiWriterWithOptions)
}

// Writer 日志输出器接口
type Writer interface {
	io.Writer
	io.Closer
}

// NewWriterWithOptions 通过 ref 创建输出器
func NewWriterWithOptions(options *ref.TypeOptions) (Writer, error) {
	return ref.NewWithOptions[Writer](options)
}
