package log

import (
	"io"

	"github.com/hatlonely/minidb/log/logger"
	"github.com/hatlonely/minidb/ref"
)

type Logger = logger.Logger

var defaultLogger logger.Logger

func init() {
	// 默认日志向 stderr 输出 text 格式，只记录 warn 及以上
	l, err := logger.NewSLogWithOptions(&logger.SLogOptions{
		Level:  "warn",
		Format: "text",
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	defaultLogger = l
}

func Default() Logger {
	return defaultLogger
}

// Discard 返回丢弃所有输出的日志
func Discard() Logger {
	l, _ := logger.NewSLogWithWriter(io.Discard, &logger.SLogOptions{Level: "error"})
	return l
}

// NewLoggerWithOptions 按 TypeOptions 创建日志，options 为 nil 时返回默认日志
func NewLoggerWithOptions(options *ref.TypeOptions) (Logger, error) {
	if options == nil || options.Type == "" {
		return Default(), nil
	}
	return ref.NewWithOptions[Logger](options)
}
