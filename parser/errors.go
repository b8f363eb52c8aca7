package parser

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrPatternCompilation = errors.New("pattern compilation failed")
	ErrNoMatch            = errors.New("no match")
	ErrOutOfRange         = errors.New("out of range")
	ErrFieldTooLong       = errors.New("field too long")
)

// ParseError insert 解析失败，Kind 是上面的哨兵错误之一，用 errors.Is 判断
type ParseError struct {
	Kind  error
	Field string
	Value string
	Limit int
	Cause error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrPatternCompilation:
		return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
	case ErrNoMatch:
		return fmt.Sprintf("%v: %q does not match %s", e.Kind, e.Value, e.Field)
	case ErrOutOfRange:
		return fmt.Sprintf("%v: %s %s exceeds %d", e.Kind, e.Field, e.Value, e.Limit)
	case ErrFieldTooLong:
		return fmt.Sprintf("%v: %s %q exceeds %d characters", e.Kind, e.Field, e.Value, e.Limit)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
	}
	return fmt.Sprint(e.Kind)
}

func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
