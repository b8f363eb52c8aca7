package parser

import (
	"math"
	"regexp"
	"strconv"

	"github.com/hatlonely/minidb/record"
	"github.com/pkg/errors"
)

// wordPattern Unicode 的单词字符：字母、组合符号、十进制数字、连接符号。RE2 的 \w 只匹配 ASCII
const wordPattern = `[\p{L}\p{M}\p{Nd}\p{Pc}]+`

// DefaultInsertPattern insert 语句的语法，单个空格分隔，必须包含 id、username、email 三个命名分组
const DefaultInsertPattern = `^insert (?P<id>\d+) (?P<username>` + wordPattern + `) (?P<email>` +
	wordPattern + `@` + wordPattern + `\.` + wordPattern + `)$`

const (
	// OverflowPolicyReject 文本字段超过 record.FieldSize 时返回 ErrFieldTooLong
	OverflowPolicyReject = "reject"
	// OverflowPolicyTruncate 只保留前 record.FieldSize 个字符
	OverflowPolicyTruncate = "truncate"
)

type InsertParserOptions struct {
	// Pattern 为空时使用 DefaultInsertPattern
	Pattern        string `cfg:"pattern"`
	OverflowPolicy string `cfg:"overflowPolicy" def:"reject" validate:"omitempty,oneof=reject truncate"`
}

type InsertParser struct {
	pattern        string
	re             *regexp.Regexp
	err            error
	overflowPolicy string

	idIndex       int
	usernameIndex int
	emailIndex    int
}

// NewInsertParserWithOptions 语法编译失败不会在这里返回，而是在每次 Parse 时以 ErrPatternCompilation 报告
func NewInsertParserWithOptions(options *InsertParserOptions) (*InsertParser, error) {
	if options == nil {
		options = &InsertParserOptions{}
	}

	p := &InsertParser{
		pattern:        options.Pattern,
		overflowPolicy: options.OverflowPolicy,
	}
	if p.pattern == "" {
		p.pattern = DefaultInsertPattern
	}
	switch p.overflowPolicy {
	case "":
		p.overflowPolicy = OverflowPolicyReject
	case OverflowPolicyReject, OverflowPolicyTruncate:
	default:
		return nil, errors.Errorf("unknown overflow policy %q", p.overflowPolicy)
	}

	p.re, p.err = compile(p.pattern)
	if p.err == nil {
		p.idIndex = p.re.SubexpIndex("id")
		p.usernameIndex = p.re.SubexpIndex("username")
		p.emailIndex = p.re.SubexpIndex("email")
	}
	return p, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "compile %q failed", pattern)
	}
	for _, name := range []string{"id", "username", "email"} {
		if re.SubexpIndex(name) < 0 {
			return nil, errors.Errorf("pattern %q has no group named %s", pattern, name)
		}
	}
	return re, nil
}

func (p *InsertParser) OverflowPolicy() string {
	return p.overflowPolicy
}

func (p *InsertParser) Pattern() string {
	return p.pattern
}

// Parse 要么返回完整的记录，要么返回 *ParseError
func (p *InsertParser) Parse(line string) (record.Record, error) {
	if p.err != nil {
		return record.Record{}, &ParseError{Kind: ErrPatternCompilation, Value: p.pattern, Cause: p.err}
	}

	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return record.Record{}, &ParseError{Kind: ErrNoMatch, Field: "insert <id> <username> <email>", Value: line}
	}

	id, err := strconv.ParseUint(m[p.idIndex], 10, 8)
	if err != nil {
		return record.Record{}, &ParseError{Kind: ErrOutOfRange, Field: "id", Value: m[p.idIndex], Limit: math.MaxUint8, Cause: err}
	}

	username, email := m[p.usernameIndex], m[p.emailIndex]
	if p.overflowPolicy == OverflowPolicyReject {
		for _, field := range []struct{ name, value string }{{"username", username}, {"email", email}} {
			if !record.Fits(field.value) {
				return record.Record{}, &ParseError{Kind: ErrFieldTooLong, Field: field.name, Value: field.value, Limit: record.FieldSize}
			}
		}
	}

	return record.New(uint8(id), username, email), nil
}
