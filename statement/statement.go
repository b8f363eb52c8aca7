// Package statement 把一行输入分类成元命令、语句或无法识别的输入
package statement

import (
	"slices"
	"strings"
)

type Category int

const (
	CategoryUnrecognized Category = iota
	CategoryMetaCommand
	CategoryUnrecognizedMetaCommand
	CategoryStatement
)

func (c Category) String() string {
	switch c {
	case CategoryMetaCommand:
		return "meta_command"
	case CategoryUnrecognizedMetaCommand:
		return "unrecognized_meta_command"
	case CategoryStatement:
		return "statement"
	default:
		return "unrecognized"
	}
}

type MetaCommand int

const (
	MetaCommandNone MetaCommand = iota
	MetaCommandExit
	MetaCommandHelp
	MetaCommandStats
)

func (m MetaCommand) String() string {
	for name, command := range metaCommands {
		if command == m {
			return name
		}
	}
	return ""
}

type StatementType int

const (
	StatementNone StatementType = iota
	StatementInsert
	StatementSelect
)

func (s StatementType) String() string {
	for _, rule := range prefixRules {
		if rule.statement == s {
			return rule.prefix
		}
	}
	return ""
}

// MetaPrefix 元命令的首字符
const MetaPrefix = "."

var metaCommands = map[string]MetaCommand{
	".exit":  MetaCommandExit,
	".help":  MetaCommandHelp,
	".stats": MetaCommandStats,
}

type prefixRule struct {
	prefix    string
	statement StatementType
}

// 按顺序匹配前缀，先匹配先得，"selectfoo" 也算 select
var prefixRules = []prefixRule{
	{"insert", StatementInsert},
	{"select", StatementSelect},
}

// Classification 一行输入的分类结果，Input 保留原始输入用于诊断信息
type Classification struct {
	Category  Category
	Meta      MetaCommand
	Statement StatementType
	Input     string
}

// Classify 对已经去掉首尾空白的一行输入分类
func Classify(line string) Classification {
	if strings.HasPrefix(line, MetaPrefix) {
		if command, ok := metaCommands[line]; ok {
			return Classification{Category: CategoryMetaCommand, Meta: command, Input: line}
		}
		return Classification{Category: CategoryUnrecognizedMetaCommand, Input: line}
	}

	for _, rule := range prefixRules {
		if strings.HasPrefix(line, rule.prefix) {
			return Classification{Category: CategoryStatement, Statement: rule.statement, Input: line}
		}
	}

	return Classification{Category: CategoryUnrecognized, Input: line}
}

// MetaCommands 已识别的元命令，按名字排序
func MetaCommands() []string {
	names := make([]string, 0, len(metaCommands))
	for name := range metaCommands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
