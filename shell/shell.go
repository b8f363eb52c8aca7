package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hatlonely/minidb/log/logger"
	"github.com/hatlonely/minidb/parser"
	"github.com/hatlonely/minidb/render"
	"github.com/hatlonely/minidb/statement"
	"github.com/hatlonely/minidb/table"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type State int

const (
	StateRunning State = iota
	StateTerminated
)

func (s State) String() string {
	if s == StateTerminated {
		return "terminated"
	}
	return "running"
}

type Options struct {
	Prompt string                       `cfg:"prompt" def:"db > "`
	Parser parser.InsertParserOptions   `cfg:"parser"`
	Render render.Options               `cfg:"render"`
	Table  table.ObservableTableOptions `cfg:"table"`
	Logger logger.SLogOptions           `cfg:"logger"`
}

// Shell 持有唯一的一张表，逐行执行命令，只有 .exit 会让它进入 StateTerminated
type Shell struct {
	prompt   string
	parser   *parser.InsertParser
	renderer render.Renderer
	table    table.Table
	logger   logger.Logger
	closer   io.Closer
	registry *prometheus.Registry
	metrics  *Metrics
	out      io.Writer
	state    State
}

// NewShellWithOptions 所有输出写到 out，日志按 options.Logger 单独输出
func NewShellWithOptions(options *Options, out io.Writer) (*Shell, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}

	sl, err := logger.NewSLogWithOptions(&options.Logger)
	if err != nil {
		return nil, errors.WithMessage(err, "create logger failed")
	}

	s, err := newShell(options, out, sl)
	if err != nil {
		_ = sl.Close()
		return nil, err
	}
	s.closer = sl
	return s, nil
}

// NewShellWithLogger 使用已有的日志，options.Logger 被忽略
func NewShellWithLogger(options *Options, out io.Writer, l logger.Logger) (*Shell, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	return newShell(options, out, l)
}

func newShell(options *Options, out io.Writer, l logger.Logger) (*Shell, error) {
	p, err := parser.NewInsertParserWithOptions(&options.Parser)
	if err != nil {
		return nil, errors.WithMessage(err, "create insert parser failed")
	}

	r, err := render.NewRendererWithOptions(&options.Render)
	if err != nil {
		return nil, errors.WithMessage(err, "create renderer failed")
	}

	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	tableOptions := options.Table
	tableOptions.Registerer = registry
	if tableOptions.Log == nil {
		tableOptions.Log = l
	}
	t, err := table.NewObservableTableWithOptions(&tableOptions)
	if err != nil {
		return nil, errors.WithMessage(err, "create table failed")
	}

	return &Shell{
		prompt:   options.Prompt,
		parser:   p,
		renderer: r,
		table:    t,
		logger:   l.WithGroup("shell"),
		registry: registry,
		metrics:  metrics,
		out:      out,
		state:    StateRunning,
	}, nil
}

func (s *Shell) State() State {
	return s.state
}

func (s *Shell) Table() table.Table {
	return s.table
}

func (s *Shell) Registry() *prometheus.Registry {
	return s.registry
}

// Execute 执行一行已经去掉首尾空白的输入
// 语句失败都在这里输出诊断信息，返回的错误只来自写 out 失败
func (s *Shell) Execute(ctx context.Context, line string) error {
	if s.state == StateTerminated {
		return nil
	}

	start := time.Now()
	c := statement.Classify(line)
	command, outcome, err := s.dispatch(ctx, c)
	s.metrics.observe(command, outcome, time.Since(start).Seconds())
	return err
}

func (s *Shell) dispatch(ctx context.Context, c statement.Classification) (string, string, error) {
	switch c.Category {
	case statement.CategoryMetaCommand:
		return c.Meta.String(), outcomeSuccess, s.executeMeta(ctx, c.Meta)

	case statement.CategoryUnrecognizedMetaCommand:
		s.logger.DebugContext(ctx, "unrecognized meta command", "input", c.Input)
		return c.Category.String(), outcomeError, s.printf("unrecognized meta command: %s\n", c.Input)

	case statement.CategoryStatement:
		switch c.Statement {
		case statement.StatementInsert:
			return s.executeInsert(ctx, c.Input)
		case statement.StatementSelect:
			return c.Statement.String(), outcomeSuccess, s.renderer.Render(s.out, s.table.Scan(ctx))
		}
	}

	s.logger.DebugContext(ctx, "unrecognized input", "input", c.Input)
	return c.Category.String(), outcomeError, s.printf("Unrecognized input: %s\n", c.Input)
}

func (s *Shell) executeInsert(ctx context.Context, line string) (string, string, error) {
	command := statement.StatementInsert.String()

	rec, err := s.parser.Parse(line)
	if err != nil {
		s.logger.InfoContext(ctx, "parse insert failed", "input", line, "error", err.Error())
		return command, outcomeError, s.printf("Encountered error when parsing insert: %v\n", err)
	}

	if err := s.table.Append(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "append failed", "record", rec.String(), "error", err.Error())
		return command, outcomeError, s.printf("Encountered error when inserting: %v\n", err)
	}
	return command, outcomeSuccess, nil
}

func (s *Shell) executeMeta(ctx context.Context, command statement.MetaCommand) error {
	switch command {
	case statement.MetaCommandExit:
		s.state = StateTerminated
		s.logger.InfoContext(ctx, "shell terminated", "rows", s.table.Len())
		return nil
	case statement.MetaCommandHelp:
		return s.printf("%s", helpText())
	case statement.MetaCommandStats:
		if err := writeStats(s.out, s.registry); err != nil {
			return err
		}
		return s.printf("rows: %d\n", s.table.Len())
	}
	return nil
}

var metaCommandUsages = map[string]string{
	".exit":  "Exit the shell",
	".help":  "Show available commands",
	".stats": "Show command counters and table size",
}

const statementHelp = `Statements:
  insert <id> <username> <email>
           - Append a record, id is 0-255, username and email hold at most 32 characters
  select   - Print every record in insertion order
`

// helpText 元命令列表来自 statement.MetaCommands
func helpText() string {
	var buf strings.Builder
	buf.WriteString("Meta commands:\n")
	for _, name := range statement.MetaCommands() {
		if usage, ok := metaCommandUsages[name]; ok {
			fmt.Fprintf(&buf, "  %-8s - %s\n", name, usage)
		} else {
			fmt.Fprintf(&buf, "  %s\n", name)
		}
	}
	buf.WriteString(statementHelp)
	return buf.String()
}

func (s *Shell) printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(s.out, format, args...); err != nil {
		return errors.Wrap(err, "write output failed")
	}
	return nil
}

// Run 逐行读取 in 直到 .exit、EOF 或者 ctx 被取消，每行之前输出提示符
// ctx 只在两行之间检查，单行长度不受限制
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	s.logger.InfoContext(ctx, "shell started", "prompt", s.prompt)
	reader := bufio.NewReader(in)

	for s.state == StateRunning {
		if err := ctx.Err(); err != nil {
			s.logger.InfoContext(ctx, "shell cancelled", "error", err.Error())
			return err
		}

		if err := s.printf("%s", s.prompt); err != nil {
			return err
		}

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "read input failed")
		}
		if err == io.EOF && line == "" {
			s.state = StateTerminated
			s.logger.InfoContext(ctx, "shell reached end of input", "rows", s.table.Len())
			return nil
		}

		if err := s.Execute(ctx, strings.TrimSpace(line)); err != nil {
			return err
		}
	}
	return nil
}

// Close 关闭表和由 options 创建的日志
func (s *Shell) Close() error {
	err := s.table.Close()
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
