package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/hatlonely/minidb/cfg"
	"github.com/hatlonely/minidb/shell"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile, prompt, overflowPolicy, format, logLevel string

	root := &cobra.Command{
		Use:   "minidb",
		Short: "minidb - an in-memory single table shell",
		Long: `minidb reads one command per line and applies it to a single in-memory table.

Meta commands start with a dot (.exit, .help, .stats). Statements are
"insert <id> <username> <email>" and "select".`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := loadOptions(configFile)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("prompt") {
				options.Prompt = prompt
			}
			if flags.Changed("overflow-policy") {
				options.Parser.OverflowPolicy = overflowPolicy
			}
			if flags.Changed("format") {
				options.Render.Format = format
			}
			if flags.Changed("log-level") {
				options.Logger.Level = logLevel
			}
			if err := cfg.Validate(options); err != nil {
				return errors.Wrap(err, "invalid options")
			}

			s, err := shell.NewShellWithOptions(options, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, s, cmd.InOrStdin())
		},
	}

	root.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (.yaml, .yml, .json, .toml, .ini)")
	root.Flags().StringVar(&prompt, "prompt", "db > ", "Prompt printed before each line")
	root.Flags().StringVar(&overflowPolicy, "overflow-policy", "reject", "How to handle username/email longer than 32 characters (reject, truncate)")
	root.Flags().StringVar(&format, "format", "debug", "Select output format (debug, tuple, json, yaml)")
	root.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error), logs go to stderr")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "minidb v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	return root
}

type runCloser interface {
	Run(ctx context.Context, in io.Reader) error
	Close() error
}

// run Run 成功时返回 Close 的错误
func run(ctx context.Context, s runCloser, in io.Reader) (err error) {
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = errors.WithMessage(cerr, "close shell failed")
		}
	}()
	return s.Run(ctx, in)
}

// loadOptions 没有配置文件时只使用默认值
func loadOptions(configFile string) (*shell.Options, error) {
	var options shell.Options
	if configFile == "" {
		if err := cfg.SetDefaults(&options); err != nil {
			return nil, errors.WithMessage(err, "set defaults failed")
		}
		return &options, nil
	}

	config, err := cfg.NewConfig(configFile)
	if err != nil {
		return nil, errors.WithMessagef(err, "load config %s failed", configFile)
	}
	defer config.Close()

	if err := config.ConvertTo(&options); err != nil {
		return nil, errors.WithMessagef(err, "parse config %s failed", configFile)
	}
	return &options, nil
}
