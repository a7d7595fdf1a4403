// Package cmd wires the docbrowse command line.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kyaoi/docbrowse/internal/app"
	"github.com/kyaoi/docbrowse/internal/config"
	"github.com/kyaoi/docbrowse/internal/logging"
)

type flags struct {
	configPath string
	tag        string
	logFile    string
	logLevel   string
	width      int
	noWatch    bool
}

// NewRootCommand builds the docbrowse command.
func NewRootCommand() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:   "docbrowse [path]",
		Short: "Browse a directory of Markdown documents in the terminal",
		Long: "docbrowse shows the documents under a directory as a collapsible tree\n" +
			"next to a rendered preview. Given a file it shows just that document.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Config{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				File:   cfg.LogFile,
			})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Run(ctx, cfg, filepath.Clean(target), app.Options{Tag: f.tag}, logger); err != nil {
				logger.Error("docbrowse failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	root.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to config file (default $XDG_CONFIG_HOME/docbrowse/config.yaml)")
	root.Flags().StringVarP(&f.tag, "tag", "t", "", "Only show documents whose front matter carries this tag")
	root.Flags().StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	root.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.Flags().IntVarP(&f.width, "width", "w", 0, "Preferred tree panel width")
	root.Flags().BoolVar(&f.noWatch, "no-watch", false, "Do not watch the filesystem for changes")

	return root
}

// loadConfig layers the flags that were set on top of file and environment.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	path, required := f.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("width") {
		cfg.TreeWidth = f.width
	}
	if f.noWatch {
		cfg.Watch = false
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}
