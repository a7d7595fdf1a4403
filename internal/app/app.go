package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kyaoi/docbrowse/internal/config"
	"github.com/kyaoi/docbrowse/internal/docs"
	"github.com/kyaoi/docbrowse/internal/ui"
)

// Options are the per-invocation settings that do not live in the config.
type Options struct {
	Tag string
}

// Run executes the Bubble Tea program for the document browser.
func Run(ctx context.Context, cfg config.Config, target string, opts Options, logger *zap.Logger) error {
	provider := docs.NewOSLocal(cfg.Condition, logger)

	var (
		state ui.State
		err   error
	)
	if opts.Tag != "" {
		state, err = LoadTagFilteredState(ctx, provider, target, opts.Tag)
	} else {
		state, err = LoadInitialState(ctx, provider, target)
	}
	if err != nil {
		return err
	}

	state.TreePreferredWidth = cfg.TreeWidth
	state.Style = cfg.Style
	state.Watch = cfg.Watch
	state.Condition = cfg.Condition
	logger.Info("starting", zap.String("target", target), zap.String("root", state.RootDir), zap.String("tag", opts.Tag))
	return runProgram(ctx, state, provider, logger)
}

func runProgram(ctx context.Context, state ui.State, provider docs.Provider, logger *zap.Logger) error {
	program := tea.NewProgram(ui.NewModel(ctx, state, provider, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
