package app

import (
	"context"
	"fmt"

	"github.com/kyaoi/docbrowse/internal/docs"
	"github.com/kyaoi/docbrowse/internal/tree"
	"github.com/kyaoi/docbrowse/internal/ui"
)

// LoadTagFilteredState prepares a tree made only of the documents under dir
// whose front matter carries tag. The filter is kept so refreshes apply it
// again.
func LoadTagFilteredState(ctx context.Context, provider docs.Provider, dir, tag string) (ui.State, error) {
	state, err := LoadInitialState(ctx, provider, dir)
	if err != nil {
		return ui.State{}, err
	}
	if state.RootDir == "" {
		return ui.State{}, fmt.Errorf("tag filter needs a directory, got %s", dir)
	}

	filter := func(ctx context.Context, documents []tree.Document) ([]tree.Document, error) {
		return docs.FilterByTag(ctx, provider, documents, tag)
	}
	matched, err := filter(ctx, state.Documents)
	if len(matched) == 0 {
		if err != nil {
			return ui.State{}, fmt.Errorf("no documents tagged %q: %w", tag, err)
		}
		return ui.State{}, fmt.Errorf("no documents tagged %q", tag)
	}

	state.Documents = matched
	state.Filter = filter
	state.FilterLabel = "tag: " + tag
	state.HeaderPath = fmt.Sprintf("%s (tag: %s)", state.HeaderPath, tag)
	state.RawContent = fmt.Sprintf("Select a document tagged %q.", tag)
	state.SelectionPath = matched[0].Path
	return state, nil
}
