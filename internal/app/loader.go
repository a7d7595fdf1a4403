package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/kyaoi/docbrowse/internal/docs"
	"github.com/kyaoi/docbrowse/internal/ui"
)

// LoadInitialState analyses the target path and prepares the UI state. A
// directory opens the tree scoped to it; a file is shown on its own.
func LoadInitialState(ctx context.Context, provider docs.Provider, target string) (ui.State, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return ui.State{}, err
	}
	absTarget = filepath.ToSlash(absTarget)

	_, err = provider.ListDirectory(ctx, absTarget)
	isDir := err == nil
	if err != nil && !errors.Is(err, docs.ErrNotDir) {
		return ui.State{}, err
	}

	if isDir {
		documents, err := provider.ListDocuments(ctx, absTarget)
		if err != nil {
			return ui.State{}, err
		}

		rootName := path.Base(absTarget)
		message := ""
		if len(documents) == 0 {
			message = fmt.Sprintf("No documents found in %s.", rootName)
		}
		return ui.State{
			RawContent:  message,
			HeaderPath:  rootName + "/",
			TreeVisible: true,
			RootDir:     absTarget,
			Documents:   documents,
			FocusTree:   true,
		}, nil
	}

	data, err := provider.ReadDocument(ctx, absTarget)
	if err != nil {
		return ui.State{}, err
	}

	displayPath := absTarget
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, absTarget); err == nil {
			displayPath = rel
		}
	}

	return ui.State{
		RawContent: string(data),
		HeaderPath: filepath.ToSlash(displayPath),
		ActivePath: absTarget,
	}, nil
}
