package ui

import (
	"context"

	"github.com/kyaoi/docbrowse/internal/docs"
	"github.com/kyaoi/docbrowse/internal/tree"
)

// DocumentFilter narrows a freshly loaded document list.
type DocumentFilter func(ctx context.Context, documents []tree.Document) ([]tree.Document, error)

// State contains the data required to bootstrap the Bubble Tea model.
type State struct {
	RawContent         string
	HeaderPath         string
	TreeVisible        bool
	TreePreferredWidth int
	// RootDir is the directory the tree is scoped to. Empty means the viewer
	// shows a single document without a tree.
	RootDir string
	// Documents seeds the tree. When nil the model loads them on Init.
	Documents     []tree.Document
	Filter        DocumentFilter
	FilterLabel   string
	SelectionPath string
	ActivePath    string
	FocusTree     bool
	Style         string
	Watch         bool
	// Condition decides which filesystem events touch the document list.
	Condition docs.Condition
}
