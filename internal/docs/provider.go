// Package docs lists and edits documents for the browser. The tree package
// only sees the results as plain path strings.
package docs

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/kyaoi/docbrowse/internal/tree"
)

var (
	// ErrNotDir is returned when a directory operation targets a file.
	ErrNotDir = errors.New("path is not a directory")
	// ErrExists is returned when creating a document that already exists.
	ErrExists = errors.New("document already exists")
)

// Entry is one item of a directory listing.
type Entry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
}

// Provider is the document storage used by the browser.
type Provider interface {
	// ListDocuments returns every document below root.
	ListDocuments(ctx context.Context, root string) ([]tree.Document, error)
	// ListDirectory returns the immediate entries of dir.
	ListDirectory(ctx context.Context, dir string) ([]Entry, error)
	ReadDocument(ctx context.Context, path string) ([]byte, error)
	WriteDocument(ctx context.Context, path string, content []byte) error
	// CreateDocument creates an empty document called name inside folder and
	// returns its path.
	CreateDocument(ctx context.Context, folder, name string) (string, error)
	DeleteDocument(ctx context.Context, path string) error
}

// Rule is one half of a Condition.
type Rule struct {
	Exts     []string `yaml:"exts"`
	DirNames []string `yaml:"dir_names"`
}

// Condition selects which files count as documents.
type Condition struct {
	Includes Rule `yaml:"includes"`
	Excludes Rule `yaml:"excludes"`
}

// DefaultCondition matches Markdown files and skips VCS, editor and
// dependency directories.
func DefaultCondition() Condition {
	return Condition{
		Includes: Rule{
			Exts:     []string{"md", "mdx"},
			DirNames: []string{"*"},
		},
		Excludes: Rule{
			DirNames: []string{".git", "node_modules", ".Trash", ".hg", ".svn", ".idea", ".vscode"},
		},
	}
}

// SkipDir reports whether a directory called name is excluded entirely.
func (c Condition) SkipDir(name string) bool {
	for _, pattern := range c.Excludes.DirNames {
		if pattern != "" && matchPattern(pattern, name) {
			return true
		}
	}
	return false
}

// Match reports whether the file called name, living in a directory called
// dirName, is a document.
func (c Condition) Match(name, dirName string) bool {
	lower := strings.ToLower(name)
	for _, ext := range c.Excludes.Exts {
		if ext != "" && strings.HasSuffix(lower, "."+strings.ToLower(ext)) {
			return false
		}
	}
	if c.SkipDir(dirName) {
		return false
	}

	extOK := len(c.Includes.Exts) == 0
	for _, ext := range c.Includes.Exts {
		if ext != "" && strings.HasSuffix(lower, "."+strings.ToLower(ext)) {
			extOK = true
			break
		}
	}

	dirOK := len(c.Includes.DirNames) == 0
	for _, pattern := range c.Includes.DirNames {
		if matchPattern(pattern, dirName) {
			dirOK = true
			break
		}
	}
	return extOK && dirOK
}

// DocumentName appends the default extension when name has none of the
// included ones.
func (c Condition) DocumentName(name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	for _, ext := range c.Includes.Exts {
		if ext != "" && strings.HasSuffix(lower, "."+strings.ToLower(ext)) {
			return name
		}
	}
	return name + ".md"
}

func matchPattern(pattern, name string) bool {
	if pattern == "*" || pattern == name {
		return true
	}
	matched, _ := path.Match(pattern, name)
	return matched
}
