package docs

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/kyaoi/docbrowse/internal/tree"
)

var _ Provider = (*Local)(nil)

// Local serves documents from a billy filesystem. Paths are absolute and use
// forward slashes.
type Local struct {
	fs        billy.Filesystem
	condition Condition
	logger    *zap.Logger
}

// NewLocal creates a provider on top of fs.
func NewLocal(fs billy.Filesystem, condition Condition, logger *zap.Logger) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Local{
		fs:        fs,
		condition: condition,
		logger:    logger,
	}
}

// NewOSLocal creates a provider backed by the host filesystem.
func NewOSLocal(condition Condition, logger *zap.Logger) *Local {
	return NewLocal(osfs.New("/"), condition, logger)
}

// ListDocuments walks root and returns the matching documents in walk order.
func (l *Local) ListDocuments(ctx context.Context, root string) ([]tree.Document, error) {
	info, err := l.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("list documents %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("list documents %s: %w", root, ErrNotDir)
	}

	documents := []tree.Document{}
	err = util.Walk(l.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		p = filepath.ToSlash(p)
		if info.IsDir() {
			if p != root && l.condition.SkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !l.condition.Match(info.Name(), path.Base(path.Dir(p))) {
			return nil
		}
		documents = append(documents, tree.Document{
			Path: p,
			Name: info.Name(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list documents %s: %w", root, err)
	}

	l.logger.Debug("documents listed", zap.String("root", root), zap.Int("count", len(documents)))
	return documents, nil
}

// ListDirectory returns the immediate children of dir.
func (l *Local) ListDirectory(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := l.fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("list directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("list directory %s: %w", dir, ErrNotDir)
	}

	infos, err := l.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list directory %s: %w", dir, err)
	}
	items := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		items = append(items, Entry{
			Name:  fi.Name(),
			IsDir: fi.IsDir(),
		})
	}
	return items, nil
}

// ReadDocument returns the content of the document at p.
func (l *Local) ReadDocument(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := util.ReadFile(l.fs, p)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", p, err)
	}
	return data, nil
}

// WriteDocument replaces the content of the document at p.
func (l *Local) WriteDocument(ctx context.Context, p string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := util.WriteFile(l.fs, p, content, 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", p, err)
	}
	l.logger.Info("document written", zap.String("path", p), zap.Int("bytes", len(content)))
	return nil
}

// CreateDocument creates an empty document in folder. The default extension
// is added when name lacks one and existing files are never overwritten.
func (l *Local) CreateDocument(ctx context.Context, folder, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = l.condition.DocumentName(name)
	if name == ".md" || strings.Contains(name, "/") {
		return "", fmt.Errorf("create document %q: %w", name, tree.ErrInvalidPath)
	}

	p := strings.TrimSuffix(folder, "/") + "/" + name
	f, err := l.fs.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("create document %s: %w", p, ErrExists)
		}
		return "", fmt.Errorf("create document %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("create document %s: %w", p, err)
	}

	l.logger.Info("document created", zap.String("path", p))
	return p, nil
}

// DeleteDocument removes the document at p.
func (l *Local) DeleteDocument(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := l.fs.Remove(p); err != nil {
		return fmt.Errorf("delete document %s: %w", p, err)
	}
	l.logger.Info("document deleted", zap.String("path", p))
	return nil
}
