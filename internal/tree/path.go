package tree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPath is returned for empty document paths and for paths that
	// do not sit under the declared root.
	ErrInvalidPath = errors.New("invalid document path")
	// ErrInvalidTree is returned when a document clashes with an existing
	// node at the same level.
	ErrInvalidTree = errors.New("invalid tree")
	// ErrUnknownFolder is returned when toggling a path that is not a folder
	// of the current tree.
	ErrUnknownFolder = errors.New("unknown folder")
)

// Normalize converts path into segments relative to root. A nil result with
// a nil error means the path is the root itself.
func Normalize(path, root string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	rel := path
	if root != "" {
		base := trimRoot(root)
		switch {
		case path == root || path == base:
			return nil, nil
		case strings.HasPrefix(path, base+"/"):
			rel = path[len(base):]
		default:
			return nil, fmt.Errorf("%w: %q is outside %q", ErrInvalidPath, path, root)
		}
	}
	rel = strings.TrimPrefix(rel, "/")

	var segments []string
	for _, part := range strings.Split(rel, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments, nil
}

// trimRoot drops a trailing slash so that "/docs/" and "/docs" behave the
// same. The filesystem root "/" becomes "".
func trimRoot(root string) string {
	return strings.TrimSuffix(root, "/")
}
