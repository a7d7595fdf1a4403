package tree

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Build constructs a tree that mirrors the provided documents. Paths are taken
// relative to root when it is set. Documents that cannot be placed are skipped;
// the returned tree is still usable and the error lists every skipped entry.
func Build(documents []Document, root string) ([]*Node, error) {
	top := &Node{Kind: KindFolder}
	var errs error

	for _, doc := range documents {
		if err := insert(top, doc, root); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return top.Children, errs
}

func insert(top *Node, doc Document, root string) error {
	segments, err := Normalize(doc.Path, root)
	if err != nil {
		return err
	}

	if len(segments) == 0 {
		if doc.Name == "" {
			return fmt.Errorf("%w: %q has no name", ErrInvalidPath, doc.Path)
		}
		return addFile(top, doc.Name, doc.Path)
	}

	current := top
	parentPath := trimRoot(root)
	absolute := root != "" || strings.HasPrefix(doc.Path, "/")

	for _, segment := range segments[:len(segments)-1] {
		if current.ChildByName(segment, KindFile) != nil {
			return fmt.Errorf("%w: folder %q of %q clashes with a file", ErrInvalidTree, segment, doc.Path)
		}
		parentPath = childPath(parentPath, segment, absolute)
		child := current.ChildByName(segment, KindFolder)
		if child == nil {
			child = &Node{
				Name:     segment,
				Path:     parentPath,
				Kind:     KindFolder,
				Children: []*Node{},
			}
			current.Children = append(current.Children, child)
		}
		current = child
	}

	return addFile(current, segments[len(segments)-1], doc.Path)
}

func addFile(parent *Node, name, path string) error {
	if parent.ChildByName(name, KindFolder) != nil {
		return fmt.Errorf("%w: file %q clashes with a folder", ErrInvalidTree, path)
	}
	if existing := parent.ChildByName(name, KindFile); existing != nil {
		return fmt.Errorf("%w: %q duplicates %q", ErrInvalidTree, path, existing.Path)
	}
	parent.Children = append(parent.Children, &Node{
		Name: name,
		Path: path,
		Kind: KindFile,
	})
	return nil
}

func childPath(parent, segment string, absolute bool) string {
	if parent == "" && !absolute {
		return segment
	}
	return parent + "/" + segment
}
