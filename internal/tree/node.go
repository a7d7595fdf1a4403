package tree

import (
	"sort"
	"strings"
)

// Kind distinguishes files from folders.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Document is a single entry returned by a document listing.
type Document struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// Node represents a single entry in the file tree.
type Node struct {
	Name     string
	Path     string
	Kind     Kind
	Children []*Node
}

// IsDir reports whether the node is a folder.
func (n *Node) IsDir() bool {
	return n.Kind == KindFolder
}

// ChildByName returns the child with the given name and kind if it exists.
func (n *Node) ChildByName(name string, kind Kind) *Node {
	return findByName(n.Children, name, kind)
}

func findByName(nodes []*Node, name string, kind Kind) *Node {
	for _, child := range nodes {
		if child.Name == name && child.Kind == kind {
			return child
		}
	}
	return nil
}

// FolderPaths lists the path of every folder in nodes, in pre-order.
func FolderPaths(nodes []*Node) []string {
	var paths []string
	var walk func([]*Node)
	walk = func(level []*Node) {
		for _, node := range level {
			if !node.IsDir() {
				continue
			}
			paths = append(paths, node.Path)
			walk(node.Children)
		}
	}
	walk(nodes)
	return paths
}

// Find returns the first node whose path matches.
func Find(nodes []*Node, path string) *Node {
	for _, node := range nodes {
		if node.Path == path {
			return node
		}
		if found := Find(node.Children, path); found != nil {
			return found
		}
	}
	return nil
}

// Sorted returns a copy of nodes ordered for display: folders first, then
// case-insensitive by name. The input is left untouched.
func Sorted(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, node := range nodes {
		cp := *node
		if node.IsDir() {
			cp.Children = Sorted(node.Children)
		}
		out[i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i], out[j]
		switch {
		case ci.IsDir() == cj.IsDir():
			return strings.ToLower(ci.Name) < strings.ToLower(cj.Name)
		case ci.IsDir():
			return true
		default:
			return false
		}
	})
	return out
}
