package tree

// Collapse merges chains of folders that hold exactly one sub-folder and
// nothing else into a single node named "outer/inner". The merged node keeps
// the outer folder's Path so it still navigates to the right directory.
// Collapse returns new nodes and never modifies its input.
func Collapse(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, collapseNode(node))
	}
	return out
}

func collapseNode(node *Node) *Node {
	if !node.IsDir() {
		cp := *node
		return &cp
	}

	children := Collapse(node.Children)
	if len(children) == 1 && children[0].IsDir() {
		inner := children[0]
		return &Node{
			Name:     node.Name + "/" + inner.Name,
			Path:     node.Path,
			Kind:     KindFolder,
			Children: inner.Children,
		}
	}

	return &Node{
		Name:     node.Name,
		Path:     node.Path,
		Kind:     KindFolder,
		Children: children,
	}
}

// BuildCollapsed runs Build and then Collapse.
func BuildCollapsed(documents []Document, root string) ([]*Node, error) {
	nodes, err := Build(documents, root)
	return Collapse(nodes), err
}
