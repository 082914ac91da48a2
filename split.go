package gametree

// Split returns one state per line of the tree, each holding a single line
// from the root to a leaf with no variations. Headers are copied and the
// cursor of each line is at its leaf. A tree with no moves yields nothing.
func (s *TreeState) Split() []*TreeState {
	var paths []Position
	for i := range s.Root.Children {
		paths = append(paths, collectPaths(s.Root.Children[i], Position{i})...)
	}

	lines := make([]*TreeState, 0, len(paths))
	for _, path := range paths {
		lines = append(lines, s.buildLine(path))
	}
	return lines
}

// collectPaths returns the address of every leaf below node, which is at pos.
func collectPaths(node *TreeNode, pos Position) []Position {
	if len(node.Children) == 0 {
		return []Position{pos}
	}
	var paths []Position
	for i, c := range node.Children {
		paths = append(paths, collectPaths(c, pos.Child(i))...)
	}
	return paths
}

func (s *TreeState) buildLine(path Position) *TreeState {
	nodes, _ := nodesAlong(s.Root, path)
	root := shallowNode(nodes[0])
	cur := root
	for _, n := range nodes[1:] {
		child := shallowNode(n)
		cur.Children = []*TreeNode{child}
		cur = child
	}
	headers := s.Headers.Clone()
	headers.Start = nil
	return &TreeState{
		Root:     root,
		Headers:  headers,
		Position: make(Position, len(path)),
	}
}

// shallowNode copies n without its children.
func shallowNode(n *TreeNode) *TreeNode {
	c := *n
	c.Children = nil
	return c.Clone()
}
