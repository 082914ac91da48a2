package gametree

import (
	"fmt"
	"slices"
)

// Navigation moves the cursor only; the tree is never touched. Every method
// returns whether the cursor moved. Boundaries are no-ops, and so are steps
// relative to a cursor that does not resolve; Start, End and GoTo recover it.

// Next enters the mainline continuation of the current node.
func (s *TreeState) Next() bool {
	node := s.Current()
	if node == nil || len(node.Children) == 0 {
		return false
	}
	s.Position = s.Position.Child(0)
	return true
}

// Previous goes back to the parent.
func (s *TreeState) Previous() bool {
	if s.Position.IsRoot() || s.Current() == nil {
		return false
	}
	s.Position = s.Position.Parent()
	return true
}

// Start jumps to the training entry point if one is set, else to the root.
func (s *TreeState) Start() bool {
	target := Position{}
	if s.Headers.Start != nil {
		if _, err := NodeAt(s.Root, s.Headers.Start); err == nil {
			target = s.Headers.Start.Clone()
		}
	}
	return s.setCursor(target)
}

// End jumps to the last move of the mainline.
func (s *TreeState) End() bool {
	return s.setCursor(MainlinePosition(s.Root))
}

// BranchStart moves to the start of the current variation, or to the branch
// point above it when already there.
func (s *TreeState) BranchStart() bool {
	if s.Current() == nil {
		return false
	}
	pos := s.Position.Clone()
	if last, ok := pos.Last(); ok && last != 0 {
		pos = pos[:len(pos)-1]
	}
	for len(pos) > 0 && pos[len(pos)-1] == 0 {
		pos = pos[:len(pos)-1]
	}
	return s.setCursor(pos)
}

// BranchEnd follows the first child from the cursor down to a leaf.
func (s *TreeState) BranchEnd() bool {
	node := s.Current()
	if node == nil {
		return false
	}
	pos := s.Position.Clone()
	for ; len(node.Children) > 0; node = node.Children[0] {
		pos = append(pos, 0)
	}
	return s.setCursor(pos)
}

// NextBranch switches to the next sibling variation, wrapping around.
func (s *TreeState) NextBranch() bool {
	return s.cycleBranch(1)
}

// PreviousBranch switches to the previous sibling variation, wrapping around.
func (s *TreeState) PreviousBranch() bool {
	return s.cycleBranch(-1)
}

// cycleBranch rotates the last index among the parent's children. Standing
// just before a branch point (the cursor has alternatives but no siblings of
// its own) it first steps into the branch, so alternating between variations
// compares nodes at the same depth.
func (s *TreeState) cycleBranch(step int) bool {
	node := s.Current()
	if node == nil {
		return false
	}
	siblings := 0
	if !s.Position.IsRoot() {
		parent, _ := NodeAt(s.Root, s.Position.Parent())
		siblings = len(parent.Children)
	}
	pos := s.Position.Clone()
	if len(node.Children) >= 2 && siblings <= 1 {
		pos = append(pos, 0)
		siblings = len(node.Children)
	}
	if len(pos) == 0 || siblings <= 1 {
		return false
	}
	last := pos[len(pos)-1]
	pos[len(pos)-1] = ((last+step)%siblings + siblings) % siblings
	return s.setCursor(pos)
}

// NextBranching descends past single-child nodes to the next node with no
// continuation or with alternatives.
func (s *TreeState) NextBranching() bool {
	node := s.Current()
	if node == nil || len(node.Children) == 0 {
		return false
	}
	pos := s.Position.Child(0)
	node = node.Children[0]
	for len(node.Children) == 1 {
		pos = append(pos, 0)
		node = node.Children[0]
	}
	return s.setCursor(pos)
}

// PreviousBranching ascends past single-child nodes to the previous branch
// point, or to the root.
func (s *TreeState) PreviousBranching() bool {
	if s.Position.IsRoot() {
		return false
	}
	nodes, err := nodesAlong(s.Root, s.Position)
	if err != nil {
		return false
	}
	depth := len(s.Position) - 1
	for depth > 0 && len(nodes[depth].Children) == 1 {
		depth--
	}
	return s.setCursor(s.Position[:depth].Clone())
}

// GoToAnnotation scans forward from the cursor along first children, wrapping
// to the root at the end of a line, for the next move by color carrying a.
// The scan visits at most one node more than the tree holds; when nothing
// matches, the cursor stays put and ErrAnnotationNotFound is returned.
func (s *TreeState) GoToAnnotation(a Annotation, color Color) error {
	node, err := NodeAt(s.Root, s.Position)
	if err != nil {
		return err
	}
	limit := Stats(s.Root).Nodes + 1
	pos := s.Position.Clone()
	for range limit {
		if len(node.Children) == 0 {
			pos = Position{}
			node = s.Root
		} else {
			pos = append(pos, 0)
			node = node.Children[0]
		}
		if node.Mover() == color && slices.Contains(node.Annotations, a) {
			s.Position = pos
			return nil
		}
	}
	return fmt.Errorf("%w: %s by %s", ErrAnnotationNotFound, a, color)
}

// GoTo moves the cursor to pos.
func (s *TreeState) GoTo(pos Position) error {
	if _, err := NodeAt(s.Root, pos); err != nil {
		return err
	}
	s.Position = pos.Clone()
	return nil
}

func (s *TreeState) setCursor(pos Position) bool {
	if s.Position.Equal(pos) {
		return false
	}
	s.Position = pos
	return true
}
