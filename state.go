package gametree

import (
	"encoding/json"
	"fmt"
)

// TreeState is the unit of persistence and of undo/redo: the tree, its
// headers, the cursor and whether there are unsaved changes.
type TreeState struct {
	Root     *TreeNode   `json:"root"`
	Headers  GameHeaders `json:"headers"`
	Position Position    `json:"position"`
	Dirty    bool        `json:"dirty"`
}

// NewTreeState returns a single-node tree at fen. An empty fen means the
// standard starting position.
func NewTreeState(fen string) *TreeState {
	h := DefaultHeaders()
	if fen == "" {
		fen = StartFEN
	} else if fen != StartFEN {
		h.FEN = fen
	}
	return &TreeState{
		Root:     newRoot(fen),
		Headers:  h,
		Position: Position{},
	}
}

// Clone returns a deep copy of s.
func (s *TreeState) Clone() *TreeState {
	return &TreeState{
		Root:     s.Root.Clone(),
		Headers:  s.Headers.Clone(),
		Position: s.Position.Clone(),
		Dirty:    s.Dirty,
	}
}

// Current returns the node at the cursor, or nil when Position does not
// resolve.
func (s *TreeState) Current() *TreeNode {
	node, err := NodeAt(s.Root, s.Position)
	if err != nil {
		return nil
	}
	return node
}

// current is Current for the mutation engine, which only runs on validated
// states and keeps the cursor valid.
func (s *TreeState) current() *TreeNode {
	node, err := NodeAt(s.Root, s.Position)
	if err != nil {
		panic(fmt.Sprintf("gametree: dangling cursor %v: %v", s.Position, err))
	}
	return node
}

// MarshalState encodes s as JSON.
func MarshalState(s *TreeState) ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalState decodes a snapshot written by MarshalState and checks the
// invariants that do not need the rules library.
func UnmarshalState(data []byte) (*TreeState, error) {
	var s TreeState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if s.Position == nil {
		s.Position = Position{}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// validate checks structure: a root, a resolvable cursor and start marker,
// consistent half-move counts and unique SANs among siblings.
func (s *TreeState) validate() error {
	if s.Root == nil {
		return fmt.Errorf("%w: missing root", ErrInvalidState)
	}
	if s.Root.Move != nil {
		return fmt.Errorf("%w: root has a move", ErrInvalidState)
	}
	if _, err := NodeAt(s.Root, s.Position); err != nil {
		return fmt.Errorf("%w: cursor: %v", ErrInvalidState, err)
	}
	if s.Headers.Start != nil {
		if _, err := NodeAt(s.Root, s.Headers.Start); err != nil {
			return fmt.Errorf("%w: start: %v", ErrInvalidState, err)
		}
	}
	stack := []*TreeNode{s.Root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen := make(map[string]bool, len(n.Children))
		for _, c := range n.Children {
			if c == nil || c.Move == nil {
				return fmt.Errorf("%w: child of %q has no move", ErrInvalidState, n.FEN)
			}
			if c.HalfMoves != n.HalfMoves+1 {
				return fmt.Errorf("%w: %s has halfMoves %d, parent %d", ErrInvalidState, c.SAN, c.HalfMoves, n.HalfMoves)
			}
			if seen[c.SAN] {
				return fmt.Errorf("%w: duplicate sibling %s", ErrInvalidState, c.SAN)
			}
			seen[c.SAN] = true
			stack = append(stack, c)
		}
	}
	return nil
}
