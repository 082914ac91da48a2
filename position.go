package gametree

import (
	"encoding/json"
	"slices"
)

// A Position addresses a node in the tree as the child indices followed from
// the root. The empty Position is the root. Position[i] selects a child at
// depth i+1.
//
// A Position is a plain value: it stays meaningful only while every prefix
// resolves, so the mutation engine re-validates the cursor after each
// structural change.
type Position []int

// Clone returns an independent copy of p. The root is returned as an empty,
// non-nil Position.
func (p Position) Clone() Position {
	out := make(Position, len(p))
	copy(out, p)
	return out
}

// Child returns the address of the i-th child of p.
func (p Position) Child(i int) Position {
	out := make(Position, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

// Parent returns the address of p's parent. The parent of the root is the root.
func (p Position) Parent() Position {
	if len(p) == 0 {
		return Position{}
	}
	return p[:len(p)-1].Clone()
}

// Last returns the final index of p and false for the root.
func (p Position) Last() (int, bool) {
	if len(p) == 0 {
		return 0, false
	}
	return p[len(p)-1], true
}

// IsRoot reports whether p addresses the root.
func (p Position) IsRoot() bool {
	return len(p) == 0
}

// IsMainline reports whether every index of p is 0.
func (p Position) IsMainline() bool {
	for _, i := range p {
		if i != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether p and other address the same node.
func (p Position) Equal(other Position) bool {
	return slices.Equal(p, other)
}

// MarshalJSON encodes the root as [] instead of null.
func (p Position) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(p))
}

// IsPrefix reports whether a is an ancestor-or-equal address of b.
func IsPrefix(a, b Position) bool {
	if len(a) > len(b) {
		return false
	}
	return slices.Equal(a, b[:len(a)])
}
