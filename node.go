package gametree

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"
)

// A Color is a side in the game.
type Color string

const (
	NoColor Color = ""
	White   Color = "white"
	Black   Color = "black"
)

// Other returns the opposite color.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

// A PieceType is a promotion target; NoPieceType for ordinary moves.
type PieceType string

const (
	NoPieceType PieceType = ""
	Queen       PieceType = "q"
	Rook        PieceType = "r"
	Bishop      PieceType = "b"
	Knight      PieceType = "n"
)

// A Move is a structured move in square names, e.g. {From: "e7", To: "e8", Promotion: Queen}.
type Move struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// UCI returns the move in UCI notation ("e2e4", "e7e8q").
func (m Move) UCI() string {
	return m.From + m.To + string(m.Promotion)
}

func (m Move) String() string {
	return m.UCI()
}

// A Shape is a user-drawn arrow (Orig != Dest) or square highlight (Dest empty).
type Shape struct {
	Orig  string `json:"orig"`
	Dest  string `json:"dest,omitempty"`
	Brush string `json:"brush,omitempty"`
}

// TreeNode is one ply of a game.
type TreeNode struct {
	FEN         string         `json:"fen"`
	Move        *Move          `json:"move"`
	SAN         string         `json:"san,omitempty"`
	HalfMoves   int            `json:"halfMoves"`
	Children    []*TreeNode    `json:"children"`
	Annotations []Annotation   `json:"annotations"`
	Comment     string         `json:"comment"`
	Shapes      []Shape        `json:"shapes"`
	Score       *Score         `json:"score,omitempty"`
	Clock       *time.Duration `json:"clock,omitempty"`
}

// newRoot returns a single-node tree at fen.
func newRoot(fen string) *TreeNode {
	return &TreeNode{FEN: fen}
}

// Turn returns the side to move in the node's position.
func (n *TreeNode) Turn() Color {
	fields := strings.Fields(n.FEN)
	if len(fields) > 1 && fields[1] == "b" {
		return Black
	}
	return White
}

// Mover returns the side whose move produced the node, NoColor for the root.
func (n *TreeNode) Mover() Color {
	if n.Move == nil {
		return NoColor
	}
	return n.Turn().Other()
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *TreeNode) Clone() *TreeNode {
	if n == nil {
		return nil
	}
	c := *n
	if n.Move != nil {
		m := *n.Move
		c.Move = &m
	}
	if n.Score != nil {
		s := *n.Score
		c.Score = &s
	}
	if n.Clock != nil {
		d := *n.Clock
		c.Clock = &d
	}
	c.Annotations = slices.Clone(n.Annotations)
	c.Shapes = slices.Clone(n.Shapes)
	if n.Children != nil {
		c.Children = make([]*TreeNode, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// childBySAN returns the index of the child played with san, or -1.
func (n *TreeNode) childBySAN(san string) int {
	for i, c := range n.Children {
		if c.SAN == san {
			return i
		}
	}
	return -1
}

// NodeAt returns the node reached by following pos from root.
func NodeAt(root *TreeNode, pos Position) (*TreeNode, error) {
	node := root
	for depth, i := range pos {
		if i < 0 || i >= len(node.Children) {
			return nil, fmt.Errorf("%w: index %d at depth %d (%d children)", ErrOutOfRange, i, depth+1, len(node.Children))
		}
		node = node.Children[i]
	}
	return node, nil
}

// nodesAlong returns root followed by every node on the way to pos.
func nodesAlong(root *TreeNode, pos Position) ([]*TreeNode, error) {
	nodes := make([]*TreeNode, 0, len(pos)+1)
	nodes = append(nodes, root)
	node := root
	for depth, i := range pos {
		if i < 0 || i >= len(node.Children) {
			return nil, fmt.Errorf("%w: index %d at depth %d", ErrOutOfRange, i, depth+1)
		}
		node = node.Children[i]
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Mainline yields every node on the index-0 path from root to the deepest
// mainline leaf, root included, paired with its address. Ranging over the
// sequence again restarts the walk.
func Mainline(root *TreeNode) iter.Seq2[Position, *TreeNode] {
	return func(yield func(Position, *TreeNode) bool) {
		pos := Position{}
		node := root
		for node != nil {
			if !yield(pos.Clone(), node) {
				return
			}
			if len(node.Children) == 0 {
				return
			}
			node = node.Children[0]
			pos = append(pos, 0)
		}
	}
}

// MainlinePosition returns the address of the mainline leaf.
func MainlinePosition(root *TreeNode) Position {
	pos := Position{}
	for node := root; len(node.Children) > 0; node = node.Children[0] {
		pos = append(pos, 0)
	}
	return pos
}

// TreeStats summarizes the shape of a tree.
type TreeStats struct {
	Leaves   int
	MaxDepth int
	Nodes    int
}

// Stats walks the whole tree.
func Stats(root *TreeNode) TreeStats {
	var st TreeStats
	type frame struct {
		node  *TreeNode
		depth int
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		st.Nodes++
		st.MaxDepth = max(st.MaxDepth, f.depth)
		if len(f.node.Children) == 0 {
			st.Leaves++
		}
		for _, c := range f.node.Children {
			stack = append(stack, frame{c, f.depth + 1})
		}
	}
	return st
}
