package gametree

import (
	"fmt"
	"slices"
	"time"
)

// A MoveSpec is a move to play: either structured, or SAN/UCI text resolved
// against the target position.
type MoveSpec struct {
	text string
	move *Move
}

// MoveSAN returns a spec for a move in SAN ("Nf3", "exd5", "O-O").
func MoveSAN(san string) MoveSpec { return MoveSpec{text: san} }

// MoveUCI returns a spec for a move in UCI notation ("g1f3").
func MoveUCI(uci string) MoveSpec { return MoveSpec{text: uci} }

// MoveOf returns a spec for a structured move.
func MoveOf(m Move) MoveSpec { return MoveSpec{move: &m} }

func (ms MoveSpec) String() string {
	if ms.move != nil {
		return ms.move.UCI()
	}
	return ms.text
}

func (ms MoveSpec) resolve(r Rules, fen string) (Move, error) {
	if ms.move != nil {
		return *ms.move, nil
	}
	return r.Resolve(fen, ms.text)
}

// MoveOptions tune MakeMove.
type MoveOptions struct {
	// Mainline inserts a new move as the first child instead of the last.
	Mainline bool
	// Last plays from the end of the mainline instead of from the cursor.
	Last bool
	// KeepPosition leaves the cursor where it is.
	KeepPosition bool
	// KeepHeaders leaves Headers.Result alone when the move ends the game.
	KeepHeaders bool
	// Clock is the remaining time recorded with a new move.
	Clock *time.Duration
}

// makeMove plays spec from the cursor, or from the mainline leaf with
// opts.Last, and returns the address of the resulting node.
func (s *TreeState) makeMove(r Rules, spec MoveSpec, opts MoveOptions) (Position, error) {
	target := s.Position
	if opts.Last {
		target = MainlinePosition(s.Root)
	}
	return s.makeMoveAt(r, target, spec, opts)
}

// makeMoves folds makeMove over specs, each move played from the node the
// previous one produced. On error s is left partially updated; callers run
// it on a copy.
func (s *TreeState) makeMoves(r Rules, specs []MoveSpec, opts MoveOptions) error {
	target := s.Position
	if opts.Last {
		target = MainlinePosition(s.Root)
	}
	for i, spec := range specs {
		child, err := s.makeMoveAt(r, target, spec, opts)
		if err != nil {
			return fmt.Errorf("move %d (%s): %w", i+1, spec, err)
		}
		target = child
	}
	return nil
}

func (s *TreeState) makeMoveAt(r Rules, target Position, spec MoveSpec, opts MoveOptions) (Position, error) {
	node, err := NodeAt(s.Root, target)
	if err != nil {
		return nil, err
	}
	move, err := spec.resolve(r, node.FEN)
	if err != nil {
		return nil, err
	}
	res, err := r.Play(node.FEN, move)
	if err != nil {
		return nil, err
	}
	if res.SAN == nullMoveSAN {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, spec)
	}

	if !opts.KeepHeaders {
		result := s.Headers.Result
		switch {
		case res.Status.Checkmate:
			result = winner(node.Turn())
		case res.Status.Stalemate, res.Status.InsufficientMaterial:
			result = Draw
		}
		if !res.Status.Checkmate &&
			(IsThreefoldRepetition(s.Root, target, res.FEN) || IsFiftyMoveRule(s.Root, target, res.SAN)) {
			result = Draw
		}
		if result != s.Headers.Result {
			s.Headers.Result = result
			s.Dirty = true
		}
	}

	if i := node.childBySAN(res.SAN); i >= 0 {
		child := target.Child(i)
		if !opts.KeepPosition {
			s.Position = child
		}
		return child, nil
	}

	played := res.Move
	newNode := &TreeNode{
		FEN:       res.FEN,
		Move:      &played,
		SAN:       res.SAN,
		HalfMoves: node.HalfMoves + 1,
	}
	if opts.Clock != nil {
		clock := *opts.Clock
		newNode.Clock = &clock
	}
	index := s.addNewMove(target, node, newNode, opts.Mainline)
	s.Dirty = true

	child := target.Child(index)
	if !opts.KeepPosition {
		s.Position = child
	}
	return child, nil
}

// addNewMove inserts child under parent (at target) and returns its index.
// A front insert shifts the existing siblings, so addresses through them are
// moved along.
func (s *TreeState) addNewMove(target Position, parent, child *TreeNode, mainline bool) int {
	if !mainline {
		parent.Children = append(parent.Children, child)
		return len(parent.Children) - 1
	}
	parent.Children = append([]*TreeNode{child}, parent.Children...)
	shift := func(p Position) Position {
		d := len(target)
		if len(p) > d && IsPrefix(target, p) {
			p = p.Clone()
			p[d]++
		}
		return p
	}
	s.remap(shift)
	return 0
}

// deleteMove removes the subtree at path. A cursor inside it moves to the
// parent; a cursor in a later sibling keeps pointing at the same node.
func (s *TreeState) deleteMove(path Position) error {
	if path.IsRoot() {
		return fmt.Errorf("%w: the root cannot be deleted", ErrOutOfRange)
	}
	if _, err := NodeAt(s.Root, path); err != nil {
		return err
	}
	parentPath := path.Parent()
	parent, _ := NodeAt(s.Root, parentPath)
	index, _ := path.Last()
	parent.Children = slices.Delete(parent.Children, index, index+1)

	d := len(parentPath)
	s.remap(func(p Position) Position {
		switch {
		case IsPrefix(path, p):
			return parentPath.Clone()
		case len(p) > d && IsPrefix(parentPath, p) && p[d] > index:
			p = p.Clone()
			p[d]--
		}
		return p
	})
	s.Dirty = true
	return nil
}

// promoteVariation moves the deepest variation on path to the front of its
// siblings and returns the new address of the node at path.
func (s *TreeState) promoteVariation(path Position) (Position, error) {
	if _, err := NodeAt(s.Root, path); err != nil {
		return nil, err
	}
	d := len(path) - 1
	for d >= 0 && path[d] == 0 {
		d--
	}
	if d < 0 {
		return path.Clone(), nil
	}
	parentPath := path[:d].Clone()
	parent, _ := NodeAt(s.Root, parentPath)
	v := path[d]
	s.reorderMoveToFront(parent, v)

	track := func(p Position) Position {
		if len(p) <= d || !IsPrefix(parentPath, p) {
			return p
		}
		p = p.Clone()
		switch {
		case p[d] == v:
			p[d] = 0
		case p[d] < v:
			p[d]++
		}
		return p
	}
	s.remap(track)
	s.Dirty = true
	return track(path), nil
}

// promoteToMainline promotes along path until the node at path is on the
// mainline, and returns its new address.
func (s *TreeState) promoteToMainline(path Position) (Position, error) {
	if _, err := NodeAt(s.Root, path); err != nil {
		return nil, err
	}
	for !path.IsMainline() {
		next, err := s.promoteVariation(path)
		if err != nil {
			return nil, err
		}
		path = next
	}
	return path.Clone(), nil
}

func (s *TreeState) reorderMoveToFront(parent *TreeNode, index int) {
	children := parent.Children
	move := children[index]
	copy(children[1:index+1], children[:index])
	children[0] = move
}

// remap rewrites the cursor and the training start after a structural change.
func (s *TreeState) remap(fn func(Position) Position) {
	s.Position = fn(s.Position)
	if s.Headers.Start != nil {
		s.Headers.Start = fn(s.Headers.Start)
	}
}

func (s *TreeState) setAnnotation(a Annotation) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAnnotation, a)
	}
	node := s.current()
	node.Annotations = toggleAnnotation(node.Annotations, a)
	s.Dirty = true
	return nil
}

func (s *TreeState) clearAnnotations() {
	node := s.current()
	if len(node.Annotations) > 0 {
		node.Annotations = nil
		s.Dirty = true
	}
}

// setHeaders replaces the headers. A different starting FEN replaces the
// whole tree with a fresh root at that position; an empty FEN is the
// standard start.
func (s *TreeState) setHeaders(r Rules, h GameHeaders) error {
	h = h.Clone()
	fen := h.FEN
	if fen == "" {
		fen = StartFEN
	}
	if fen != s.Root.FEN {
		if err := r.Validate(fen); err != nil {
			return err
		}
		s.Root = newRoot(fen)
		s.Position = Position{}
		h.Start = nil
	}
	if fen == StartFEN {
		h.FEN = ""
	}
	if h.Start != nil {
		if _, err := NodeAt(s.Root, h.Start); err != nil {
			return fmt.Errorf("start: %w", err)
		}
	}
	if h.Result == "" {
		h.Result = NoResult
	}
	s.Headers = h
	s.Dirty = true
	return nil
}

// setFen edits the starting position. Only the root can be edited: every
// other FEN is fixed by the move that produced it.
func (s *TreeState) setFen(r Rules, fen string) error {
	if !s.Position.IsRoot() {
		return ErrNotAtRoot
	}
	if err := r.Validate(fen); err != nil {
		return err
	}
	s.Root = newRoot(fen)
	s.Headers.FEN = fen
	if fen == StartFEN {
		s.Headers.FEN = ""
	}
	s.Headers.Start = nil
	s.Position = Position{}
	s.Dirty = true
	return nil
}

func (s *TreeState) setComment(text string) {
	s.current().Comment = text
	s.Dirty = true
}

// setShapes toggles each shape by origin and destination; no shapes clears
// the node's markup.
func (s *TreeState) setShapes(shapes []Shape) {
	node := s.current()
	if len(shapes) == 0 {
		node.Shapes = nil
		s.Dirty = true
		return
	}
	for _, sh := range shapes {
		i := slices.IndexFunc(node.Shapes, func(e Shape) bool {
			return e.Orig == sh.Orig && e.Dest == sh.Dest
		})
		if i >= 0 {
			node.Shapes = slices.Delete(node.Shapes, i, i+1)
		} else {
			node.Shapes = append(node.Shapes, sh)
		}
	}
	s.Dirty = true
}

func (s *TreeState) setScore(score *Score) {
	node := s.current()
	if score == nil {
		node.Score = nil
	} else {
		v := *score
		node.Score = &v
	}
	s.Dirty = true
}

func (s *TreeState) setClock(clock *time.Duration) {
	node := s.current()
	if clock == nil {
		node.Clock = nil
	} else {
		v := *clock
		node.Clock = &v
	}
	s.Dirty = true
}
