package gametree

import (
	"errors"
	"testing"
)

// navTree is 1.e4 e5 2.Nf3 (2.Nc3) (1...c5) (1.d4 d5 2.c4), cursor at root.
func navTree(t *testing.T) *TreeState {
	t.Helper()
	st := NewTreeState("")
	play(t, st, "e4", "e5", "Nf3")
	st.Previous()
	play(t, st, "Nc3")
	if err := st.GoTo(Position{0}); err != nil {
		t.Fatal(err)
	}
	play(t, st, "c5")
	st.Start()
	play(t, st, "d4", "d5", "c4")
	st.Start()
	return st
}

func TestNavigationSteps(t *testing.T) {
	st := navTree(t)
	steps := []struct {
		name  string
		step  func() bool
		moved bool
		want  Position
	}{
		{"previous at root", st.Previous, false, Position{}},
		{"next", st.Next, true, Position{0}},
		{"next", st.Next, true, Position{0, 0}},
		{"end", st.End, true, Position{0, 0, 0}},
		{"next at leaf", st.Next, false, Position{0, 0, 0}},
		{"end at end", st.End, false, Position{0, 0, 0}},
		{"previous", st.Previous, true, Position{0, 0}},
		{"start", st.Start, true, Position{}},
		{"start at root", st.Start, false, Position{}},
		{"branch end", st.BranchEnd, true, Position{0, 0, 0}},
	}
	for _, s := range steps {
		moved := s.step()
		if moved != s.moved || !st.Position.Equal(s.want) {
			t.Fatalf("%s: moved=%v position=%v, want moved=%v position=%v", s.name, moved, st.Position, s.moved, s.want)
		}
	}
}

func TestStartUsesTrainingStart(t *testing.T) {
	st := navTree(t)
	st.Headers.Start = Position{1, 0}
	st.End()
	if !st.Start() || !st.Position.Equal(Position{1, 0}) {
		t.Fatalf("expected the training start but got %v", st.Position)
	}
	st.Headers.Start = Position{7}
	if !st.Start() || !st.Position.IsRoot() {
		t.Fatalf("a dangling start should fall back to the root, got %v", st.Position)
	}
}

func TestBranchStart(t *testing.T) {
	st := navTree(t)
	tests := []struct {
		from, want Position
	}{
		{Position{1, 0, 0}, Position{1}},
		{Position{1}, Position{}},
		{Position{0, 0, 1}, Position{}},
		{Position{0, 0, 0}, Position{}},
	}
	for _, tt := range tests {
		if err := st.GoTo(tt.from); err != nil {
			t.Fatal(err)
		}
		st.BranchStart()
		if !st.Position.Equal(tt.want) {
			t.Fatalf("BranchStart from %v = %v, want %v", tt.from, st.Position, tt.want)
		}
	}
}

func TestCycleBranch(t *testing.T) {
	st := navTree(t)

	if err := st.GoTo(Position{0, 0}); err != nil {
		t.Fatal(err)
	}
	// e5 has a sibling (c5), so cycling switches to it and back.
	if !st.NextBranch() || !st.Position.Equal(Position{0, 1}) {
		t.Fatalf("NextBranch = %v, want [0 1]", st.Position)
	}
	if !st.NextBranch() || !st.Position.Equal(Position{0, 0}) {
		t.Fatalf("NextBranch should wrap, got %v", st.Position)
	}
	if !st.PreviousBranch() || !st.Position.Equal(Position{0, 1}) {
		t.Fatalf("PreviousBranch should wrap, got %v", st.Position)
	}

	// At the root the branch point is entered first.
	st.Start()
	if !st.NextBranch() || !st.Position.Equal(Position{1}) {
		t.Fatalf("NextBranch from the root = %v, want [1]", st.Position)
	}

	// d5 is an only child with an only child: nothing to cycle.
	if err := st.GoTo(Position{1, 0}); err != nil {
		t.Fatal(err)
	}
	if st.NextBranch() {
		t.Fatalf("NextBranch on an only child moved to %v", st.Position)
	}
}

func TestBranching(t *testing.T) {
	st := navTree(t)
	if err := st.GoTo(Position{1}); err != nil {
		t.Fatal(err)
	}
	if !st.NextBranching() || !st.Position.Equal(Position{1, 0, 0}) {
		t.Fatalf("NextBranching = %v, want the leaf [1 0 0]", st.Position)
	}
	if !st.PreviousBranching() || !st.Position.Equal(Position{}) {
		t.Fatalf("PreviousBranching = %v, want the root", st.Position)
	}

	st.Start()
	if !st.NextBranching() || !st.Position.Equal(Position{0}) {
		t.Fatalf("NextBranching from the root = %v, want [0] (two replies)", st.Position)
	}
	if !st.NextBranching() || !st.Position.Equal(Position{0, 0}) {
		t.Fatalf("NextBranching = %v, want [0 0] (two replies)", st.Position)
	}
	if err := st.GoTo(Position{0, 0, 1}); err != nil {
		t.Fatal(err)
	}
	if !st.PreviousBranching() || !st.Position.Equal(Position{0, 0}) {
		t.Fatalf("PreviousBranching = %v, want [0 0]", st.Position)
	}
}

func TestGoToAnnotation(t *testing.T) {
	st := navTree(t)
	for pos, a := range map[string]struct {
		at Position
		a  Annotation
	}{
		"e5":  {Position{0, 0}, Mistake},
		"Nf3": {Position{0, 0, 0}, Good},
		"d4":  {Position{1}, Good},
	} {
		if err := st.GoTo(a.at); err != nil {
			t.Fatal(pos, err)
		}
		if err := st.setAnnotation(a.a); err != nil {
			t.Fatal(err)
		}
	}

	st.Start()
	if err := st.GoToAnnotation(Mistake, Black); err != nil {
		t.Fatal(err)
	}
	if !st.Position.Equal(Position{0, 0}) {
		t.Fatalf("expected e5 but got %v", st.Position)
	}
	if err := st.GoToAnnotation(Good, White); err != nil {
		t.Fatal(err)
	}
	if !st.Position.Equal(Position{0, 0, 0}) {
		t.Fatalf("expected Nf3 but got %v", st.Position)
	}
	// Past the end of the mainline the search wraps to the root and finds
	// Nf3 again, since only first children are followed.
	if err := st.GoToAnnotation(Good, White); err != nil {
		t.Fatal(err)
	}
	if !st.Position.Equal(Position{0, 0, 0}) {
		t.Fatalf("expected Nf3 again but got %v", st.Position)
	}

	err := st.GoToAnnotation(Mistake, White)
	if !errors.Is(err, ErrAnnotationNotFound) {
		t.Fatalf("expected ErrAnnotationNotFound but got %v", err)
	}
	if !st.Position.Equal(Position{0, 0, 0}) {
		t.Fatalf("a failed search moved the cursor to %v", st.Position)
	}
}

func TestGoTo(t *testing.T) {
	st := navTree(t)
	if err := st.GoTo(Position{0, 3}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange but got %v", err)
	}
	if !st.Position.IsRoot() {
		t.Fatalf("a failed GoTo moved the cursor to %v", st.Position)
	}
}

func TestNavigationWithDanglingCursor(t *testing.T) {
	st := navTree(t)
	dangling := Position{0, 7, 0}
	steps := map[string]func() bool{
		"next":               st.Next,
		"previous":           st.Previous,
		"branch start":       st.BranchStart,
		"branch end":         st.BranchEnd,
		"next branch":        st.NextBranch,
		"previous branch":    st.PreviousBranch,
		"next branching":     st.NextBranching,
		"previous branching": st.PreviousBranching,
	}
	for name, step := range steps {
		st.Position = dangling
		if step() || !st.Position.Equal(dangling) {
			t.Fatalf("%s moved a dangling cursor to %v", name, st.Position)
		}
	}
	if st.Current() != nil {
		t.Fatal("expected no current node for a dangling cursor")
	}
	if err := st.GoToAnnotation(Good, White); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange but got %v", err)
	}

	if !st.End() || !st.Position.Equal(Position{0, 0, 0}) {
		t.Fatalf("End should recover the cursor, got %v", st.Position)
	}
	st.Position = Position{5}
	if !st.Start() || !st.Position.IsRoot() {
		t.Fatalf("Start should recover the cursor, got %v", st.Position)
	}
}
