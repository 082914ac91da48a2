package gametree

import (
	"strings"
	"testing"
)

// chain builds a single line of nodes with the given SANs under a root at fen.
// FENs are placeholders: only the SANs are read.
func chain(fen string, sans ...string) (*TreeNode, Position) {
	root := newRoot(fen)
	node := root
	pos := Position{}
	for i, san := range sans {
		child := &TreeNode{FEN: san, Move: &Move{}, SAN: san, HalfMoves: i + 1}
		node.Children = []*TreeNode{child}
		node = child
		pos = append(pos, 0)
	}
	return root, pos
}

func knightShuffle(n int) []string {
	sans := make([]string, n)
	for i := range sans {
		sans[i] = []string{"Nf3", "Nf6", "Ng1", "Ng8"}[i%4]
	}
	return sans
}

func TestFiftyMoveRule(t *testing.T) {
	quiet := "4k3/8/8/8/8/8/8/4K1N1 w - - 0 1"

	root, path := chain(quiet, knightShuffle(99)...)
	if !IsFiftyMoveRule(root, path, "Nf3") {
		t.Fatal("expected the hundredth quiet half-move to trigger the rule")
	}
	root, path = chain(quiet, knightShuffle(98)...)
	if IsFiftyMoveRule(root, path, "Nf3") {
		t.Fatal("99 quiet half-moves should not trigger the rule")
	}

	sans := knightShuffle(99)
	sans[59] = "Nxe5"
	root, path = chain(quiet, sans...)
	if IsFiftyMoveRule(root, path, "Nf3") {
		t.Fatal("a capture at ply 60 should reset the counter")
	}

	// The root's half-move clock seeds the counter.
	root, path = chain("4k3/8/8/8/8/8/8/4K1N1 w - - 90 70", knightShuffle(9)...)
	if !IsFiftyMoveRule(root, path, "Nf3") {
		t.Fatal("expected the counter to start from the FEN half-move clock")
	}
}

func TestResetsHalfMoveClock(t *testing.T) {
	tests := map[string]bool{
		"e4":    true,
		"exd5":  true,
		"Nxe5":  true,
		"e8=Q":  true,
		"Nf3":   false,
		"O-O":   false,
		"Qh5+":  false,
		"Rxa8#": true,
		"":      false,
	}
	for san, want := range tests {
		if got := resetsHalfMoveClock(san); got != want {
			t.Fatalf("resetsHalfMoveClock(%q) = %v, want %v", san, got, want)
		}
	}
}

func TestThreefoldRepetition(t *testing.T) {
	rules := ChessRules{}
	st := NewTreeState("")
	moves := []string{
		"Nf3", "Nf6", "Ng1", "Ng8",
		"Nf3", "Nf6", "Ng1",
	}
	for _, m := range moves {
		if _, err := st.makeMove(rules, MoveSAN(m), MoveOptions{}); err != nil {
			t.Fatal(err)
		}
	}
	if st.Headers.Result != NoResult {
		t.Fatalf("expected no result after %d plies but got %s", len(moves), st.Headers.Result)
	}

	mv, err := rules.Resolve(st.Current().FEN, "Ng8")
	if err != nil {
		t.Fatal(err)
	}
	res, err := rules.Play(st.Current().FEN, mv)
	if err != nil {
		t.Fatal(err)
	}
	if !IsThreefoldRepetition(st.Root, st.Position, res.FEN) {
		t.Fatal("expected the start position to occur a third time")
	}

	if _, err := st.makeMove(rules, MoveSAN("Ng8"), MoveOptions{}); err != nil {
		t.Fatal(err)
	}
	if st.Headers.Result != Draw {
		t.Fatalf("expected %s but got %s", Draw, st.Headers.Result)
	}
}

func TestInvalidThreefoldRepetition(t *testing.T) {
	st := NewTreeState("")
	// Each position occurs at most twice.
	for _, m := range []string{"Nf3", "Nf6", "Ng1", "Ng8", "Nf3", "Nf6"} {
		if _, err := st.makeMove(ChessRules{}, MoveSAN(m), MoveOptions{}); err != nil {
			t.Fatal(err)
		}
	}
	if st.Headers.Result != NoResult {
		t.Fatalf("expected no result but got %s", st.Headers.Result)
	}
}

func TestRepetitionKey(t *testing.T) {
	a := repetitionKey("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	b := repetitionKey("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 4 3")
	c := repetitionKey("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 4 3")
	if a != b {
		t.Fatalf("clocks should not matter: %q vs %q", a, b)
	}
	if a == c {
		t.Fatal("side to move should matter")
	}
	if strings.Contains(a, "KQkq") {
		t.Fatalf("castling field should be dropped: %q", a)
	}
}

func TestFENFields(t *testing.T) {
	if n := halfMoveClock("8/8/8/8/8/8/8/K6k w - - 37 80"); n != 37 {
		t.Fatalf("halfMoveClock = %d, want 37", n)
	}
	if n := fullMoveNumber("8/8/8/8/8/8/8/K6k w - - 37 80"); n != 80 {
		t.Fatalf("fullMoveNumber = %d, want 80", n)
	}
	if n := fullMoveNumber("8/8/8/8/8/8/8/K6k w - -"); n != 1 {
		t.Fatalf("fullMoveNumber without the field = %d, want 1", n)
	}
}
