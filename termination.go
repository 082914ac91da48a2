package gametree

import (
	"strconv"
	"strings"
)

const (
	repetitionsBeforeDraw  = 2
	fiftyMoveRuleHalfMoves = 100
)

// repetitionKey strips the castling, en passant and clock fields of a FEN,
// keeping board and side to move.
func repetitionKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return fen
	}
	return fields[0] + " " + fields[1]
}

// IsThreefoldRepetition reports whether fen, reached by a move from the node
// at path, would be the third occurrence of its position on the line from
// the root. The whole line is replayed on every call.
func IsThreefoldRepetition(root *TreeNode, path Position, fen string) bool {
	nodes, err := nodesAlong(root, path)
	if err != nil {
		return false
	}
	key := repetitionKey(fen)
	seen := 0
	for _, n := range nodes {
		if repetitionKey(n.FEN) == key {
			seen++
		}
	}
	return seen >= repetitionsBeforeDraw
}

// IsFiftyMoveRule reports whether playing san from the node at path reaches
// one hundred half-moves without a pawn move, capture or promotion. The
// counter starts from the root position's half-move clock.
func IsFiftyMoveRule(root *TreeNode, path Position, san string) bool {
	nodes, err := nodesAlong(root, path)
	if err != nil {
		return false
	}
	counter := halfMoveClock(root.FEN)
	for _, n := range nodes[1:] {
		counter = stepHalfMoveCounter(counter, n.SAN)
	}
	counter = stepHalfMoveCounter(counter, san)
	return counter >= fiftyMoveRuleHalfMoves
}

func stepHalfMoveCounter(counter int, san string) int {
	if resetsHalfMoveClock(san) {
		return 0
	}
	return counter + 1
}

// resetsHalfMoveClock reports pawn moves, captures and promotions from SAN.
func resetsHalfMoveClock(san string) bool {
	if san == "" {
		return false
	}
	if c := san[0]; c >= 'a' && c <= 'h' {
		return true
	}
	return strings.ContainsAny(san, "x=")
}

func halfMoveClock(fen string) int {
	fields := strings.Fields(fen)
	if len(fields) < 5 {
		return 0
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// fullMoveNumber returns the FEN move number, 1 when absent.
func fullMoveNumber(fen string) int {
	fields := strings.Fields(fen)
	if len(fields) < 6 {
		return 1
	}
	n, err := strconv.Atoi(fields[5])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
