package gametree

import (
	"context"
	"fmt"
)

// A BestMove is one engine candidate line.
type BestMove struct {
	SAN   string   `json:"san"`
	UCI   []string `json:"uciMoves"`
	Score Score    `json:"score"`
	Depth int      `json:"depth"`
}

// PlyAnalysis is the engine output for one mainline position.
type PlyAnalysis struct {
	// Best holds the candidate moves, best first.
	Best []BestMove `json:"best"`
	// Novelty marks the first move that leaves the reference database.
	Novelty bool `json:"novelty"`
	// Sacrifice marks a move that gives up material.
	Sacrifice bool `json:"isSacrifice"`
}

func (a PlyAnalysis) bestScore() (Score, bool) {
	if len(a.Best) == 0 {
		return Score{}, false
	}
	return a.Best[0].Score, true
}

// addAnalysis merges results into the mainline: results[0] belongs to the
// root, results[i] to the i-th mainline move. Scores go on every node with a
// candidate that is not game over; played moves are also classified and
// marked as novelties.
func (s *TreeState) addAnalysis(r Rules, classify Classifier, results []PlyAnalysis) error {
	i := 0
	for _, node := range Mainline(s.Root) {
		if i >= len(results) {
			break
		}
		if err := annotatePly(r, classify, node, results, i); err != nil {
			return fmt.Errorf("ply %d: %w", i, err)
		}
		i++
	}
	if i > 0 {
		s.Dirty = true
	}
	return nil
}

func annotatePly(r Rules, classify Classifier, node *TreeNode, results []PlyAnalysis, i int) error {
	entry := results[i]
	score, ok := entry.bestScore()
	if !ok {
		return nil
	}
	status, err := r.Status(node.FEN)
	if err != nil {
		return err
	}
	if status.Over() {
		return nil
	}
	node.Score = &score
	if node.Move == nil {
		return nil
	}
	if entry.Novelty {
		node.Annotations = withAnnotation(node.Annotations, Novelty)
	}
	if classify == nil {
		return nil
	}

	mc := MoveContext{
		Current:   score,
		Color:     node.Mover(),
		Sacrifice: entry.Sacrifice,
		SAN:       node.SAN,
	}
	if i >= 1 {
		if prev, ok := results[i-1].bestScore(); ok {
			mc.Prev = &prev
			mc.Alternatives = results[i-1].Best
		}
	}
	if i >= 2 {
		if pp, ok := results[i-2].bestScore(); ok {
			mc.PrevPrev = &pp
		}
	}
	if a := classify(mc); a != NoAnnotation && a.Valid() {
		node.Annotations = withAnnotation(node.Annotations, a)
	}
	return nil
}

// A ReferenceLookup answers whether a position occurs in a reference game
// database.
type ReferenceLookup interface {
	Known(ctx context.Context, fen string) (bool, error)
}

// DetectNovelty walks the mainline of root alongside results and flags the
// entry of the first played move whose position lookup does not know.
// Positions are looked up one at a time, in order.
func DetectNovelty(ctx context.Context, root *TreeNode, lookup ReferenceLookup, results []PlyAnalysis) error {
	i := 0
	for _, node := range Mainline(root) {
		if i >= len(results) {
			return nil
		}
		if node.Move != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			known, err := lookup.Known(ctx, node.FEN)
			if err != nil {
				return fmt.Errorf("gametree: reference lookup at %s: %w", node.SAN, err)
			}
			if !known {
				results[i].Novelty = true
				return nil
			}
		}
		i++
	}
	return nil
}
