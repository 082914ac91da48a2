package gametree

import "strings"

// MoveContext is what a Classifier sees of one played move. Scores are from
// White's point of view.
type MoveContext struct {
	// PrevPrev is the evaluation two plies back, before the opponent's last move.
	PrevPrev *Score
	// Prev is the evaluation before the move.
	Prev *Score
	// Current is the evaluation after the move.
	Current Score
	// Color is the side that played the move.
	Color Color
	// Alternatives are the engine's candidate moves in the position before
	// the move, best first.
	Alternatives []BestMove
	// Sacrifice reports that the move gives up material.
	Sacrifice bool
	// SAN is the move that was played.
	SAN string
}

// A Classifier judges a played move. It returns NoAnnotation when it has no
// opinion.
type Classifier func(MoveContext) Annotation

// ClassifierConfig holds the thresholds of DefaultClassifier, in points of
// win chance (0 to 100) from the mover's point of view.
type ClassifierConfig struct {
	Dubious float64
	Mistake float64
	Blunder float64
	// OnlyMoveGap is how far the second best move must fall behind the best
	// one for playing the best move to earn "!".
	OnlyMoveGap float64
	// Winning is the win chance above which good moves are no longer praised.
	Winning float64
}

// DefaultClassifierConfig returns the stock thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Dubious:     5,
		Mistake:     10,
		Blunder:     20,
		OnlyMoveGap: 10,
		Winning:     97,
	}
}

// DefaultClassifier returns a Classifier that marks drops in win chance as
// "?!", "?" or "??", and praises a best move that was the only good one with
// "!" ("!!" when it is a sacrifice).
func DefaultClassifier(cfg ClassifierConfig) Classifier {
	return func(mc MoveContext) Annotation {
		if mc.Prev == nil {
			return NoAnnotation
		}
		drop := moverChance(*mc.Prev, mc.Color) - moverChance(mc.Current, mc.Color)
		switch {
		case drop > cfg.Blunder:
			return Blunder
		case drop > cfg.Mistake:
			return Mistake
		case drop > cfg.Dubious:
			return Dubious
		}

		if len(mc.Alternatives) == 0 || !sameSAN(mc.Alternatives[0].SAN, mc.SAN) {
			return NoAnnotation
		}
		if mc.PrevPrev != nil && moverChance(*mc.PrevPrev, mc.Color) >= cfg.Winning {
			return NoAnnotation
		}
		if mc.Sacrifice {
			return Brilliant
		}
		if len(mc.Alternatives) < 2 {
			return NoAnnotation
		}
		gap := moverChance(mc.Alternatives[0].Score, mc.Color) - moverChance(mc.Alternatives[1].Score, mc.Color)
		if gap >= cfg.OnlyMoveGap {
			return Good
		}
		return NoAnnotation
	}
}

// moverChance returns the win chance of c.
func moverChance(s Score, c Color) float64 {
	w := s.WinChance()
	if c == Black {
		return 100 - w
	}
	return w
}

func sameSAN(a, b string) bool {
	return a != "" && strings.TrimRight(a, "+#") == strings.TrimRight(b, "+#")
}
