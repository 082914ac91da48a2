package gametree

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// A ScoreKind discriminates the Score variants.
type ScoreKind uint8

const (
	// ScoreCp is an evaluation in centipawns.
	ScoreCp ScoreKind = iota
	// ScoreMate is a distance to mate in moves; negative when Black mates.
	ScoreMate
	// ScoreDtz is a tablebase distance to zeroing move.
	ScoreDtz
)

func (k ScoreKind) String() string {
	switch k {
	case ScoreCp:
		return "cp"
	case ScoreMate:
		return "mate"
	case ScoreDtz:
		return "dtz"
	}
	return "unknown"
}

func parseScoreKind(s string) (ScoreKind, error) {
	switch s {
	case "cp":
		return ScoreCp, nil
	case "mate":
		return ScoreMate, nil
	case "dtz":
		return ScoreDtz, nil
	}
	return 0, fmt.Errorf("gametree: unknown score type %q", s)
}

// A Score is an evaluation attached to a node. Values are always from
// White's point of view.
type Score struct {
	Kind  ScoreKind
	Value int
}

// Cp returns a centipawn score.
func Cp(v int) Score { return Score{Kind: ScoreCp, Value: v} }

// Mate returns a mate-in-n score.
func Mate(v int) Score { return Score{Kind: ScoreMate, Value: v} }

// Dtz returns a tablebase distance-to-zeroing score.
func Dtz(v int) Score { return Score{Kind: ScoreDtz, Value: v} }

// String renders the score the way PGN [%eval] commands do: "0.31", "#-3".
func (s Score) String() string {
	switch s.Kind {
	case ScoreMate:
		return "#" + strconv.Itoa(s.Value)
	case ScoreDtz:
		return "dtz" + strconv.Itoa(s.Value)
	}
	return strconv.FormatFloat(float64(s.Value)/100, 'f', 2, 64)
}

const (
	winChanceScale = 0.00368208
	maxCentipawns  = 1000
)

// WinChance maps s to White's winning chances in percent [0, 100].
func (s Score) WinChance() float64 {
	switch s.Kind {
	case ScoreMate, ScoreDtz:
		switch {
		case s.Value > 0:
			return 100
		case s.Value < 0:
			return 0
		}
		// Mate 0 has no side attached; treat it as balanced.
		return 50
	}
	cp := max(-maxCentipawns, min(maxCentipawns, s.Value))
	return 50 + 50*(2/(1+math.Exp(-winChanceScale*float64(cp)))-1)
}

type scoreJSON struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoreJSON{Type: s.Kind.String(), Value: s.Value})
}

func (s *Score) UnmarshalJSON(data []byte) error {
	var raw scoreJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := parseScoreKind(raw.Type)
	if err != nil {
		return err
	}
	s.Kind = kind
	s.Value = raw.Value
	return nil
}
