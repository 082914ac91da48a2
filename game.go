/*
Package gametree represents a chess game as a tree of positions with
variations and keeps that tree consistent while a user navigates it, edits
it, annotates it and merges engine analysis into it.

Move legality, SAN/UCI decoding and FEN handling are delegated to a Rules
implementation; the default one is backed by github.com/corentings/chess/v2.

Example usage:

	// Create a session at the standard starting position
	s := NewSession()

	// Play moves; the cursor follows them
	s.MakeMove(MoveSAN("e4"), MoveOptions{})
	s.MakeMove(MoveSAN("e5"), MoveOptions{})

	// Walk back and branch
	s.Previous()
	s.MakeMove(MoveSAN("c5"), MoveOptions{})

	// Check the result
	if s.Snapshot().Headers.Result != NoResult {
		fmt.Printf("Game ended: %s\n", s.Snapshot().Headers.Result)
	}
*/
package gametree

import (
	"slices"
	"strconv"

	"golang.org/x/exp/maps"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// A Result is the result of a game.
type Result string

const (
	// NoResult indicates that a game is in progress or ended without a result.
	NoResult Result = "*"
	// WhiteWon indicates that white won the game.
	WhiteWon Result = "1-0"
	// BlackWon indicates that black won the game.
	BlackWon Result = "0-1"
	// Draw indicates that game was a draw.
	Draw Result = "1/2-1/2"
)

// String implements the fmt.Stringer interface.
func (r Result) String() string {
	return string(r)
}

// parseResult maps a PGN result token; anything unknown is NoResult.
func parseResult(s string) Result {
	switch Result(s) {
	case WhiteWon, BlackWon, Draw:
		return Result(s)
	}
	return NoResult
}

// winner returns the result of a game won by c.
func winner(c Color) Result {
	if c == White {
		return WhiteWon
	}
	return BlackWon
}

// GameHeaders is the metadata of a game.
type GameHeaders struct {
	Event       string `json:"event"`
	Site        string `json:"site"`
	Date        string `json:"date"`
	Round       string `json:"round"`
	White       string `json:"white"`
	Black       string `json:"black"`
	WhiteElo    int    `json:"whiteElo,omitempty"`
	BlackElo    int    `json:"blackElo,omitempty"`
	TimeControl string `json:"timeControl,omitempty"`
	Result      Result `json:"result"`

	// Orientation is the side shown at the bottom of the board.
	Orientation Color `json:"orientation"`
	// FEN is the custom starting position; empty for the standard one.
	FEN     string `json:"fen,omitempty"`
	Variant string `json:"variant,omitempty"`
	// Start marks a repertoire's training entry point; nil when unset.
	Start Position `json:"start,omitempty"`

	// Extra holds tag pairs without a dedicated field.
	Extra map[string]string `json:"extra,omitempty"`
}

// DefaultHeaders returns headers for a fresh game.
func DefaultHeaders() GameHeaders {
	return GameHeaders{
		Result:      NoResult,
		Orientation: White,
	}
}

// Clone returns a copy of h that shares no mutable state.
func (h GameHeaders) Clone() GameHeaders {
	c := h
	if h.Start != nil {
		c.Start = h.Start.Clone()
	}
	if h.Extra != nil {
		c.Extra = maps.Clone(h.Extra)
	}
	return c
}

// TagPairs returns the headers as PGN tag pairs. The seven tag roster is
// always present.
func (h GameHeaders) TagPairs() map[string]string {
	tags := make(map[string]string, len(h.Extra)+12)
	maps.Copy(tags, h.Extra)
	tags["Event"] = orUnknown(h.Event)
	tags["Site"] = orUnknown(h.Site)
	tags["Date"] = orUnknown(h.Date)
	tags["Round"] = orUnknown(h.Round)
	tags["White"] = orUnknown(h.White)
	tags["Black"] = orUnknown(h.Black)
	result := h.Result
	if result == "" {
		result = NoResult
	}
	tags["Result"] = result.String()
	if h.WhiteElo > 0 {
		tags["WhiteElo"] = strconv.Itoa(h.WhiteElo)
	}
	if h.BlackElo > 0 {
		tags["BlackElo"] = strconv.Itoa(h.BlackElo)
	}
	if h.TimeControl != "" {
		tags["TimeControl"] = h.TimeControl
	}
	if h.FEN != "" {
		tags["FEN"] = h.FEN
		tags["SetUp"] = "1"
	}
	if h.Variant != "" {
		tags["Variant"] = h.Variant
	}
	return tags
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func fromUnknown(s string) string {
	if s == "?" {
		return ""
	}
	return s
}

// headersFromTags is the inverse of TagPairs.
func headersFromTags(tags map[string]string) GameHeaders {
	h := DefaultHeaders()
	extra := maps.Clone(tags)
	take := func(k string) string {
		v := extra[k]
		delete(extra, k)
		return v
	}
	h.Event = fromUnknown(take("Event"))
	h.Site = fromUnknown(take("Site"))
	h.Date = fromUnknown(take("Date"))
	h.Round = fromUnknown(take("Round"))
	h.White = fromUnknown(take("White"))
	h.Black = fromUnknown(take("Black"))
	h.Result = parseResult(take("Result"))
	h.WhiteElo, _ = strconv.Atoi(take("WhiteElo"))
	h.BlackElo, _ = strconv.Atoi(take("BlackElo"))
	h.TimeControl = take("TimeControl")
	h.FEN = take("FEN")
	h.Variant = take("Variant")
	delete(extra, "SetUp")
	if len(extra) > 0 {
		h.Extra = extra
	}
	return h
}

type sortableTagPair struct {
	Key   string
	Value string
}

// sortedTagPairs orders tags as PGN expects: the roster first, then by key.
func sortedTagPairs(tags map[string]string) []sortableTagPair {
	list := make([]sortableTagPair, 0, len(tags))
	for k, v := range tags {
		list = append(list, sortableTagPair{Key: k, Value: v})
	}
	slices.SortFunc(list, cmpTags)
	return list
}

var tagRoster = []string{
	"Event",
	"Site",
	"Date",
	"Round",
	"White",
	"Black",
	"Result",
}

// Compares two tags to determine in which order they should be brought up
func cmpTags(a, b sortableTagPair) int {
	if a.Key == b.Key {
		return 0
	}
	ai, bi := slices.Index(tagRoster, a.Key), slices.Index(tagRoster, b.Key)
	switch {
	case ai >= 0 && bi >= 0:
		return ai - bi
	case ai >= 0:
		return -1
	case bi >= 0:
		return +1
	}
	if a.Key < b.Key {
		return -1
	}
	return +1
}
