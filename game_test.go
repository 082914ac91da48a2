package gametree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagPairs(t *testing.T) {
	h := DefaultHeaders()
	h.White = "Carlsen"
	h.WhiteElo = 2830
	h.FEN = "4k3/8/8/8/8/8/8/4K2R w K - 0 1"
	h.Extra = map[string]string{"ECO": "C20"}

	tags := h.TagPairs()
	assert.Equal(t, map[string]string{
		"Event":    "?",
		"Site":     "?",
		"Date":     "?",
		"Round":    "?",
		"White":    "Carlsen",
		"Black":    "?",
		"Result":   "*",
		"WhiteElo": "2830",
		"FEN":      "4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"SetUp":    "1",
		"ECO":      "C20",
	}, tags)

	assert.Equal(t, h, headersFromTags(tags))

	h.Result = ""
	assert.Equal(t, "*", h.TagPairs()["Result"])
}

func TestHeadersFromTags(t *testing.T) {
	h := headersFromTags(map[string]string{
		"Event":    "Open",
		"Result":   "0-1",
		"BlackElo": "not a number",
		"Variant":  "Standard",
	})
	assert.Equal(t, "Open", h.Event)
	assert.Equal(t, BlackWon, h.Result)
	assert.Zero(t, h.BlackElo)
	assert.Equal(t, "Standard", h.Variant)
	assert.Equal(t, White, h.Orientation)
	assert.Nil(t, h.Extra)

	assert.Equal(t, NoResult, headersFromTags(nil).Result)
}

func TestHeadersClone(t *testing.T) {
	h := DefaultHeaders()
	h.Start = Position{0, 1}
	h.Extra = map[string]string{"ECO": "B20"}

	c := h.Clone()
	c.Start[1] = 5
	c.Extra["ECO"] = "A00"
	assert.Equal(t, Position{0, 1}, h.Start)
	assert.Equal(t, "B20", h.Extra["ECO"])
}

func TestSortedTagPairs(t *testing.T) {
	tags := map[string]string{
		"Result":    "*",
		"ECO":       "C20",
		"White":     "W",
		"Annotator": "me",
		"Event":     "E",
		"Black":     "B",
	}
	var keys []string
	for _, tag := range sortedTagPairs(tags) {
		keys = append(keys, tag.Key)
	}
	assert.Equal(t, []string{"Event", "White", "Black", "Result", "Annotator", "ECO"}, keys)
}

func TestParseResult(t *testing.T) {
	tests := map[string]Result{
		"1-0":     WhiteWon,
		"0-1":     BlackWon,
		"1/2-1/2": Draw,
		"*":       NoResult,
		"":        NoResult,
		"2-0":     NoResult,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseResult(in), in)
	}
	assert.Equal(t, WhiteWon, winner(White))
	assert.Equal(t, BlackWon, winner(Black))
}

func TestSplit(t *testing.T) {
	st := NewTreeState("")
	play(t, st, "e4", "e5", "Nf3")
	require.NoError(t, st.GoTo(Position{0}))
	play(t, st, "c5")
	st.Start()
	play(t, st, "d4")
	st.Headers.White = "W"
	st.Headers.Start = Position{0}

	lines := st.Split()
	require.Len(t, lines, 3)

	var got [][]string
	for _, line := range lines {
		got = append(got, mainlineSANs(line.Root))
		assert.Equal(t, "W", line.Headers.White)
		assert.Nil(t, line.Headers.Start)
		assert.Equal(t, MainlinePosition(line.Root), line.Position)
		assert.Equal(t, 1, Stats(line.Root).Leaves)
	}
	assert.Equal(t, [][]string{{"e4", "e5", "Nf3"}, {"e4", "c5"}, {"d4"}}, got)

	// Lines are independent of the source tree.
	lines[0].Root.Children[0].Comment = "changed"
	assert.Empty(t, st.Root.Children[0].Comment)

	assert.Empty(t, NewTreeState("").Split())
}
