package gametree

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// An Annotation is a symbolic move-quality, evaluation or novelty marker.
type Annotation string

const (
	NoAnnotation Annotation = ""

	Good        Annotation = "!"
	Mistake     Annotation = "?"
	Brilliant   Annotation = "!!"
	Blunder     Annotation = "??"
	Interesting Annotation = "!?"
	Dubious     Annotation = "?!"
	OnlyMove    Annotation = "□"

	Equal               Annotation = "="
	Unclear             Annotation = "∞"
	WhiteSlightlyBetter Annotation = "⩲"
	BlackSlightlyBetter Annotation = "⩱"
	WhiteBetter         Annotation = "±"
	BlackBetter         Annotation = "∓"
	WhiteWinning        Annotation = "+-"
	BlackWinning        Annotation = "-+"

	Novelty Annotation = "N"
)

// An AnnotationGroup is a set of mutually exclusive annotations.
type AnnotationGroup uint8

const (
	MoveGroup AnnotationGroup = iota + 1
	ForcedGroup
	EvalGroup
	NoveltyGroup
)

type annotationInfo struct {
	nag   int
	group AnnotationGroup
}

var annotationTable = map[Annotation]annotationInfo{
	Good:                {nag: 1, group: MoveGroup},
	Mistake:             {nag: 2, group: MoveGroup},
	Brilliant:           {nag: 3, group: MoveGroup},
	Blunder:             {nag: 4, group: MoveGroup},
	Interesting:         {nag: 5, group: MoveGroup},
	Dubious:             {nag: 6, group: MoveGroup},
	OnlyMove:            {nag: 7, group: ForcedGroup},
	Equal:               {nag: 10, group: EvalGroup},
	Unclear:             {nag: 13, group: EvalGroup},
	WhiteSlightlyBetter: {nag: 14, group: EvalGroup},
	BlackSlightlyBetter: {nag: 15, group: EvalGroup},
	WhiteBetter:         {nag: 16, group: EvalGroup},
	BlackBetter:         {nag: 17, group: EvalGroup},
	WhiteWinning:        {nag: 18, group: EvalGroup},
	BlackWinning:        {nag: 19, group: EvalGroup},
	Novelty:             {nag: 146, group: NoveltyGroup},
}

// Valid reports whether a is in the annotation table.
func (a Annotation) Valid() bool {
	_, ok := annotationTable[a]
	return ok
}

// NAG returns the numeric annotation glyph for a, or 0 if a is unknown.
func (a Annotation) NAG() int {
	return annotationTable[a].nag
}

// Group returns the exclusivity group of a.
func (a Annotation) Group() AnnotationGroup {
	return annotationTable[a].group
}

// ParseAnnotation accepts a symbol ("!?") or a NAG ("$5").
func ParseAnnotation(s string) (Annotation, error) {
	s = strings.TrimSpace(s)
	if a := Annotation(s); a.Valid() {
		return a, nil
	}
	if n, ok := strings.CutPrefix(s, "$"); ok {
		nag, err := strconv.Atoi(n)
		if err == nil {
			for a, info := range annotationTable {
				if info.nag == nag {
					return a, nil
				}
			}
		}
	}
	return NoAnnotation, fmt.Errorf("%w: %q", ErrUnknownAnnotation, s)
}

// sortAnnotations orders annotations by NAG so rendering is deterministic.
func sortAnnotations(as []Annotation) {
	slices.SortFunc(as, func(a, b Annotation) int {
		return a.NAG() - b.NAG()
	})
}

// withAnnotation returns as with a added, dropping any annotation of the same
// group. as is not modified.
func withAnnotation(as []Annotation, a Annotation) []Annotation {
	out := make([]Annotation, 0, len(as)+1)
	for _, existing := range as {
		if existing.Group() != a.Group() {
			out = append(out, existing)
		}
	}
	out = append(out, a)
	sortAnnotations(out)
	return out
}

// toggleAnnotation removes a if present, otherwise adds it with group exclusivity.
func toggleAnnotation(as []Annotation, a Annotation) []Annotation {
	if i := slices.Index(as, a); i >= 0 {
		return slices.Delete(slices.Clone(as), i, i+1)
	}
	return withAnnotation(as, a)
}
