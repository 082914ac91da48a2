package gametree

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PGN takes a reader and returns a function that starts the session from
// the first game in the PGN data. Moves may be in SAN or UCI notation.
// An error is returned if there is a problem parsing the PGN data.
func PGN(r io.Reader) (func(*Session), error) {
	st, err := ReadPGN(r)
	if err != nil {
		return nil, err
	}
	return func(s *Session) { s.state = st }, nil
}

// ReadPGN parses the first game of r into a tree with the cursor at the root.
// Variations, comments, NAGs and the [%clk], [%eval], [%cal] and [%csl]
// commands are kept.
func ReadPGN(r io.Reader) (*TreeState, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parsePGN(string(raw), ChessRules{})
}

func parsePGN(src string, rules Rules) (*TreeState, error) {
	tokens, err := lexPGN(src)
	if err != nil {
		return nil, err
	}
	p := &pgnParser{tokens: tokens, rules: rules}

	tags := p.parseHeader()
	headers := headersFromTags(tags)
	if headers.FEN == StartFEN {
		headers.FEN = ""
	}
	st := NewTreeState(headers.FEN)
	if headers.FEN != "" {
		if err := rules.Validate(headers.FEN); err != nil {
			return nil, err
		}
	}
	st.Headers = headers
	p.state = st

	if err := p.parseLine(Position{}, false); err != nil {
		return nil, err
	}
	st.Position = Position{}
	st.Dirty = false
	return st, nil
}

type pgnParser struct {
	tokens   []pgnToken
	position int
	rules    Rules
	state    *TreeState
}

func (p *pgnParser) currentToken() pgnToken {
	if p.position >= len(p.tokens) {
		return pgnToken{Type: tokEOF}
	}
	return p.tokens[p.position]
}

func (p *pgnParser) advance() {
	p.position++
}

func (p *pgnParser) parseHeader() map[string]string {
	tags := make(map[string]string)
	for p.currentToken().Type == tokTag {
		tok := p.currentToken()
		tags[tok.Key] = tok.Value
		p.advance()
	}
	return tags
}

// parseLine reads moves starting after the node at start until the end of
// the variation (nested) or of the game. A "(" opens an alternative to the
// move just read.
func (p *pgnParser) parseLine(start Position, nested bool) error {
	cur := start
	branchFrom := start
	for {
		tok := p.currentToken()
		switch tok.Type {
		case tokEOF:
			if nested {
				return &PGNError{Message: "unterminated variation", Position: p.position}
			}
			return nil

		case tokSAN:
			child, err := p.state.makeMoveAt(p.rules, cur, MoveSAN(tok.Value), MoveOptions{KeepPosition: true, KeepHeaders: true})
			if err != nil {
				return fmt.Errorf("gametree: pgn: move %d %q: %w", p.position, tok.Value, err)
			}
			branchFrom = cur
			cur = child
			p.advance()

		case tokNAG:
			if a, err := ParseAnnotation(tok.Value); err == nil && !cur.IsRoot() {
				node, _ := NodeAt(p.state.Root, cur)
				node.Annotations = withAnnotation(node.Annotations, a)
			}
			p.advance()

		case tokComment:
			node, _ := NodeAt(p.state.Root, cur)
			applyComment(node, tok.Value)
			p.advance()

		case tokVariationStart:
			p.advance()
			if err := p.parseLine(branchFrom, true); err != nil {
				return err
			}

		case tokVariationEnd:
			if !nested {
				return &PGNError{Message: "unexpected )", Position: p.position}
			}
			p.advance()
			return nil

		case tokResult:
			if nested {
				return &PGNError{Message: "result inside variation", Position: p.position, Token: tok.Value}
			}
			if r := parseResult(tok.Value); r != NoResult || p.state.Headers.Result == "" {
				p.state.Headers.Result = r
			}
			p.advance()
			return nil

		default:
			p.advance()
		}
	}
}

var commandPattern = regexp.MustCompile(`\[%(\w+)\s+([^\]]*)\]`)

// applyComment splits a PGN comment into embedded commands and free text.
func applyComment(node *TreeNode, raw string) {
	for _, m := range commandPattern.FindAllStringSubmatch(raw, -1) {
		applyCommand(node, m[1], strings.TrimSpace(m[2]))
	}
	text := strings.TrimSpace(commandPattern.ReplaceAllString(raw, ""))
	if text == "" {
		return
	}
	if node.Comment != "" {
		node.Comment += " " + text
	} else {
		node.Comment = text
	}
}

func applyCommand(node *TreeNode, name, value string) {
	switch name {
	case "clk":
		if d, err := parseClock(value); err == nil {
			node.Clock = &d
		}
	case "eval":
		if s, err := parseEval(value); err == nil {
			node.Score = &s
		}
	case "cal", "csl":
		for _, f := range strings.Split(value, ",") {
			if sh, ok := parseShape(strings.TrimSpace(f)); ok {
				node.Shapes = append(node.Shapes, sh)
			}
		}
	}
}

// parseClock reads h:mm:ss with optional fractional seconds.
func parseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("clock %q: want h:mm:ss", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", s, err)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec*float64(time.Second)), nil
}

func formatClock(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}

// parseEval reads "0.31", "-1.5" or "#-3".
func parseEval(s string) (Score, error) {
	if m, ok := strings.CutPrefix(s, "#"); ok {
		n, err := strconv.Atoi(m)
		if err != nil {
			return Score{}, err
		}
		return Mate(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Score{}, err
	}
	return Cp(int(f*100 + copysignHalf(f))), nil
}

func copysignHalf(f float64) float64 {
	if f < 0 {
		return -0.5
	}
	return 0.5
}

var brushes = map[byte]string{
	'G': "green",
	'R': "red",
	'Y': "yellow",
	'B': "blue",
}

// parseShape reads "Ge2e4" (arrow) or "Re4" (highlight).
func parseShape(s string) (Shape, bool) {
	if len(s) != 3 && len(s) != 5 {
		return Shape{}, false
	}
	brush, ok := brushes[s[0]]
	if !ok {
		return Shape{}, false
	}
	sh := Shape{Orig: s[1:3], Brush: brush}
	if len(s) == 5 {
		sh.Dest = s[3:5]
	}
	return sh, true
}

func brushLetter(brush string) byte {
	for k, v := range brushes {
		if v == brush {
			return k
		}
	}
	return 'G'
}

// PGN renders the state as a PGN game.
func (s *TreeState) PGN() string {
	var sb strings.Builder
	s.writePGN(&sb)
	return sb.String()
}

// WritePGN writes the state as a PGN game to w.
func (s *TreeState) WritePGN(w io.Writer) error {
	_, err := io.WriteString(w, s.PGN())
	return err
}

func (s *TreeState) writePGN(sb *strings.Builder) {
	for _, tag := range sortedTagPairs(s.Headers.TagPairs()) {
		fmt.Fprintf(sb, "[%s \"%s\"]\n", tag.Key, escapeTagValue(tag.Value))
	}
	sb.WriteString("\n")

	if s.Root.Comment != "" {
		sb.WriteString("{" + commentText(s.Root.Comment) + "} ")
	}
	if len(s.Root.Children) > 0 {
		writeMoves(sb, s.Root, fullMoveNumber(s.Root.FEN), s.Root.Turn() == White, true)
		sb.WriteString(" ")
	}
	result := s.Headers.Result
	if result == "" {
		result = NoResult
	}
	sb.WriteString(result.String())
	sb.WriteString("\n")
}

func escapeTagValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

// writeMoves writes the line continuing from node: its first child, the
// alternatives to that child in parentheses, then the rest of the line.
// A black move gets its number when it opens a line or follows a variation.
func writeMoves(sb *strings.Builder, node *TreeNode, moveNum int, isWhite, forceNumber bool) {
	for len(node.Children) > 0 {
		main := node.Children[0]
		writeMove(sb, main, moveNum, isWhite, forceNumber)
		for _, variation := range node.Children[1:] {
			sb.WriteString(" (")
			writeVariation(sb, variation, moveNum, isWhite)
			sb.WriteString(")")
		}
		forceNumber = len(node.Children) > 1
		moveNum, isWhite = nextMoveNumber(moveNum, isWhite)
		node = main
		if len(node.Children) > 0 {
			sb.WriteString(" ")
		}
	}
}

func writeVariation(sb *strings.Builder, first *TreeNode, moveNum int, isWhite bool) {
	writeMove(sb, first, moveNum, isWhite, true)
	if len(first.Children) > 0 {
		sb.WriteString(" ")
		num, white := nextMoveNumber(moveNum, isWhite)
		writeMoves(sb, first, num, white, false)
	}
}

func nextMoveNumber(moveNum int, isWhite bool) (int, bool) {
	if isWhite {
		return moveNum, false
	}
	return moveNum + 1, true
}

func writeMove(sb *strings.Builder, node *TreeNode, moveNum int, isWhite, forceNumber bool) {
	writeMoveNumber(sb, moveNum, isWhite, forceNumber)
	sb.WriteString(node.SAN)
	for _, a := range node.Annotations {
		fmt.Fprintf(sb, " $%d", a.NAG())
	}
	writeComments(sb, node)
}

func writeMoveNumber(sb *strings.Builder, moveNum int, isWhite, forceNumber bool) {
	if isWhite {
		fmt.Fprintf(sb, "%d. ", moveNum)
	} else if forceNumber {
		fmt.Fprintf(sb, "%d... ", moveNum)
	}
}

// commentText drops "}", which PGN comments cannot contain.
func commentText(c string) string {
	return strings.ReplaceAll(c, "}", "")
}

// writeComments writes the node's commands and comment as one {} block.
func writeComments(sb *strings.Builder, node *TreeNode) {
	var parts []string
	if node.Clock != nil {
		parts = append(parts, "[%clk "+formatClock(*node.Clock)+"]")
	}
	if node.Score != nil && node.Score.Kind != ScoreDtz {
		parts = append(parts, "[%eval "+node.Score.String()+"]")
	}
	var arrows, squares []string
	for _, sh := range node.Shapes {
		brush := string(brushLetter(sh.Brush))
		if sh.Dest == "" || sh.Dest == sh.Orig {
			squares = append(squares, brush+sh.Orig)
		} else {
			arrows = append(arrows, brush+sh.Orig+sh.Dest)
		}
	}
	if len(arrows) > 0 {
		parts = append(parts, "[%cal "+strings.Join(arrows, ",")+"]")
	}
	if len(squares) > 0 {
		parts = append(parts, "[%csl "+strings.Join(squares, ",")+"]")
	}
	if node.Comment != "" {
		parts = append(parts, commentText(node.Comment))
	}
	if len(parts) > 0 {
		sb.WriteString(" {" + strings.Join(parts, " ") + "}")
	}
}
