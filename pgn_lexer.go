package gametree

import (
	"fmt"
	"strings"
)

type pgnTokenType int

const (
	tokEOF pgnTokenType = iota
	tokTag
	tokMoveNumber
	tokSAN
	tokNAG
	tokComment
	tokVariationStart
	tokVariationEnd
	tokResult
)

func (t pgnTokenType) String() string {
	switch t {
	case tokEOF:
		return "EOF"
	case tokTag:
		return "tag"
	case tokMoveNumber:
		return "move number"
	case tokSAN:
		return "move"
	case tokNAG:
		return "NAG"
	case tokComment:
		return "comment"
	case tokVariationStart:
		return "("
	case tokVariationEnd:
		return ")"
	case tokResult:
		return "result"
	}
	return "unknown"
}

type pgnToken struct {
	Type  pgnTokenType
	Key   string // tag name, for tokTag
	Value string
}

// PGNError reports a malformed PGN, with the byte offset in the input for
// lexing errors or the token index for parse errors.
type PGNError struct {
	Message  string
	Position int
	Token    string
}

func (e *PGNError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("gametree: pgn: %s at %d (%q)", e.Message, e.Position, e.Token)
	}
	return fmt.Sprintf("gametree: pgn: %s at %d", e.Message, e.Position)
}

// lexPGN splits one PGN game into tokens. Move text is not checked here; SAN
// and UCI words are passed through for the rules to resolve.
func lexPGN(src string) ([]pgnToken, error) {
	var toks []pgnToken
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '[':
			tok, n, err := lexTag(src[i:], i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i += n

		case c == '{':
			end := strings.IndexByte(src[i:], '}')
			if end < 0 {
				return nil, &PGNError{Message: "unterminated comment", Position: i}
			}
			toks = append(toks, pgnToken{Type: tokComment, Value: src[i+1 : i+end]})
			i += end + 1

		case c == ';':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src) - i
			}
			toks = append(toks, pgnToken{Type: tokComment, Value: strings.TrimSpace(src[i+1 : i+end])})
			i += end

		case c == '(':
			toks = append(toks, pgnToken{Type: tokVariationStart, Value: "("})
			i++

		case c == ')':
			toks = append(toks, pgnToken{Type: tokVariationEnd, Value: ")"})
			i++

		case c == '$':
			j := i + 1
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			if j == i+1 {
				return nil, &PGNError{Message: "empty NAG", Position: i}
			}
			toks = append(toks, pgnToken{Type: tokNAG, Value: src[i:j]})
			i = j

		case c == '!' || c == '?':
			j := i
			for j < len(src) && (src[j] == '!' || src[j] == '?') {
				j++
			}
			toks = append(toks, pgnToken{Type: tokNAG, Value: src[i:j]})
			i = j

		default:
			j := i
			for j < len(src) && !strings.ContainsRune(" \t\r\n{}()[];$!?", rune(src[j])) {
				j++
			}
			toks = append(toks, lexWord(src[i:j])...)
			i = j
		}
	}
	return toks, nil
}

// lexTag reads `[Key "Value"]` at the start of s and returns the token and
// the number of bytes consumed.
func lexTag(s string, offset int) (pgnToken, int, error) {
	i := 1
	for i < len(s) && s[i] == ' ' {
		i++
	}
	start := i
	for i < len(s) && s[i] != ' ' && s[i] != '"' && s[i] != ']' {
		i++
	}
	key := s[start:i]
	for i < len(s) && s[i] == ' ' {
		i++
	}
	if key == "" || i >= len(s) || s[i] != '"' {
		return pgnToken{}, 0, &PGNError{Message: "malformed tag", Position: offset}
	}
	i++

	var value strings.Builder
	for ; i < len(s) && s[i] != '"'; i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		value.WriteByte(s[i])
	}
	if i >= len(s) {
		return pgnToken{}, 0, &PGNError{Message: "unterminated tag value", Position: offset}
	}
	end := strings.IndexByte(s[i:], ']')
	if end < 0 {
		return pgnToken{}, 0, &PGNError{Message: "unterminated tag", Position: offset}
	}
	return pgnToken{Type: tokTag, Key: key, Value: value.String()}, i + end + 1, nil
}

// lexWord classifies a bare word: a result, a move number (possibly glued to
// its move as in "12.e4"), or a move.
func lexWord(w string) []pgnToken {
	switch w {
	case "1-0", "0-1", "1/2-1/2", "*":
		return []pgnToken{{Type: tokResult, Value: w}}
	case "":
		return nil
	}
	if w[0] >= '0' && w[0] <= '9' {
		digits := 0
		for digits < len(w) && w[digits] >= '0' && w[digits] <= '9' {
			digits++
		}
		rest := strings.TrimLeft(w[digits:], ".")
		if digits == len(w) || len(rest) < len(w[digits:]) {
			toks := []pgnToken{{Type: tokMoveNumber, Value: w[:digits]}}
			if rest != "" {
				toks = append(toks, pgnToken{Type: tokSAN, Value: normalizeCastling(rest)})
			}
			return toks
		}
	}
	if strings.Trim(w, ".") == "" {
		return nil
	}
	return []pgnToken{{Type: tokSAN, Value: normalizeCastling(w)}}
}

// normalizeCastling accepts the zero-digit castling some tools write.
func normalizeCastling(san string) string {
	if strings.HasPrefix(san, "0-0") {
		return strings.ReplaceAll(san, "0", "O")
	}
	return san
}
