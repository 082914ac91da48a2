package gametree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
)

// PositionStatus reports the end-of-game flags of a position.
type PositionStatus struct {
	Check                bool
	Checkmate            bool
	Stalemate            bool
	InsufficientMaterial bool
}

// Over reports whether the game cannot continue from the position.
func (s PositionStatus) Over() bool {
	return s.Checkmate || s.Stalemate || s.InsufficientMaterial
}

// PlayResult is the outcome of playing a move on a position.
type PlayResult struct {
	FEN    string
	SAN    string
	Move   Move
	Status PositionStatus
}

// Rules is the chess rules collaborator. The tree never computes positions
// itself; every FEN stored in a node comes from Play.
type Rules interface {
	// Validate reports ErrInvalidFEN if fen is not a usable position.
	Validate(fen string) error
	// Resolve decodes SAN or UCI text against fen into a legal move.
	Resolve(fen, text string) (Move, error)
	// Play applies a legal move to fen.
	Play(fen string, m Move) (PlayResult, error)
	// Status reports the end-of-game flags of fen.
	Status(fen string) (PositionStatus, error)
}

// ChessRules implements Rules with github.com/corentings/chess/v2.
type ChessRules struct{}

var _ Rules = ChessRules{}

// nullMoveSAN is the SAN the rules library uses for a null or invalid move.
const nullMoveSAN = "--"

func (ChessRules) game(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
	}
	return chess.NewGame(opt), nil
}

func (r ChessRules) Validate(fen string) error {
	_, err := r.game(fen)
	return err
}

func (r ChessRules) Resolve(fen, text string) (Move, error) {
	g, err := r.game(fen)
	if err != nil {
		return Move{}, err
	}
	pos := g.Position()
	text = strings.TrimSpace(text)
	if text == "" || text == nullMoveSAN {
		return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, text)
	}

	decoded, err := chess.AlgebraicNotation{}.Decode(pos, text)
	if err != nil {
		var uciErr error
		decoded, uciErr = chess.UCINotation{}.Decode(pos, text)
		if uciErr != nil {
			return Move{}, fmt.Errorf("%w: %q: %v", ErrIllegalMove, text, errors.Join(err, uciErr))
		}
	}
	legal := legalMove(pos, decoded.S1(), decoded.S2(), decoded.Promo())
	if legal == nil {
		return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, text)
	}
	return toMove(legal), nil
}

func (r ChessRules) Play(fen string, m Move) (PlayResult, error) {
	g, err := r.game(fen)
	if err != nil {
		return PlayResult{}, err
	}
	pos := g.Position()

	var legal *chess.Move
	moves := pos.ValidMoves()
	for i := range moves {
		if moves[i].S1().String() == m.From && moves[i].S2().String() == m.To && fromPieceType(moves[i].Promo()) == m.Promotion {
			legal = &moves[i]
			break
		}
	}
	if legal == nil {
		return PlayResult{}, fmt.Errorf("%w: %s in %q", ErrIllegalMove, m.UCI(), fen)
	}

	san := chess.AlgebraicNotation{}.Encode(pos, legal)
	if san == nullMoveSAN {
		return PlayResult{}, fmt.Errorf("%w: %s", ErrIllegalMove, m.UCI())
	}
	next := pos.Update(legal)
	if next == nil {
		return PlayResult{}, fmt.Errorf("%w: %s", ErrIllegalMove, m.UCI())
	}
	nextFEN := next.String()
	status, err := r.Status(nextFEN)
	if err != nil {
		return PlayResult{}, err
	}
	status.Check = status.Check || legal.HasTag(chess.Check)
	return PlayResult{
		FEN:    nextFEN,
		SAN:    san,
		Move:   toMove(legal),
		Status: status,
	}, nil
}

func (r ChessRules) Status(fen string) (PositionStatus, error) {
	g, err := r.game(fen)
	if err != nil {
		return PositionStatus{}, err
	}
	var st PositionStatus
	switch g.Position().Status() {
	case chess.Checkmate:
		st.Checkmate = true
		st.Check = true
	case chess.Stalemate:
		st.Stalemate = true
	}
	if g.Method() == chess.InsufficientMaterial {
		st.InsufficientMaterial = true
	}
	return st, nil
}

// legalMove returns the valid move of pos matching the squares and promotion.
func legalMove(pos *chess.Position, s1, s2 chess.Square, promo chess.PieceType) *chess.Move {
	moves := pos.ValidMoves()
	for i := range moves {
		if moves[i].S1() == s1 && moves[i].S2() == s2 && moves[i].Promo() == promo {
			return &moves[i]
		}
	}
	return nil
}

func toMove(m *chess.Move) Move {
	return Move{
		From:      m.S1().String(),
		To:        m.S2().String(),
		Promotion: fromPieceType(m.Promo()),
	}
}

func fromPieceType(p chess.PieceType) PieceType {
	switch p {
	case chess.Queen:
		return Queen
	case chess.Rook:
		return Rook
	case chess.Bishop:
		return Bishop
	case chess.Knight:
		return Knight
	}
	return NoPieceType
}
