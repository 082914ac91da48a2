package gametree

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A Session is one open game: its TreeState plus undo history. Every method
// is safe for concurrent use. A mutation works on a private copy and the copy
// is published only when the whole operation succeeds, so callers never see
// a half-applied edit.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	state    *TreeState
	history  history
	rules    Rules
	classify Classifier
	cfg      Config
	log      *zap.SugaredLogger
}

// NewSession returns a session at the standard starting position.
// Optional functions configure the rules, logging and initial state.
//
// Example:
//
//	// Standard game
//	s := NewSession()
//
//	// Game from FEN
//	fen, err := FEN("8/8/8/4k3/8/8/8/4K2R w K - 0 1")
//	if err != nil {
//		return err
//	}
//	s := NewSession(fen, WithLogger(logger))
func NewSession(options ...func(*Session)) *Session {
	s := &Session{
		id:    uuid.New(),
		state: NewTreeState(""),
		rules: ChessRules{},
		cfg:   DefaultConfig(),
		log:   zap.NewNop().Sugar(),
	}
	for _, f := range options {
		if f != nil {
			f(s)
		}
	}
	if s.classify == nil {
		s.classify = DefaultClassifier(s.cfg.Classifier())
	}
	s.history.limit = s.cfg.HistoryLimit
	s.log = s.log.With("session", s.id.String())
	return s
}

// WithRules replaces the default chess rules.
func WithRules(r Rules) func(*Session) {
	return func(s *Session) { s.rules = r }
}

// WithLogger sets the logger. Sessions are silent by default.
func WithLogger(l *zap.SugaredLogger) func(*Session) {
	return func(s *Session) { s.log = l }
}

// WithConfig sets the history limit and classifier thresholds.
func WithConfig(cfg Config) func(*Session) {
	return func(s *Session) { s.cfg = cfg }
}

// WithClassifier replaces the move classifier used by AddAnalysis.
func WithClassifier(c Classifier) func(*Session) {
	return func(s *Session) { s.classify = c }
}

// FEN returns a function that starts the session at fen. An error is
// returned if the position is invalid.
func FEN(fen string) (func(*Session), error) {
	if err := (ChessRules{}).Validate(fen); err != nil {
		return nil, err
	}
	return func(s *Session) { s.state = NewTreeState(fen) }, nil
}

// FromState returns a function that starts the session from a snapshot.
func FromState(st *TreeState) (func(*Session), error) {
	if err := st.validate(); err != nil {
		return nil, err
	}
	c := st.Clone()
	return func(s *Session) { s.state = c }, nil
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id.String()
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() *TreeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// mutate runs fn on a copy of the state and publishes it on success. A
// change to the game content is recorded for undo; a cursor move is not.
func (s *Session) mutate(op string, fn func(st *TreeState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.Clone()
	work.Dirty = false
	if err := fn(work); err != nil {
		s.log.Debugw("operation rejected", "op", op, zap.Error(err))
		return err
	}
	changed := work.Dirty
	work.Dirty = changed || s.state.Dirty
	if changed {
		s.history.record(s.state)
	}
	s.state = work
	s.log.Debugw("operation applied", "op", op, "position", work.Position, "changed", changed)
	return nil
}

func (s *Session) navigate(fn func(*TreeState) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// MakeMove plays spec from the cursor. Playing a move that already exists
// moves into it instead of adding a duplicate.
func (s *Session) MakeMove(spec MoveSpec, opts MoveOptions) error {
	return s.mutate("make_move", func(st *TreeState) error {
		_, err := st.makeMove(s.rules, spec, opts)
		return err
	})
}

// AppendMove plays spec at the end of the mainline without moving the cursor,
// recording the remaining clock time. It is how live games are followed.
func (s *Session) AppendMove(spec MoveSpec, clock *time.Duration) error {
	return s.MakeMove(spec, MoveOptions{Last: true, KeepPosition: true, Clock: clock})
}

// MakeMoves plays specs in sequence. Either all moves are played or, on the
// first failure, none are.
func (s *Session) MakeMoves(specs []MoveSpec, opts MoveOptions) error {
	return s.mutate("make_moves", func(st *TreeState) error {
		return st.makeMoves(s.rules, specs, opts)
	})
}

// DeleteMove removes the subtree at path.
func (s *Session) DeleteMove(path Position) error {
	return s.mutate("delete_move", func(st *TreeState) error {
		return st.deleteMove(path)
	})
}

// PromoteVariation makes the deepest variation on path the main line of its
// branch point and returns the node's new address.
func (s *Session) PromoteVariation(path Position) (Position, error) {
	var promoted Position
	err := s.mutate("promote_variation", func(st *TreeState) error {
		var err error
		promoted, err = st.promoteVariation(path)
		return err
	})
	return promoted, err
}

// PromoteToMainline promotes until the node at path is on the mainline and
// returns its new address.
func (s *Session) PromoteToMainline(path Position) (Position, error) {
	var promoted Position
	err := s.mutate("promote_to_mainline", func(st *TreeState) error {
		var err error
		promoted, err = st.promoteToMainline(path)
		return err
	})
	return promoted, err
}

// SetAnnotation toggles a on the current node. Adding it removes any other
// annotation of the same group.
func (s *Session) SetAnnotation(a Annotation) error {
	return s.mutate("set_annotation", func(st *TreeState) error {
		return st.setAnnotation(a)
	})
}

// ClearAnnotations removes every annotation of the current node.
func (s *Session) ClearAnnotations() error {
	return s.mutate("clear_annotations", func(st *TreeState) error {
		st.clearAnnotations()
		return nil
	})
}

// SetHeaders replaces the headers. A different FEN starts a new tree.
func (s *Session) SetHeaders(h GameHeaders) error {
	return s.mutate("set_headers", func(st *TreeState) error {
		return st.setHeaders(s.rules, h)
	})
}

// SetFen replaces the starting position. The cursor must be at the root.
func (s *Session) SetFen(fen string) error {
	return s.mutate("set_fen", func(st *TreeState) error {
		return st.setFen(s.rules, fen)
	})
}

// SetComment sets the comment of the current node.
func (s *Session) SetComment(text string) error {
	return s.mutate("set_comment", func(st *TreeState) error {
		st.setComment(text)
		return nil
	})
}

// SetShapes toggles shapes on the current node; no shapes clears them all.
func (s *Session) SetShapes(shapes []Shape) error {
	return s.mutate("set_shapes", func(st *TreeState) error {
		st.setShapes(shapes)
		return nil
	})
}

// ClearShapes removes every shape from the current node.
func (s *Session) ClearShapes() error {
	return s.SetShapes(nil)
}

// SetScore sets or, with nil, clears the evaluation of the current node.
func (s *Session) SetScore(score *Score) error {
	return s.mutate("set_score", func(st *TreeState) error {
		st.setScore(score)
		return nil
	})
}

// SetClock sets or, with nil, clears the clock of the current node.
func (s *Session) SetClock(clock *time.Duration) error {
	return s.mutate("set_clock", func(st *TreeState) error {
		st.setClock(clock)
		return nil
	})
}

// AddAnalysis merges per-ply engine results into the mainline.
func (s *Session) AddAnalysis(results []PlyAnalysis) error {
	return s.mutate("add_analysis", func(st *TreeState) error {
		return st.addAnalysis(s.rules, s.classify, results)
	})
}

// DetectNovelty flags in results the first mainline move that lookup does
// not know. The session lock is not held while lookup runs.
func (s *Session) DetectNovelty(ctx context.Context, lookup ReferenceLookup, results []PlyAnalysis) error {
	root := s.Snapshot().Root
	if err := DetectNovelty(ctx, root, lookup, results); err != nil {
		s.log.Warnw("novelty detection failed", zap.Error(err))
		return err
	}
	return nil
}

// Undo restores the state before the last content change.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, err := s.history.back(s.state)
	if err != nil {
		return err
	}
	s.state = prev
	return nil
}

// Redo reapplies the last undone change.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.history.forward(s.state)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// Save encodes the state and marks it clean.
func (s *Session) Save() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.state.Clone()
	saved.Dirty = false
	data, err := MarshalState(saved)
	if err != nil {
		return nil, fmt.Errorf("gametree: encode state: %w", err)
	}
	s.state.Dirty = false
	return data, nil
}

// Load replaces the state with a snapshot written by Save.
func (s *Session) Load(data []byte) error {
	st, err := UnmarshalState(data)
	if err != nil {
		return err
	}
	return s.SetState(st)
}

// SetState replaces the whole state, for example when switching games. The
// undo history belongs to the previous game and is dropped.
func (s *Session) SetState(st *TreeState) error {
	if err := st.validate(); err != nil {
		return err
	}
	if err := s.rules.Validate(st.Root.FEN); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st.Clone()
	s.history.reset()
	s.log.Debugw("state replaced", "nodes", Stats(st.Root).Nodes)
	return nil
}

// Reset starts over at the standard starting position.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NewTreeState("")
	s.history.reset()
}

// PGN renders the game as PGN text.
func (s *Session) PGN() string {
	return s.Snapshot().PGN()
}

// Lines returns every line of the game as a separate variation-free state.
func (s *Session) Lines() []*TreeState {
	return s.Snapshot().Split()
}

// Next enters the mainline continuation of the cursor.
func (s *Session) Next() bool { return s.navigate((*TreeState).Next) }

// Previous goes back one ply.
func (s *Session) Previous() bool { return s.navigate((*TreeState).Previous) }

// Start jumps to the training start, or the root.
func (s *Session) Start() bool { return s.navigate((*TreeState).Start) }

// End jumps to the end of the mainline.
func (s *Session) End() bool { return s.navigate((*TreeState).End) }

func (s *Session) BranchStart() bool       { return s.navigate((*TreeState).BranchStart) }
func (s *Session) BranchEnd() bool         { return s.navigate((*TreeState).BranchEnd) }
func (s *Session) NextBranch() bool        { return s.navigate((*TreeState).NextBranch) }
func (s *Session) PreviousBranch() bool    { return s.navigate((*TreeState).PreviousBranch) }
func (s *Session) NextBranching() bool     { return s.navigate((*TreeState).NextBranching) }
func (s *Session) PreviousBranching() bool { return s.navigate((*TreeState).PreviousBranching) }

// GoTo moves the cursor to pos.
func (s *Session) GoTo(pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GoTo(pos)
}

// GoToAnnotation moves to the next move by color carrying a.
func (s *Session) GoToAnnotation(a Annotation, color Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GoToAnnotation(a, color)
}
