package gametree

import "errors"

// Addressing errors
var (
	// ErrOutOfRange indicates that a position references a node that does not exist.
	ErrOutOfRange = errors.New("gametree: position out of range")

	// ErrNotAtRoot indicates that an operation is only valid with the cursor at the root.
	ErrNotAtRoot = errors.New("gametree: cursor is not at the root")
)

// Input errors
var (
	// ErrIllegalMove indicates an unparsable or illegal move for the target position.
	ErrIllegalMove = errors.New("gametree: illegal move")

	// ErrInvalidFEN indicates a position string the rules library rejects.
	ErrInvalidFEN = errors.New("gametree: invalid FEN")

	// ErrUnknownAnnotation indicates a symbol outside the annotation table.
	ErrUnknownAnnotation = errors.New("gametree: unknown annotation")
)

// Search errors
var (
	// ErrAnnotationNotFound indicates that no node carries the requested annotation
	// for the requested side.
	ErrAnnotationNotFound = errors.New("gametree: annotation not found")
)

// History errors
var (
	ErrNothingToUndo = errors.New("gametree: nothing to undo")
	ErrNothingToRedo = errors.New("gametree: nothing to redo")
)

// Snapshot errors
var (
	// ErrInvalidState indicates a snapshot that violates a tree invariant.
	ErrInvalidState = errors.New("gametree: invalid state")
)
