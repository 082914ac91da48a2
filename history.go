package gametree

// history keeps the snapshots before each content change. Snapshots are
// never mutated after they are pushed.
type history struct {
	undo  []*TreeState
	redo  []*TreeState
	limit int
}

// record stores prev as the state to return to, dropping the oldest entry
// past the limit. Any redo line is discarded.
func (h *history) record(prev *TreeState) {
	if h.limit == 0 {
		return
	}
	h.undo = append(h.undo, prev)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

func (h *history) back(current *TreeState) (*TreeState, error) {
	if len(h.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, nil
}

func (h *history) forward(current *TreeState) (*TreeState, error) {
	if len(h.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, nil
}

func (h *history) reset() {
	h.undo = nil
	h.redo = nil
}
