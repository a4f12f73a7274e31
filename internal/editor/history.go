package editor

const DefaultHistoryLimit = 200

// Entry pairs a committed op with the op that reverts it.
type Entry struct {
	Forward Op
	Inverse Op
}

// History keeps linear undo/redo stacks of op descriptors. The undo side is
// bounded; the oldest entry is evicted first.
type History struct {
	limit int
	undo  []Entry
	redo  []Entry
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit, undo: make([]Entry, 0, min(limit, 64))}
}

func (h *History) Limit() int { return h.limit }

// Record pushes a freshly committed entry and discards the redo branch.
func (h *History) Record(e Entry) {
	h.pushUndo(e)
	h.redo = h.redo[:0]
}

func (h *History) pushUndo(e Entry) {
	h.undo = append(h.undo, e)
	if len(h.undo) > h.limit {
		n := copy(h.undo, h.undo[len(h.undo)-h.limit:])
		clear(h.undo[n:])
		h.undo = h.undo[:n]
	}
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }

func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) UndoDepth() int { return len(h.undo) }

func (h *History) RedoDepth() int { return len(h.redo) }

func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

// Undo replays the newest inverse against s without recording it. The
// stacks are untouched when the replay fails.
func (h *History) Undo(s *Store) (Entry, error) {
	if len(h.undo) == 0 {
		return Entry{}, ErrNothingToUndo
	}
	e := h.undo[len(h.undo)-1]
	if _, err := e.Inverse.Apply(s); err != nil {
		return Entry{}, err
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	return e, nil
}

func (h *History) Redo(s *Store) (Entry, error) {
	if len(h.redo) == 0 {
		return Entry{}, ErrNothingToRedo
	}
	e := h.redo[len(h.redo)-1]
	if _, err := e.Forward.Apply(s); err != nil {
		return Entry{}, err
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.pushUndo(e)
	return e, nil
}
