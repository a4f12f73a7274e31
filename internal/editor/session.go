package editor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"richdoc/pkg/richdoc"
)

// Session ties a store to its selection and undo history. Commands, undo and
// redo all go through it so every committed change is recorded exactly once.
type Session struct {
	store *Store
	sel   Selection
	hist  *History
	log   *zap.Logger
}

type SessionOption func(*Session)

func WithHistoryLimit(limit int) SessionOption {
	return func(s *Session) { s.hist = NewHistory(limit) }
}

func WithLogger(log *zap.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

func NewSession(doc *richdoc.Document, opts ...SessionOption) *Session {
	s := &Session{
		store: NewStore(doc),
		hist:  NewHistory(DefaultHistoryLimit),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CommitResult describes the outcome of one command, undo or redo.
type CommitResult struct {
	Selection Selection
	Inverse   Op
	Changed   bool
	Metrics   Metrics
}

// Execute runs cmd against sel. Commands that change nothing leave the
// history alone and report Changed == false.
func (s *Session) Execute(cmd Command, sel Selection) (CommitResult, error) {
	if !sel.Within(s.store.Len()) {
		err := fmt.Errorf("%w: selection %d..%d, length %d", ErrRangeOutOfBounds, sel.Anchor, sel.Focus, s.store.Len())
		s.log.Warn("selection rejected",
			zap.String("command", cmd.Name()),
			zap.Int("anchor", sel.Anchor),
			zap.Int("focus", sel.Focus),
			zap.Int("length", s.store.Len()))
		return CommitResult{}, err
	}
	op, err := cmd.Plan(s.store, sel)
	if err != nil {
		s.log.Warn("command rejected", zap.String("command", cmd.Name()), zap.Error(err))
		return CommitResult{}, err
	}
	s.sel = sel
	if op == nil {
		s.log.Debug("command had no effect", zap.String("command", cmd.Name()))
		return s.result(nil, false), nil
	}
	inv, err := op.Apply(s.store)
	if err != nil {
		s.log.Error("command failed", zap.String("command", cmd.Name()), zap.Error(err))
		return CommitResult{}, err
	}
	s.hist.Record(Entry{Forward: op, Inverse: inv})
	s.sel = op.Selection(sel).Clamp(s.store.Len())
	s.log.Debug("command committed",
		zap.String("command", cmd.Name()),
		zap.Stringer("op", opStringer{op}),
		zap.Int("undo_depth", s.hist.UndoDepth()))
	return s.result(inv, true), nil
}

// Undo reverts the most recent entry. With nothing to undo it returns
// ErrNothingToUndo and changes nothing.
func (s *Session) Undo() (CommitResult, error) {
	e, err := s.hist.Undo(s.store)
	if err != nil {
		if !errors.Is(err, ErrNothingToUndo) {
			s.log.Error("undo failed", zap.Error(err))
		}
		return CommitResult{}, err
	}
	s.sel = e.Inverse.Selection(s.sel).Clamp(s.store.Len())
	s.log.Debug("undo", zap.Stringer("op", opStringer{e.Inverse}), zap.Int("redo_depth", s.hist.RedoDepth()))
	return s.result(e.Forward, true), nil
}

func (s *Session) Redo() (CommitResult, error) {
	e, err := s.hist.Redo(s.store)
	if err != nil {
		if !errors.Is(err, ErrNothingToRedo) {
			s.log.Error("redo failed", zap.Error(err))
		}
		return CommitResult{}, err
	}
	s.sel = e.Forward.Selection(s.sel).Clamp(s.store.Len())
	s.log.Debug("redo", zap.Stringer("op", opStringer{e.Forward}), zap.Int("undo_depth", s.hist.UndoDepth()))
	return s.result(e.Inverse, true), nil
}

func (s *Session) result(inv Op, changed bool) CommitResult {
	return CommitResult{
		Selection: s.sel,
		Inverse:   inv,
		Changed:   changed,
		Metrics:   s.Metrics(),
	}
}

func (s *Session) Metrics() Metrics { return ComputeMetrics(s.store.PlainText()) }

func (s *Session) PlainText() string { return s.store.PlainText() }

func (s *Session) Len() int { return s.store.Len() }

// Document returns a copy of the current document.
func (s *Session) Document() *richdoc.Document { return s.store.Snapshot() }

func (s *Session) Store() *Store { return s.store }

func (s *Session) Selection() Selection { return s.sel }

func (s *Session) SetSelection(sel Selection) error {
	if !sel.Within(s.store.Len()) {
		return fmt.Errorf("%w: selection %d..%d, length %d", ErrRangeOutOfBounds, sel.Anchor, sel.Focus, s.store.Len())
	}
	s.sel = sel
	return nil
}

func (s *Session) Title() string { return s.store.Title() }

// SetTitle renames the document. Titles are not part of the undo history.
func (s *Session) SetTitle(title string) { s.store.SetTitle(title) }

// Replace swaps in a new document, as after a load. History and selection
// are reset.
func (s *Session) Replace(doc *richdoc.Document) {
	s.store = NewStore(doc)
	s.sel = Caret(0)
	s.hist.Clear()
}

func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

func (s *Session) UndoDepth() int { return s.hist.UndoDepth() }

func (s *Session) RedoDepth() int { return s.hist.RedoDepth() }

type opStringer struct{ op Op }

func (o opStringer) String() string {
	if st, ok := o.op.(fmt.Stringer); ok {
		return st.String()
	}
	return fmt.Sprintf("%T", o.op)
}
