package editor

import (
	"fmt"
	"strings"
)

// Op is a replayable store mutation. Apply returns the op that undoes it;
// Selection reports the selection implied after applying it.
type Op interface {
	Apply(s *Store) (Op, error)
	Selection(prev Selection) Selection
}

type InsertOp struct {
	At       int
	Fragment Fragment
}

func (o InsertOp) Apply(s *Store) (Op, error) {
	if err := s.InsertFragment(o.At, o.Fragment); err != nil {
		return nil, err
	}
	return DeleteOp{Range: Range{Start: o.At, End: o.At + o.Fragment.Len()}}, nil
}

func (o InsertOp) Selection(Selection) Selection {
	return Caret(o.At + o.Fragment.Len())
}

func (o InsertOp) String() string {
	return fmt.Sprintf("insert %q at %d", o.Fragment.Text(), o.At)
}

type DeleteOp struct {
	Range Range
}

func (o DeleteOp) Apply(s *Store) (Op, error) {
	frag, err := s.DeleteRange(o.Range)
	if err != nil {
		return nil, err
	}
	return InsertOp{At: o.Range.Start, Fragment: frag}, nil
}

func (o DeleteOp) Selection(Selection) Selection {
	return Caret(o.Range.Start)
}

func (o DeleteOp) String() string { return "delete " + o.Range.String() }

type StyleOp struct {
	Range Range
	Delta StyleDelta
}

func (o StyleOp) Apply(s *Store) (Op, error) {
	prior, err := s.ApplyStyle(o.Range, o.Delta)
	if err != nil {
		return nil, err
	}
	return RestyleOp{Spans: prior}, nil
}

func (o StyleOp) Selection(prev Selection) Selection { return prev }

func (o StyleOp) String() string { return fmt.Sprintf("style %s %s", o.Range, o.Delta) }

// RestyleOp puts back exact per-span styles.
type RestyleOp struct {
	Spans []StyleSpan
}

func (o RestyleOp) Apply(s *Store) (Op, error) {
	prior, err := s.RestoreStyles(o.Spans)
	if err != nil {
		return nil, err
	}
	return RestyleOp{Spans: prior}, nil
}

func (o RestyleOp) Selection(prev Selection) Selection { return prev }

func (o RestyleOp) String() string { return fmt.Sprintf("restyle %d spans", len(o.Spans)) }

type ParagraphOp struct {
	Attrs []ParagraphAttrs
}

func (o ParagraphOp) Apply(s *Store) (Op, error) {
	prior, err := s.SetParagraphAttrs(o.Attrs)
	if err != nil {
		return nil, err
	}
	return ParagraphOp{Attrs: prior}, nil
}

func (o ParagraphOp) Selection(prev Selection) Selection { return prev }

func (o ParagraphOp) String() string { return fmt.Sprintf("paragraph attrs on %d paragraphs", len(o.Attrs)) }

// BatchOp applies its ops in order as one step. If one fails, the ones
// already applied are rolled back.
type BatchOp []Op

func (b BatchOp) Apply(s *Store) (Op, error) {
	inverses := make([]Op, 0, len(b))
	for _, op := range b {
		inv, err := op.Apply(s)
		if err != nil {
			for i := len(inverses) - 1; i >= 0; i-- {
				_, _ = inverses[i].Apply(s)
			}
			return nil, err
		}
		inverses = append(inverses, inv)
	}
	out := make(BatchOp, len(inverses))
	for i, inv := range inverses {
		out[len(inverses)-1-i] = inv
	}
	return out, nil
}

func (b BatchOp) Selection(prev Selection) Selection {
	for _, op := range b {
		prev = op.Selection(prev)
	}
	return prev
}

func (b BatchOp) String() string {
	parts := make([]string, len(b))
	for i, op := range b {
		parts[i] = fmt.Sprint(op)
	}
	return strings.Join(parts, "; ")
}
