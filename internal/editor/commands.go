package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"richdoc/pkg/richdoc"
)

// Command turns a selection into the op that carries it out. A nil op with a
// nil error means the command has nothing to do.
type Command interface {
	Name() string
	Plan(s *Store, sel Selection) (Op, error)
}

type ToggleBold struct{}

func (ToggleBold) Name() string { return "bold" }

func (ToggleBold) Plan(s *Store, sel Selection) (Op, error) {
	return planToggle(s, sel,
		func(st richdoc.StyleSet) bool { return st.Bold },
		func(v bool) StyleDelta { return StyleDelta{Bold: &v} })
}

type ToggleItalic struct{}

func (ToggleItalic) Name() string { return "italic" }

func (ToggleItalic) Plan(s *Store, sel Selection) (Op, error) {
	return planToggle(s, sel,
		func(st richdoc.StyleSet) bool { return st.Italic },
		func(v bool) StyleDelta { return StyleDelta{Italic: &v} })
}

type ToggleUnderline struct{}

func (ToggleUnderline) Name() string { return "underline" }

func (ToggleUnderline) Plan(s *Store, sel Selection) (Op, error) {
	return planToggle(s, sel,
		func(st richdoc.StyleSet) bool { return st.Underline },
		func(v bool) StyleDelta { return StyleDelta{Underline: &v} })
}

// planToggle clears the attribute when every character in the selection
// already carries it and sets it everywhere otherwise.
func planToggle(s *Store, sel Selection, has func(richdoc.StyleSet) bool, delta func(bool) StyleDelta) (Op, error) {
	r := sel.Range()
	spans, err := s.StylesIn(r)
	if err != nil || len(spans) == 0 {
		return nil, err
	}
	all := true
	for _, sp := range spans {
		if !has(sp.Style) {
			all = false
			break
		}
	}
	return StyleOp{Range: r, Delta: delta(!all)}, nil
}

type SetFontFamily struct {
	Family string
}

func (SetFontFamily) Name() string { return "font" }

func (c SetFontFamily) Plan(s *Store, sel Selection) (Op, error) {
	family := c.Family
	return planStyle(s, sel, StyleDelta{FontFamily: &family})
}

type SetFontSize struct {
	Pt int
}

func (SetFontSize) Name() string { return "size" }

func (c SetFontSize) Plan(s *Store, sel Selection) (Op, error) {
	pt := c.Pt
	return planStyle(s, sel, StyleDelta{FontSizePt: &pt})
}

// GrowFont shifts every run's size by Step points; negative steps shrink.
type GrowFont struct {
	Step int
}

func (GrowFont) Name() string { return "grow" }

func (c GrowFont) Plan(s *Store, sel Selection) (Op, error) {
	if c.Step == 0 {
		return nil, fmt.Errorf("%w: font size step must be non-zero", ErrInvalidStyleValue)
	}
	return planStyle(s, sel, StyleDelta{FontSizeStep: c.Step})
}

func planStyle(s *Store, sel Selection, d StyleDelta) (Op, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	r := sel.Range()
	spans, err := s.StylesIn(r)
	if err != nil {
		return nil, err
	}
	for _, sp := range spans {
		if d.Apply(sp.Style) != sp.Style {
			return StyleOp{Range: r, Delta: d}, nil
		}
	}
	return nil, nil
}

type SetAlignment struct {
	Align richdoc.Align
}

func (SetAlignment) Name() string { return "align" }

func (c SetAlignment) Plan(s *Store, sel Selection) (Op, error) {
	if !c.Align.Valid() {
		return nil, fmt.Errorf("%w: alignment %d", ErrInvalidStyleValue, c.Align)
	}
	return planParagraphs(s, sel, func(a *ParagraphAttrs) { a.Align = c.Align })
}

type SetListKind struct {
	Kind richdoc.ListKind
}

func (SetListKind) Name() string { return "list" }

func (c SetListKind) Plan(s *Store, sel Selection) (Op, error) {
	if !c.Kind.Valid() {
		return nil, fmt.Errorf("%w: list kind %d", ErrInvalidStyleValue, c.Kind)
	}
	return planParagraphs(s, sel, func(a *ParagraphAttrs) { a.ListKind = c.Kind })
}

// ToggleList converts the touched paragraphs to Kind, or back to plain
// paragraphs when all of them already are.
type ToggleList struct {
	Kind richdoc.ListKind
}

func (ToggleList) Name() string { return "toggle-list" }

func (c ToggleList) Plan(s *Store, sel Selection) (Op, error) {
	if !c.Kind.Valid() || c.Kind == richdoc.ListNone {
		return nil, fmt.Errorf("%w: list kind %d", ErrInvalidStyleValue, c.Kind)
	}
	r := sel.Range()
	if err := s.checkRange(r); err != nil {
		return nil, err
	}
	target := richdoc.ListNone
	first, last := s.Touched(r)
	for i := first; i <= last; i++ {
		if s.doc.Paragraphs[i].ListKind != c.Kind {
			target = c.Kind
			break
		}
	}
	return planParagraphs(s, sel, func(a *ParagraphAttrs) { a.ListKind = target })
}

func planParagraphs(s *Store, sel Selection, set func(*ParagraphAttrs)) (Op, error) {
	r := sel.Range()
	if err := s.checkRange(r); err != nil {
		return nil, err
	}
	first, last := s.Touched(r)
	var attrs []ParagraphAttrs
	for i := first; i <= last; i++ {
		p := s.doc.Paragraphs[i]
		cur := ParagraphAttrs{Index: i, Align: p.Align, ListKind: p.ListKind}
		next := cur
		set(&next)
		if next != cur {
			attrs = append(attrs, next)
		}
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	return ParagraphOp{Attrs: attrs}, nil
}

// InsertText types Text at the caret, replacing the selection if there is
// one. Replaced text hands its first character's style to the new text.
type InsertText struct {
	Text string
}

func (InsertText) Name() string { return "insert" }

func (c InsertText) Plan(s *Store, sel Selection) (Op, error) {
	text := strings.ReplaceAll(c.Text, "\r\n", "\n")
	if !utf8.ValidString(text) {
		return nil, ErrInvalidText
	}
	r := sel.Range()
	if err := s.checkRange(r); err != nil {
		return nil, err
	}

	var ops BatchOp
	pi, at := s.locate(r.Start)
	p := s.doc.Paragraphs[pi]
	style := styleBefore(p, at)
	if !r.Empty() {
		style = styleAt(p, at)
		ops = append(ops, DeleteOp{Range: r})
	}
	if text != "" {
		ops = append(ops, InsertOp{At: r.Start, Fragment: textFragment(text, style, p.Align, p.ListKind)})
	}
	switch len(ops) {
	case 0:
		return nil, nil
	case 1:
		return ops[0], nil
	}
	return ops, nil
}

type DeleteSelection struct{}

func (DeleteSelection) Name() string { return "delete" }

func (DeleteSelection) Plan(s *Store, sel Selection) (Op, error) {
	r := sel.Range()
	if err := s.checkRange(r); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, nil
	}
	return DeleteOp{Range: r}, nil
}

// Backspace deletes the selection, or the character before the caret.
type Backspace struct{}

func (Backspace) Name() string { return "backspace" }

func (Backspace) Plan(s *Store, sel Selection) (Op, error) {
	r := sel.Range()
	if err := s.checkRange(r); err != nil {
		return nil, err
	}
	if !r.Empty() {
		return DeleteOp{Range: r}, nil
	}
	if r.Start == 0 {
		return nil, nil
	}
	return DeleteOp{Range: Range{Start: r.Start - 1, End: r.Start}}, nil
}

// DeleteForward deletes the selection, or the character after the caret.
type DeleteForward struct{}

func (DeleteForward) Name() string { return "forward" }

func (DeleteForward) Plan(s *Store, sel Selection) (Op, error) {
	r := sel.Range()
	if err := s.checkRange(r); err != nil {
		return nil, err
	}
	if !r.Empty() {
		return DeleteOp{Range: r}, nil
	}
	if r.End >= s.Len() {
		return nil, nil
	}
	return DeleteOp{Range: Range{Start: r.Start, End: r.Start + 1}}, nil
}
