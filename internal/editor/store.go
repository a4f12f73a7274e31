package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"richdoc/pkg/richdoc"
)

// Range is a half-open character range over the document plain text.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int { return r.End - r.Start }

func (r Range) Empty() bool { return r.Start >= r.End }

func (r Range) String() string { return fmt.Sprintf("%d..%d", r.Start, r.End) }

// StyleSpan records the style of an intra-paragraph character range. Spans
// over an empty paragraph have Start == End == 0.
type StyleSpan struct {
	Paragraph int
	Start     int
	End       int
	Style     richdoc.StyleSet
}

type ParagraphAttrs struct {
	Index    int
	Align    richdoc.Align
	ListKind richdoc.ListKind
}

// Fragment is a slice of document content: one piece per paragraph touched,
// so len(f)-1 paragraph breaks. Pieces that stand for a whole empty
// paragraph carry its single empty run.
type Fragment []richdoc.Paragraph

func (f Fragment) Len() int {
	if len(f) == 0 {
		return 0
	}
	n := len(f) - 1
	for _, p := range f {
		n += p.Len()
	}
	return n
}

func (f Fragment) Text() string {
	parts := make([]string, len(f))
	for i, p := range f {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// Store holds the paragraphs of one document and keeps them in canonical
// form across every mutation.
type Store struct {
	doc *richdoc.Document
}

func NewStore(doc *richdoc.Document) *Store {
	if doc == nil {
		doc = richdoc.NewDocument("")
	}
	s := &Store{doc: doc}
	s.normalize()
	return s
}

func (s *Store) normalize() {
	if len(s.doc.Paragraphs) == 0 {
		s.doc.Paragraphs = append(s.doc.Paragraphs, richdoc.EmptyParagraph(richdoc.DefaultStyle()))
	}
	for i := range s.doc.Paragraphs {
		p := &s.doc.Paragraphs[i]
		p.Runs = richdoc.Canonicalize(p.Runs, richdoc.DefaultStyle())
	}
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *richdoc.Document {
	return richdoc.CloneDocument(s.doc)
}

func (s *Store) Title() string { return s.doc.Title }

func (s *Store) SetTitle(title string) { s.doc.Title = title }

func (s *Store) Len() int { return s.doc.Len() }

func (s *Store) PlainText() string { return s.doc.PlainText() }

func (s *Store) ParagraphCount() int { return len(s.doc.Paragraphs) }

func (s *Store) Paragraph(i int) richdoc.Paragraph {
	return s.doc.Paragraphs[i].Clone()
}

func (s *Store) paragraphStart(index int) int {
	off := 0
	for i := 0; i < index; i++ {
		off += s.doc.Paragraphs[i].Len() + 1
	}
	return off
}

// locate maps a document offset to a paragraph and an intra-paragraph offset.
// An offset equal to a paragraph's end belongs to that paragraph.
func (s *Store) locate(offset int) (int, int) {
	start := 0
	for i, p := range s.doc.Paragraphs {
		n := p.Len()
		if offset <= start+n {
			return i, offset - start
		}
		start += n + 1
	}
	last := len(s.doc.Paragraphs) - 1
	return last, s.doc.Paragraphs[last].Len()
}

func (s *Store) checkRange(r Range) error {
	if r.Start < 0 || r.End < r.Start || r.End > s.Len() {
		return fmt.Errorf("%w: range %s, length %d", ErrRangeOutOfBounds, r, s.Len())
	}
	return nil
}

func (s *Store) checkOffset(offset int) error {
	if offset < 0 || offset > s.Len() {
		return fmt.Errorf("%w: offset %d, length %d", ErrRangeOutOfBounds, offset, s.Len())
	}
	return nil
}

// Touched returns the first and last paragraph intersecting r. A collapsed
// range touches the paragraph containing it.
func (s *Store) Touched(r Range) (int, int) {
	first, _ := s.locate(r.Start)
	if r.Empty() {
		return first, first
	}
	last, intra := s.locate(r.End)
	if intra == 0 && last > first {
		last--
	}
	return first, last
}

// StylesIn reports the styles covering r without mutating anything. Empty
// paragraphs inside r contribute their empty-run style.
func (s *Store) StylesIn(r Range) ([]StyleSpan, error) {
	if err := s.checkRange(r); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, nil
	}
	var spans []StyleSpan
	first, last := s.Touched(r)
	start := s.paragraphStart(first)
	for i := first; i <= last; i++ {
		p := s.doc.Paragraphs[i]
		n := p.Len()
		from, to := clamp(r.Start-start, 0, n), clamp(r.End-start, 0, n)
		start += n + 1
		if n == 0 {
			spans = append(spans, StyleSpan{Paragraph: i, Style: p.Runs[0].Style})
			continue
		}
		if from >= to {
			continue
		}
		pos := 0
		for _, run := range p.Runs {
			rs, re := pos, pos+utf8.RuneCountInString(run.Text)
			pos = re
			if re <= from || rs >= to {
				continue
			}
			spans = append(spans, StyleSpan{Paragraph: i, Start: max(rs, from), End: min(re, to), Style: run.Style})
		}
	}
	return spans, nil
}

// ApplyStyle applies d to every character in r and returns the prior styles
// of the affected spans.
func (s *Store) ApplyStyle(r Range, d StyleDelta) ([]StyleSpan, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	prior, err := s.StylesIn(r)
	if err != nil {
		return nil, err
	}
	for _, sp := range prior {
		p := &s.doc.Paragraphs[sp.Paragraph]
		p.Runs = restyle(p.Runs, sp.Start, sp.End, d.Apply)
	}
	s.canonicalizeSpans(prior)
	return prior, nil
}

// RestoreStyles sets the exact styles recorded in spans and returns the
// styles they replaced.
func (s *Store) RestoreStyles(spans []StyleSpan) ([]StyleSpan, error) {
	for _, sp := range spans {
		if sp.Paragraph < 0 || sp.Paragraph >= len(s.doc.Paragraphs) {
			return nil, fmt.Errorf("%w: paragraph %d", ErrRangeOutOfBounds, sp.Paragraph)
		}
		if n := s.doc.Paragraphs[sp.Paragraph].Len(); sp.Start < 0 || sp.End < sp.Start || sp.End > n {
			return nil, fmt.Errorf("%w: span %d..%d in paragraph %d of length %d", ErrRangeOutOfBounds, sp.Start, sp.End, sp.Paragraph, n)
		}
		if err := richdoc.ValidateStyle(sp.Style); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStyleValue, err)
		}
	}
	prior := make([]StyleSpan, 0, len(spans))
	for _, sp := range spans {
		prior = append(prior, s.spanStyles(sp)...)
	}
	for _, sp := range spans {
		style := sp.Style
		p := &s.doc.Paragraphs[sp.Paragraph]
		p.Runs = restyle(p.Runs, sp.Start, sp.End, func(richdoc.StyleSet) richdoc.StyleSet { return style })
	}
	s.canonicalizeSpans(spans)
	return prior, nil
}

func (s *Store) spanStyles(sp StyleSpan) []StyleSpan {
	p := s.doc.Paragraphs[sp.Paragraph]
	if p.Len() == 0 {
		return []StyleSpan{{Paragraph: sp.Paragraph, Style: p.Runs[0].Style}}
	}
	var out []StyleSpan
	pos := 0
	for _, run := range p.Runs {
		rs, re := pos, pos+utf8.RuneCountInString(run.Text)
		pos = re
		if re <= sp.Start || rs >= sp.End {
			continue
		}
		out = append(out, StyleSpan{Paragraph: sp.Paragraph, Start: max(rs, sp.Start), End: min(re, sp.End), Style: run.Style})
	}
	return out
}

func (s *Store) canonicalizeSpans(spans []StyleSpan) {
	seen := map[int]bool{}
	for _, sp := range spans {
		if seen[sp.Paragraph] {
			continue
		}
		seen[sp.Paragraph] = true
		p := &s.doc.Paragraphs[sp.Paragraph]
		p.Runs = richdoc.Canonicalize(p.Runs, styleAt(*p, 0))
	}
}

// SetParagraphAttrs applies paragraph-level attributes and returns the
// attributes they replaced.
func (s *Store) SetParagraphAttrs(attrs []ParagraphAttrs) ([]ParagraphAttrs, error) {
	for _, a := range attrs {
		if a.Index < 0 || a.Index >= len(s.doc.Paragraphs) {
			return nil, fmt.Errorf("%w: paragraph %d", ErrRangeOutOfBounds, a.Index)
		}
		if !a.Align.Valid() || !a.ListKind.Valid() {
			return nil, fmt.Errorf("%w: align %d, list kind %d", ErrInvalidStyleValue, a.Align, a.ListKind)
		}
	}
	prior := make([]ParagraphAttrs, 0, len(attrs))
	for _, a := range attrs {
		p := &s.doc.Paragraphs[a.Index]
		prior = append(prior, ParagraphAttrs{Index: a.Index, Align: p.Align, ListKind: p.ListKind})
		p.Align = a.Align
		p.ListKind = a.ListKind
	}
	return prior, nil
}

// InsertText inserts text at offset. Each '\n' starts a new paragraph that
// inherits the attributes of the paragraph being split.
func (s *Store) InsertText(offset int, text string) error {
	if err := s.checkOffset(offset); err != nil {
		return err
	}
	if !utf8.ValidString(text) {
		return ErrInvalidText
	}
	pi, at := s.locate(offset)
	p := s.doc.Paragraphs[pi]
	return s.InsertFragment(offset, textFragment(text, styleBefore(p, at), p.Align, p.ListKind))
}

func (s *Store) InsertFragment(offset int, frag Fragment) error {
	if err := s.checkOffset(offset); err != nil {
		return err
	}
	if len(frag) == 0 {
		return nil
	}
	pi, at := s.locate(offset)
	p := s.doc.Paragraphs[pi]
	fallback := styleBefore(p, at)
	head, tail := splitRuns(p.Runs, at)

	if len(frag) == 1 {
		p.Runs = richdoc.Canonicalize(concatRuns(head, frag[0].Runs, tail), fallback)
		s.doc.Paragraphs[pi] = p
		return nil
	}

	out := make([]richdoc.Paragraph, 0, len(frag))
	first := p
	first.Runs = richdoc.Canonicalize(concatRuns(head, frag[0].Runs), fallback)
	out = append(out, first)
	for _, mid := range frag[1 : len(frag)-1] {
		out = append(out, richdoc.Paragraph{
			Runs:     richdoc.Canonicalize(concatRuns(mid.Runs), fallback),
			Align:    mid.Align,
			ListKind: mid.ListKind,
		})
	}
	last := frag[len(frag)-1]
	out = append(out, richdoc.Paragraph{
		Runs:     richdoc.Canonicalize(concatRuns(last.Runs, tail), fallback),
		Align:    last.Align,
		ListKind: last.ListKind,
	})

	paras := make([]richdoc.Paragraph, 0, len(s.doc.Paragraphs)+len(out)-1)
	paras = append(paras, s.doc.Paragraphs[:pi]...)
	paras = append(paras, out...)
	paras = append(paras, s.doc.Paragraphs[pi+1:]...)
	s.doc.Paragraphs = paras
	return nil
}

// DeleteRange removes r and returns the removed content. Paragraphs merged by
// the deletion keep the attributes of the first one; re-inserting the
// returned fragment at r.Start restores the prior structure.
func (s *Store) DeleteRange(r Range) (Fragment, error) {
	if err := s.checkRange(r); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, nil
	}
	fp, a := s.locate(r.Start)
	lp, b := s.locate(r.End)
	first := s.doc.Paragraphs[fp]
	last := s.doc.Paragraphs[lp]

	frag := make(Fragment, 0, lp-fp+1)
	if fp == lp {
		frag = append(frag, piece(first, a, b))
	} else {
		frag = append(frag, piece(first, a, first.Len()))
		for i := fp + 1; i < lp; i++ {
			frag = append(frag, s.doc.Paragraphs[i].Clone())
		}
		frag = append(frag, piece(last, 0, b))
	}

	fallback := styleAt(first, a)
	merged := first
	merged.Runs = richdoc.Canonicalize(concatRuns(clipRuns(first.Runs, 0, a), clipRuns(last.Runs, b, last.Len())), fallback)

	paras := make([]richdoc.Paragraph, 0, len(s.doc.Paragraphs)-(lp-fp))
	paras = append(paras, s.doc.Paragraphs[:fp]...)
	paras = append(paras, merged)
	paras = append(paras, s.doc.Paragraphs[lp+1:]...)
	s.doc.Paragraphs = paras
	return frag, nil
}

func (s *Store) SplitParagraph(offset int) error {
	return s.InsertText(offset, "\n")
}

// MergeParagraph joins paragraph index with the one after it.
func (s *Store) MergeParagraph(index int) error {
	if index < 0 || index >= len(s.doc.Paragraphs)-1 {
		return fmt.Errorf("%w: cannot merge paragraph %d of %d", ErrRangeOutOfBounds, index, len(s.doc.Paragraphs))
	}
	brk := s.paragraphStart(index) + s.doc.Paragraphs[index].Len()
	_, err := s.DeleteRange(Range{Start: brk, End: brk + 1})
	return err
}

// StyleAt reports the style a character typed at offset would take.
func (s *Store) StyleAt(offset int) richdoc.StyleSet {
	pi, at := s.locate(clamp(offset, 0, s.Len()))
	return styleBefore(s.doc.Paragraphs[pi], at)
}

func textFragment(text string, style richdoc.StyleSet, align richdoc.Align, list richdoc.ListKind) Fragment {
	lines := strings.Split(text, "\n")
	frag := make(Fragment, len(lines))
	for i, line := range lines {
		frag[i] = richdoc.Paragraph{
			Runs:     []richdoc.TextRun{{Text: line, Style: style}},
			Align:    align,
			ListKind: list,
		}
	}
	return frag
}

func piece(p richdoc.Paragraph, from, to int) richdoc.Paragraph {
	if p.Len() == 0 {
		return p.Clone()
	}
	return richdoc.Paragraph{Runs: clipRuns(p.Runs, from, to), Align: p.Align, ListKind: p.ListKind}
}

// styleBefore is the style of the character preceding at, falling back to
// the first character or the empty run at the start of a paragraph.
func styleBefore(p richdoc.Paragraph, at int) richdoc.StyleSet {
	if at > 0 {
		return styleAt(p, at-1)
	}
	if len(p.Runs) == 0 {
		return richdoc.DefaultStyle()
	}
	return p.Runs[0].Style
}

func styleAt(p richdoc.Paragraph, at int) richdoc.StyleSet {
	if len(p.Runs) == 0 {
		return richdoc.DefaultStyle()
	}
	pos := 0
	for _, r := range p.Runs {
		pos += utf8.RuneCountInString(r.Text)
		if at < pos {
			return r.Style
		}
	}
	return p.Runs[len(p.Runs)-1].Style
}

// splitRuns cuts runs at character offset at. Zero-length runs stay on the
// left.
func splitRuns(runs []richdoc.TextRun, at int) ([]richdoc.TextRun, []richdoc.TextRun) {
	var left, right []richdoc.TextRun
	pos := 0
	for _, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		switch {
		case pos+n <= at:
			left = append(left, r)
		case pos >= at:
			right = append(right, r)
		default:
			l, rest := splitRunes(r.Text, at-pos)
			left = append(left, richdoc.TextRun{Text: l, Style: r.Style})
			right = append(right, richdoc.TextRun{Text: rest, Style: r.Style})
		}
		pos += n
	}
	return left, right
}

func clipRuns(runs []richdoc.TextRun, from, to int) []richdoc.TextRun {
	if from >= to {
		return nil
	}
	var out []richdoc.TextRun
	pos := 0
	for _, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		rs, re := pos, pos+n
		pos = re
		if re <= from || rs >= to || n == 0 {
			continue
		}
		text := r.Text
		if rs < from || re > to {
			text = sliceRunes(text, max(rs, from)-rs, min(re, to)-rs)
		}
		out = append(out, richdoc.TextRun{Text: text, Style: r.Style})
	}
	return out
}

// restyle rewrites the style of characters [from, to) through fn. The empty
// run of an empty paragraph is always rewritten.
func restyle(runs []richdoc.TextRun, from, to int, fn func(richdoc.StyleSet) richdoc.StyleSet) []richdoc.TextRun {
	out := make([]richdoc.TextRun, 0, len(runs)+2)
	pos := 0
	for _, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		rs, re := pos, pos+n
		pos = re
		if n == 0 {
			out = append(out, richdoc.TextRun{Style: fn(r.Style)})
			continue
		}
		if re <= from || rs >= to {
			out = append(out, r)
			continue
		}
		lo, hi := max(rs, from)-rs, min(re, to)-rs
		if lo > 0 {
			out = append(out, richdoc.TextRun{Text: sliceRunes(r.Text, 0, lo), Style: r.Style})
		}
		out = append(out, richdoc.TextRun{Text: sliceRunes(r.Text, lo, hi), Style: fn(r.Style)})
		if hi < n {
			out = append(out, richdoc.TextRun{Text: sliceRunes(r.Text, hi, n), Style: r.Style})
		}
	}
	return out
}

func concatRuns(parts ...[]richdoc.TextRun) []richdoc.TextRun {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]richdoc.TextRun, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func splitRunes(s string, n int) (string, string) {
	i := runeByteOffset(s, n)
	return s[:i], s[i:]
}

func sliceRunes(s string, from, to int) string {
	return s[runeByteOffset(s, from):runeByteOffset(s, to)]
}

func runeByteOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
