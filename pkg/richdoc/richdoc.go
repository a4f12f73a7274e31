package richdoc

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	DefaultFontFamily = "Calibri"
	DefaultFontSizePt = 11
)

type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustify
)

var alignNames = [...]string{"left", "center", "right", "justify"}

type ListKind uint8

const (
	ListNone ListKind = iota
	ListBullet
	ListNumbered
)

var listNames = [...]string{"none", "bullet", "numbered"}

// StyleSet holds the run-level attributes. Alignment and list kind are
// paragraph attributes and live on Paragraph.
type StyleSet struct {
	Bold       bool
	Italic     bool
	Underline  bool
	FontFamily string
	FontSizePt int
}

type TextRun struct {
	Text  string
	Style StyleSet
}

type Paragraph struct {
	Runs     []TextRun
	Align    Align
	ListKind ListKind
}

type Document struct {
	Title      string
	Paragraphs []Paragraph
}

var (
	ErrInvalidDocument = errors.New("richdoc: invalid document")
	ErrSerialization   = errors.New("richdoc: serialization error")
)

func DefaultStyle() StyleSet {
	return StyleSet{FontFamily: DefaultFontFamily, FontSizePt: DefaultFontSizePt}
}

func NewDocument(title string) *Document {
	return NewDocumentWithStyle(title, DefaultStyle())
}

func NewDocumentWithStyle(title string, style StyleSet) *Document {
	return &Document{Title: title, Paragraphs: []Paragraph{EmptyParagraph(style)}}
}

// EmptyParagraph returns a left-aligned paragraph holding a single
// zero-length run.
func EmptyParagraph(style StyleSet) Paragraph {
	return Paragraph{Runs: []TextRun{{Style: style}}}
}

func CloneDocument(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := &Document{Title: doc.Title, Paragraphs: make([]Paragraph, len(doc.Paragraphs))}
	for i, p := range doc.Paragraphs {
		out.Paragraphs[i] = p.Clone()
	}
	return out
}

func (p Paragraph) Clone() Paragraph {
	p.Runs = append([]TextRun(nil), p.Runs...)
	return p
}

func (p Paragraph) Text() string {
	if len(p.Runs) == 1 {
		return p.Runs[0].Text
	}
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Len is the paragraph length in characters, excluding the trailing break.
func (p Paragraph) Len() int {
	n := 0
	for _, r := range p.Runs {
		n += utf8.RuneCountInString(r.Text)
	}
	return n
}

func (d *Document) PlainText() string {
	if d == nil {
		return ""
	}
	parts := make([]string, len(d.Paragraphs))
	for i, p := range d.Paragraphs {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// Len is the length of PlainText in characters.
func (d *Document) Len() int {
	if d == nil || len(d.Paragraphs) == 0 {
		return 0
	}
	n := len(d.Paragraphs) - 1
	for _, p := range d.Paragraphs {
		n += p.Len()
	}
	return n
}

// Canonicalize drops zero-length runs and merges adjacent runs with equal
// styles. When no text remains the result is a single empty run styled like
// the first empty run in the input, or fallback if there was none.
func Canonicalize(runs []TextRun, fallback StyleSet) []TextRun {
	out := make([]TextRun, 0, len(runs))
	emptyStyle, haveEmpty := fallback, false
	for _, r := range runs {
		if r.Text == "" {
			if !haveEmpty {
				emptyStyle, haveEmpty = r.Style, true
			}
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == r.Style {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return []TextRun{{Style: emptyStyle}}
	}
	return out
}

func Validate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if !utf8.ValidString(doc.Title) {
		return fmt.Errorf("%w: title must be valid UTF-8", ErrInvalidDocument)
	}
	if len(doc.Paragraphs) == 0 {
		return fmt.Errorf("%w: document has no paragraphs", ErrInvalidDocument)
	}
	for i, p := range doc.Paragraphs {
		if err := validateParagraph(p); err != nil {
			return fmt.Errorf("%w: paragraph %d: %v", ErrInvalidDocument, i, err)
		}
	}
	return nil
}

func validateParagraph(p Paragraph) error {
	if !p.Align.Valid() {
		return fmt.Errorf("invalid alignment %d", p.Align)
	}
	if !p.ListKind.Valid() {
		return fmt.Errorf("invalid list kind %d", p.ListKind)
	}
	if len(p.Runs) == 0 {
		return errors.New("paragraph has no runs")
	}
	for j, r := range p.Runs {
		if r.Text == "" && len(p.Runs) > 1 {
			return fmt.Errorf("run %d is empty", j)
		}
		if !utf8.ValidString(r.Text) {
			return fmt.Errorf("run %d is not valid UTF-8", j)
		}
		if strings.ContainsRune(r.Text, '\n') {
			return fmt.Errorf("run %d contains a paragraph break", j)
		}
		if err := ValidateStyle(r.Style); err != nil {
			return fmt.Errorf("run %d: %v", j, err)
		}
		if j > 0 && p.Runs[j-1].Style == r.Style {
			return fmt.Errorf("runs %d and %d share a style", j-1, j)
		}
	}
	return nil
}

func ValidateStyle(st StyleSet) error {
	if st.FontSizePt <= 0 {
		return fmt.Errorf("font size %d must be positive", st.FontSizePt)
	}
	if strings.TrimSpace(st.FontFamily) == "" || !utf8.ValidString(st.FontFamily) {
		return fmt.Errorf("font family %q is invalid", st.FontFamily)
	}
	return nil
}

func (a Align) Valid() bool { return int(a) < len(alignNames) }

func (a Align) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Align(%d)", uint8(a))
	}
	return alignNames[a]
}

func ParseAlign(s string) (Align, error) {
	for i, name := range alignNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Align(i), nil
		}
	}
	return AlignLeft, fmt.Errorf("richdoc: unknown alignment %q", s)
}

func (a Align) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("richdoc: invalid alignment %d", uint8(a))
	}
	return []byte(alignNames[a]), nil
}

func (a *Align) UnmarshalText(b []byte) error {
	v, err := ParseAlign(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (k ListKind) Valid() bool { return int(k) < len(listNames) }

func (k ListKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ListKind(%d)", uint8(k))
	}
	return listNames[k]
}

func ParseListKind(s string) (ListKind, error) {
	for i, name := range listNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return ListKind(i), nil
		}
	}
	return ListNone, fmt.Errorf("richdoc: unknown list kind %q", s)
}

func (k ListKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("richdoc: invalid list kind %d", uint8(k))
	}
	return []byte(listNames[k]), nil
}

func (k *ListKind) UnmarshalText(b []byte) error {
	v, err := ParseListKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
