package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"richdoc/pkg/richdoc"
)

const (
	BulletMarker = "• "
	minWidth     = 8
)

// Renderer draws a document as styled terminal lines on a single page of a
// fixed width.
type Renderer struct {
	lg    *lipgloss.Renderer
	width int
}

func New(lg *lipgloss.Renderer, width int) *Renderer {
	if lg == nil {
		lg = lipgloss.DefaultRenderer()
	}
	if width < minWidth {
		width = minWidth
	}
	return &Renderer{lg: lg, width: width}
}

func (r *Renderer) Width() int { return r.width }

// RunStyle maps run attributes onto terminal attributes. Font family and size
// have no terminal equivalent.
func (r *Renderer) RunStyle(st richdoc.StyleSet) lipgloss.Style {
	return r.lg.NewStyle().Bold(st.Bold).Italic(st.Italic).Underline(st.Underline)
}

func (r *Renderer) Runs(runs []richdoc.TextRun) string {
	var b strings.Builder
	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		b.WriteString(r.RunStyle(run.Style).Render(run.Text))
	}
	return b.String()
}

func alignPosition(a richdoc.Align) lipgloss.Position {
	switch a {
	case richdoc.AlignCenter:
		return lipgloss.Center
	case richdoc.AlignRight:
		return lipgloss.Right
	default:
		return lipgloss.Left
	}
}

// Paragraph renders p wrapped to the page width, with marker hanging in
// front of the first line.
func (r *Renderer) Paragraph(p richdoc.Paragraph, marker string) string {
	w := r.width - ansi.StringWidth(marker)
	body := r.lg.NewStyle().Width(w).Align(alignPosition(p.Align)).Render(r.Runs(p.Runs))
	if marker == "" {
		return body
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, r.lg.NewStyle().Render(marker), body)
}

func (r *Renderer) Document(doc *richdoc.Document) string {
	markers := ListMarkers(doc)
	blocks := make([]string, len(doc.Paragraphs))
	for i, p := range doc.Paragraphs {
		blocks[i] = r.Paragraph(p, markers[i])
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// ListMarkers returns the marker drawn before each paragraph. Numbering
// restarts after any paragraph that is not a numbered item.
func ListMarkers(doc *richdoc.Document) []string {
	out := make([]string, len(doc.Paragraphs))
	n := 0
	for i, p := range doc.Paragraphs {
		switch p.ListKind {
		case richdoc.ListBullet:
			n = 0
			out[i] = BulletMarker
		case richdoc.ListNumbered:
			n++
			out[i] = fmt.Sprintf("%d. ", n)
		default:
			n = 0
		}
	}
	return out
}
