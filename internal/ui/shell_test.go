package ui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"richdoc/internal/editor"
	"richdoc/pkg/richdoc"
)

func TestComputeLayoutClampsPage(t *testing.T) {
	theme := DefaultTheme()
	wide := ComputeLayout(300, theme)
	if wide.PageW != theme.MaxPageWidth {
		t.Fatalf("expected page width %d, got %d", theme.MaxPageWidth, wide.PageW)
	}
	if wide.PageX != (300-theme.MaxPageWidth)/2 {
		t.Fatalf("page not centred: x=%d", wide.PageX)
	}
	narrow := ComputeLayout(10, theme)
	if narrow.PageW != theme.MinPageWidth || narrow.Width != theme.MinPageWidth {
		t.Fatalf("unexpected narrow layout: %+v", narrow)
	}
	if narrow.ContentW != theme.MinPageWidth-2-theme.PagePadding*2 {
		t.Fatalf("unexpected content width: %d", narrow.ContentW)
	}
}

func TestStatusLine(t *testing.T) {
	got := StatusLine(editor.ComputeMetrics("  hello   world  "))
	if got != "Words: 2 | Characters: 17" {
		t.Fatalf("unexpected status line: %q", got)
	}
}

func TestDrawShell(t *testing.T) {
	lg := lipgloss.NewRenderer(io.Discard)
	lg.SetColorProfile(termenv.TrueColor)

	doc := richdoc.NewDocument("")
	s := editor.NewSession(doc)
	if _, err := s.Execute(editor.InsertText{Text: "Hello world"}, editor.Caret(0)); err != nil {
		t.Fatal(err)
	}
	out := ansi.Strip(DrawShell(lg, s, DefaultTheme(), 60))
	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[0], untitled) {
		t.Fatalf("title bar missing default title: %q", lines[0])
	}
	if !strings.Contains(out, "Hello world") {
		t.Fatalf("page missing document text:\n%s", out)
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "Words: 2 | Characters: 11") || !strings.Contains(last, "Undo: 1") {
		t.Fatalf("unexpected status bar: %q", last)
	}
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != 60 {
			t.Fatalf("line %d has width %d: %q", i, w, l)
		}
	}
}
