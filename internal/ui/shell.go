package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"richdoc/internal/editor"
	"richdoc/internal/render"
)

const untitled = "Untitled document"

type Layout struct {
	Width    int
	PageX    int
	PageW    int
	ContentW int
}

// ComputeLayout centres a page of bounded width in a terminal w columns wide.
// The page border takes one column on each side.
func ComputeLayout(w int, theme Theme) Layout {
	if w < theme.MinPageWidth {
		w = theme.MinPageWidth
	}
	pageW := w - theme.PageMargin*2
	if pageW > theme.MaxPageWidth {
		pageW = theme.MaxPageWidth
	}
	if pageW < theme.MinPageWidth {
		pageW = theme.MinPageWidth
	}
	contentW := pageW - 2 - theme.PagePadding*2
	if contentW < 8 {
		contentW = 8
	}
	return Layout{
		Width:    w,
		PageX:    (w - pageW) / 2,
		PageW:    pageW,
		ContentW: contentW,
	}
}

func StatusLine(m editor.Metrics) string {
	return fmt.Sprintf("Words: %d | Characters: %d", m.WordCount, m.CharacterCount)
}

// DrawShell renders the title bar, the page holding the document and the
// status bar with the session's counts.
func DrawShell(lg *lipgloss.Renderer, s *editor.Session, theme Theme, width int) string {
	layout := ComputeLayout(width, theme)

	title := strings.TrimSpace(s.Title())
	if title == "" {
		title = untitled
	}
	titleBar := lg.NewStyle().
		Bold(true).
		Foreground(theme.TitleText).
		Background(theme.TitleBar).
		Width(layout.Width).
		Render(" " + title)

	body := render.New(lg, layout.ContentW).Document(s.Document())
	page := lg.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		Padding(0, theme.PagePadding).
		Foreground(theme.PageText).
		Render(body)
	page = lipgloss.PlaceHorizontal(layout.Width, lipgloss.Center, page)

	status := StatusLine(s.Metrics())
	if s.CanUndo() || s.CanRedo() {
		status += fmt.Sprintf(" | Undo: %d | Redo: %d", s.UndoDepth(), s.RedoDepth())
	}
	statusBar := lg.NewStyle().
		Foreground(theme.StatusText).
		Background(theme.StatusBar).
		Width(layout.Width).
		Render(" " + status)

	return lipgloss.JoinVertical(lipgloss.Left, titleBar, page, statusBar)
}
