package editor

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"richdoc/pkg/richdoc"
)

const (
	MinFontSizePt = 8
	MaxFontSizePt = 96
)

var (
	ErrRangeOutOfBounds  = errors.New("editor: range out of bounds")
	ErrInvalidStyleValue = errors.New("editor: invalid style value")
	ErrInvalidText       = errors.New("editor: text must be valid UTF-8")
	ErrNothingToUndo     = errors.New("editor: nothing to undo")
	ErrNothingToRedo     = errors.New("editor: nothing to redo")
)

// StyleDelta describes a run-level style change. Nil fields are left alone;
// FontSizeStep shifts the current size within [MinFontSizePt, MaxFontSizePt].
type StyleDelta struct {
	Bold         *bool
	Italic       *bool
	Underline    *bool
	FontFamily   *string
	FontSizePt   *int
	FontSizeStep int
}

func (d StyleDelta) Validate() error {
	if d.FontFamily != nil {
		name := strings.TrimSpace(*d.FontFamily)
		if name == "" || !utf8.ValidString(name) {
			return fmt.Errorf("%w: font family %q", ErrInvalidStyleValue, *d.FontFamily)
		}
	}
	if d.FontSizePt != nil && *d.FontSizePt <= 0 {
		return fmt.Errorf("%w: font size %d must be a positive integer", ErrInvalidStyleValue, *d.FontSizePt)
	}
	return nil
}

func (d StyleDelta) Apply(st richdoc.StyleSet) richdoc.StyleSet {
	if d.Bold != nil {
		st.Bold = *d.Bold
	}
	if d.Italic != nil {
		st.Italic = *d.Italic
	}
	if d.Underline != nil {
		st.Underline = *d.Underline
	}
	if d.FontFamily != nil {
		st.FontFamily = strings.TrimSpace(*d.FontFamily)
	}
	if d.FontSizePt != nil {
		st.FontSizePt = *d.FontSizePt
	}
	if d.FontSizeStep != 0 {
		st.FontSizePt = clamp(st.FontSizePt+d.FontSizeStep, MinFontSizePt, MaxFontSizePt)
	}
	return st
}

func (d StyleDelta) String() string {
	var parts []string
	if d.Bold != nil {
		parts = append(parts, fmt.Sprintf("bold=%t", *d.Bold))
	}
	if d.Italic != nil {
		parts = append(parts, fmt.Sprintf("italic=%t", *d.Italic))
	}
	if d.Underline != nil {
		parts = append(parts, fmt.Sprintf("underline=%t", *d.Underline))
	}
	if d.FontFamily != nil {
		parts = append(parts, fmt.Sprintf("font=%q", *d.FontFamily))
	}
	if d.FontSizePt != nil {
		parts = append(parts, fmt.Sprintf("size=%d", *d.FontSizePt))
	}
	if d.FontSizeStep != 0 {
		parts = append(parts, fmt.Sprintf("step=%+d", d.FontSizeStep))
	}
	return strings.Join(parts, " ")
}
