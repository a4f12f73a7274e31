package editor

// Selection is an anchor/focus pair of document offsets. Anchor == Focus is
// a caret.
type Selection struct {
	Anchor int
	Focus  int
}

func Caret(offset int) Selection {
	return Selection{Anchor: offset, Focus: offset}
}

func Select(anchor, focus int) Selection {
	return Selection{Anchor: anchor, Focus: focus}
}

func (s Selection) Range() Range {
	if s.Anchor <= s.Focus {
		return Range{Start: s.Anchor, End: s.Focus}
	}
	return Range{Start: s.Focus, End: s.Anchor}
}

func (s Selection) Collapsed() bool { return s.Anchor == s.Focus }

func (s Selection) Within(n int) bool {
	return s.Anchor >= 0 && s.Focus >= 0 && s.Anchor <= n && s.Focus <= n
}

// Clamp pulls both offsets into [0, n].
func (s Selection) Clamp(n int) Selection {
	return Selection{Anchor: clamp(s.Anchor, 0, n), Focus: clamp(s.Focus, 0, n)}
}
