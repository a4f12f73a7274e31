package editor

import "testing"

func TestWordCount(t *testing.T) {
	cases := map[string]int{
		"":                  0,
		"  hello   world  ": 2,
		"one\ntwo\tthree":   3,
		"\n\n":              0,
		"naïve café":        2,
	}
	for in, want := range cases {
		if got := WordCount(in); got != want {
			t.Fatalf("WordCount(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestCharacterCount(t *testing.T) {
	if got := CharacterCount("ab\ncd"); got != 5 {
		t.Fatalf("paragraph break should count once, got %d", got)
	}
	if got := CharacterCount("héllo"); got != 5 {
		t.Fatalf("expected 5 characters, got %d", got)
	}
}

func TestSelectionClamp(t *testing.T) {
	sel := Select(-3, 40).Clamp(10)
	if sel != Select(0, 10) {
		t.Fatalf("unexpected clamp: %+v", sel)
	}
	if !Caret(4).Collapsed() || Select(1, 2).Collapsed() {
		t.Fatal("unexpected collapsed state")
	}
	if Select(2, 11).Within(10) {
		t.Fatal("selection past the end should not be within bounds")
	}
}
