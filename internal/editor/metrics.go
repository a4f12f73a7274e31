package editor

import (
	"strings"
	"unicode/utf8"
)

type Metrics struct {
	WordCount      int
	CharacterCount int
}

func ComputeMetrics(text string) Metrics {
	return Metrics{WordCount: WordCount(text), CharacterCount: CharacterCount(text)}
}

// WordCount counts the non-empty tokens between runs of whitespace.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CharacterCount counts characters; a paragraph break is one '\n'.
func CharacterCount(text string) int {
	return utf8.RuneCountInString(text)
}
