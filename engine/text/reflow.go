// Package text lays out speech text for the fixed-width bitmap font.
package text

import "strings"

// SpeechColumns is the column width speeches are reflowed to.
const SpeechColumns = 54

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Reflow splits s on ASCII whitespace and rejoins the words so that no line
// is longer than width, except a line holding a single word longer than width.
// Existing line breaks are treated as plain whitespace, so reflowing reflowed
// text is a no-op.
func Reflow(s string, width int) string {
	if width < 1 {
		width = 1
	}
	var b strings.Builder
	b.Grow(len(s))

	x := 0
	for _, word := range strings.FieldsFunc(s, isSpace) {
		l := len(word)
		switch {
		case x == 0:
			// Start of a blank line, including a word that fills it exactly.
			b.WriteString(word)
			x = l
		case x+l >= width:
			b.WriteByte('\n')
			b.WriteString(word)
			x = l
		default:
			b.WriteByte(' ')
			b.WriteString(word)
			x += 1 + l
		}
	}
	return b.String()
}

// Lines splits reflowed text into its lines.
func Lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
