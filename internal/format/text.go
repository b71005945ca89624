// Package format provides shared text formatting utilities for terminal output.
package format

import (
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the visible width of s in terminal columns. Color
// codes are ignored and an emoji followed by U+FE0F counts as two columns.
func DisplayWidth(s string) int {
	width := 0
	runes := []rune(StripAnsi(s))
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\uFE0F' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] == '\uFE0F' {
			width += 2
			i++
			continue
		}
		width += runewidth.RuneWidth(runes[i])
	}
	return width
}

// Truncate shortens plain text to at most maxWidth columns, ending in "…".
func Truncate(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "…")
}

// PadRight pads s with spaces to targetWidth visible columns.
func PadRight(s string, targetWidth int) string {
	if w := DisplayWidth(s); w < targetWidth {
		return s + strings.Repeat(" ", targetWidth-w)
	}
	return s
}

// PadLeft right-aligns s within targetWidth visible columns.
func PadLeft(s string, targetWidth int) string {
	if w := DisplayWidth(s); w < targetWidth {
		return strings.Repeat(" ", targetWidth-w) + s
	}
	return s
}

// Number formats n with thousands separators.
func Number(n int) string {
	return humanize.Comma(int64(n))
}

// Delta formats a change between two runs, e.g. "+12" or "-3". Zero is empty.
func Delta(from, to int) string {
	switch d := to - from; {
	case d > 0:
		return "+" + humanize.Comma(int64(d))
	case d < 0:
		return humanize.Comma(int64(d))
	default:
		return ""
	}
}
