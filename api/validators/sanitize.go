package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims input, drops control characters and collapses runs of
// whitespace to one space, or one newline when the run contained a line
// break. The result is cut to maxLen runes; names and notes carry accents, so
// the cut never splits a character.
func SanitizeString(input string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(input))
	var sep rune
	for _, r := range strings.TrimSpace(input) {
		switch {
		case r == '\n':
			sep = '\n'
			continue
		case unicode.IsSpace(r):
			if sep == 0 {
				sep = ' '
			}
			continue
		case unicode.IsControl(r):
			continue
		}
		if sep != 0 && b.Len() > 0 {
			b.WriteRune(sep)
		}
		sep = 0
		b.WriteRune(r)
	}
	out := b.String()
	if maxLen > 0 {
		if runes := []rune(out); len(runes) > maxLen {
			out = strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	return out
}

// SanitizeOptional applies SanitizeString and maps an empty result to nil.
func SanitizeOptional(input *string, maxLen int) *string {
	if input == nil {
		return nil
	}
	out := SanitizeString(*input, maxLen)
	if out == "" {
		return nil
	}
	return &out
}
