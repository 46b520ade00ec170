package grounding

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares text for phrase matching: NFKC, case folding, every run of
// non-letters and non-digits collapsed to one space, padded with a space on each
// side so " phrase " matches whole words only.
func Normalize(text string) string {
	// A Caser carries state, so each call gets its own.
	folded := cases.Fold().String(norm.NFKC.String(text))
	var b strings.Builder
	b.Grow(len(folded) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}
