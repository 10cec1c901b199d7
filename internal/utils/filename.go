package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordChars  = regexp.MustCompile(`[^\w\s.-]`)
	collapseRuns  = regexp.MustCompile(`[-\s]+`)
	stripMarks    = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
)

// SanitizeFilename turns an arbitrary filename into a safe storage key:
// diacritics are reduced to their nearest ASCII base letter, anything outside
// alphanumerics/underscore/hyphen/dot is dropped, and runs of whitespace or
// hyphens collapse to a single hyphen. The sanitized form is only used as the
// storage path; callers keep the original name for display and download.
func SanitizeFilename(name string) string {
	decomposed, _, err := transform.String(stripMarks, name)
	if err != nil {
		decomposed = name
	}

	var ascii strings.Builder
	for _, r := range decomposed {
		if r < 128 {
			ascii.WriteRune(r)
		}
	}

	value := nonWordChars.ReplaceAllString(ascii.String(), "")
	value = strings.TrimSpace(value)
	return collapseRuns.ReplaceAllString(value, "-")
}
