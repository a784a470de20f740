package service

import (
	"strings"
	"unicode"
)

// Slugify turns a title into a URL slug: lowercase ASCII letters and digits
// separated by single hyphens.
func Slugify(value string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func slugOrDerived(slug, fallback string) string {
	if normalized := Slugify(slug); normalized != "" {
		return normalized
	}
	return Slugify(fallback)
}
