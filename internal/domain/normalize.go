package domain

import (
	"strings"
	"unicode"
)

// NormalizeLocale canonicalizes the casing of a locale tag:
//   - the primary language subtag is lowercased
//   - 2-letter region subtags are uppercased
//   - 4-letter script subtags are title-cased
//   - every other subtag is lowercased
//
// Underscores are accepted as separators and rewritten to hyphens.
// Tags are not checked against any registry.
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	parts := strings.FieldsFunc(locale, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		switch {
		case i == 0:
			parts[i] = strings.ToLower(p)
		case len(p) == 2 && isLetters(p):
			parts[i] = strings.ToUpper(p)
		case len(p) == 4 && isLetters(p):
			parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		default:
			parts[i] = strings.ToLower(p)
		}
	}
	return strings.Join(parts, "-")
}

// EqualLocale compares two locale tags ignoring case.
func EqualLocale(a, b string) bool {
	return strings.EqualFold(a, b)
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
