package contenttypes

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
)

// GenerateSlug lower-cases name, turns whitespace runs into a hyphen and
// strips anything outside [a-z0-9-]. Hyphen runs collapse and edge hyphens
// are trimmed so the result is canonical for go-slug. "Blog Post!!" becomes
// "blog-post".
func GenerateSlug(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsSpace(r):
			pendingHyphen = true
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		}
	}
	return strings.Trim(collapseHyphens(b.String()), "-")
}

// DefaultSlug returns explicit when it is set and the slug generated from
// name otherwise.
func DefaultSlug(explicit, name string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	return GenerateSlug(name)
}

// ValidSlug reports whether an explicitly supplied slug is URL safe.
func ValidSlug(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || value != GenerateSlug(value) {
		return false
	}
	return slug.IsValid(value)
}

func collapseHyphens(value string) string {
	for strings.Contains(value, "--") {
		value = strings.ReplaceAll(value, "--", "-")
	}
	return value
}
