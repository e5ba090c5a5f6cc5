package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

var (
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify lowercases s and joins its ASCII letters and digits with dashes.
// Names without any ASCII content get a random "<prefix>-xxxxxxxx" slug.
func Slugify(s, prefix string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	lower = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return ' '
		}
		return r
	}, lower)

	slug := strings.Trim(slugSeparators.ReplaceAllString(lower, "-"), "-")
	if slug == "" {
		slug = prefix + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
	}
	return slug
}

// IsSlug reports whether s is already a normalized slug.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
