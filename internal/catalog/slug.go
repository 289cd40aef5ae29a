package catalog

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmptySlug   = errors.New("slug must not be empty")
	ErrInvalidSlug = errors.New("slug may only contain letters, digits, '-', '.', '_' and '~'")

	whitespaceRun = regexp.MustCompile(`\s+`)
	urlSafe       = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)
)

// DashWhitespace turns every whitespace run into a single dash
func DashWhitespace(raw string) string {
	return whitespaceRun.ReplaceAllString(raw, "-")
}

// NormalizeSlug trims the slug, turns every whitespace run into a single dash
// and rejects anything that would need escaping in a URL path segment.
func NormalizeSlug(raw string) (string, error) {
	slug := DashWhitespace(strings.TrimSpace(raw))
	if slug == "" {
		return "", ErrEmptySlug
	}
	if !urlSafe.MatchString(slug) {
		return "", ErrInvalidSlug
	}
	return slug, nil
}
