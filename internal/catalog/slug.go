package catalog

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugAllowed        = regexp.MustCompile(`^[a-z0-9\-/]+$`)
	dashCollapser      = regexp.MustCompile(`-+`)
	diacriticStripper  = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	errEmptySlug       = errors.New("empty slug")
	errInvalidSlugRune = errors.New("slug contains invalid characters")
)

// NormalizeSlug canonicalizes raw slug input (from URLs or manifest files)
// into the lowercase dash-separated form used for content lookup. Path
// traversal sequences and URL metacharacters are rejected outright.
func NormalizeSlug(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if strings.ContainsAny(trimmed, "\\?&:#'\"") || strings.Contains(trimmed, "..") {
		return "", errors.New("slug contains invalid path characters")
	}

	trimmed = stripDiacritics(trimmed)
	trimmed = strings.ReplaceAll(trimmed, " ", "-")
	trimmed = strings.ReplaceAll(trimmed, "_", "-")
	trimmed = strings.ToLower(trimmed)
	trimmed = strings.Trim(trimmed, "-/")
	trimmed = dashCollapser.ReplaceAllString(trimmed, "-")

	if trimmed == "" {
		return "", errEmptySlug
	}
	if !slugAllowed.MatchString(trimmed) {
		return "", errInvalidSlugRune
	}
	return trimmed, nil
}

func stripDiacritics(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return stripped
}
