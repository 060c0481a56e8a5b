// Package sanitize normalizes user text before it is stored.
// Every function is idempotent: applying it twice gives the same result as once.
package sanitize

import "strings"

const (
	MaxTitle      = 200
	MaxExcerpt    = 500
	MaxCoverImage = 500
	MaxTag        = 50
	MaxComment    = 1000
	MaxContent    = 50000
	MaxTags       = 10
)

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// String strips angle brackets, trims whitespace and truncates to max runes.
func String(s string, max int) string {
	return clip(angleBrackets.Replace(s), max)
}

// Content is Markdown: brackets survive, only trimming and truncation apply.
func Content(s string) string {
	return clip(s, MaxContent)
}

func Title(s string) string      { return String(s, MaxTitle) }
func Excerpt(s string) string    { return String(s, MaxExcerpt) }
func CoverImage(s string) string { return String(s, MaxCoverImage) }
func Comment(s string) string    { return String(s, MaxComment) }

// Tags keeps the first MaxTags entries, sanitizes each one and drops empties
// and duplicates while preserving order.
func Tags(tags []string) []string {
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = String(tag, MaxTag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// clip trims, truncates by rune and trims again so a cut that lands
// after whitespace cannot leave a trailing space.
func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 {
		n := 0
		for i := range s {
			if n == max {
				s = s[:i]
				break
			}
			n++
		}
	}
	return strings.TrimSpace(s)
}
