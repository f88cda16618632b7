package util

import (
	"regexp"
	"strings"
)

var (
	apostrophes = strings.NewReplacer("'", "", "’", "")
	nonSlug     = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify is how tags are compared: "Men's Running" and "mens-running"
// name the same category. Empty input slugs to "other".
func Slugify(s string) string {
	s = apostrophes.Replace(strings.ToLower(strings.TrimSpace(s)))
	s = strings.Trim(nonSlug.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "other"
	}
	return s
}
