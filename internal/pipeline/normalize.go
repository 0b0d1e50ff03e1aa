package pipeline

import (
	"regexp"
	"strings"
)

var (
	reSpaces  = regexp.MustCompile(`\s+`)
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

var cellReplacer = strings.NewReplacer("\u00A0", " ", "\r", " ", "\n", " ", "\t", " ")

// CleanCell collapses all whitespace runs (including non-breaking spaces and
// newlines) to a single space and trims.
func CleanCell(raw string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(cellReplacer.Replace(raw), " "))
}

func cleanRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = CleanCell(c)
	}
	return out
}

// normalizeColumnName lowercases a header name and strips punctuation so
// vendor spellings collapse onto the synonym dictionary keys.
func normalizeColumnName(name string) string {
	s := strings.ToLower(CleanCell(name))
	s = reNonWord.ReplaceAllString(s, "")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}
