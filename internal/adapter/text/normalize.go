package text

import (
	"regexp"
	"strings"
)

// Length bounds for embeddable text, in characters.
const (
	minLength = 10
	maxLength = 50000
)

var (
	collapseNewlines = regexp.MustCompile(`\n{3,}`)
	controlChars     = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
)

// Normalize sanitizes and bounds text for embedding: line endings become
// a single \n, runs of three or more newlines collapse to two, the
// result is trimmed, rejected if shorter than 10 or longer than 50000
// characters, and stripped of control characters. The same rules apply
// to whole files and to individual chunks.
func Normalize(text string) (string, bool) {
	cleaned := strings.ReplaceAll(text, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")
	cleaned = collapseNewlines.ReplaceAllString(cleaned, "\n\n")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) < minLength || len(cleaned) > maxLength {
		return "", false
	}

	cleaned = controlChars.ReplaceAllString(cleaned, "")
	return cleaned, true
}
