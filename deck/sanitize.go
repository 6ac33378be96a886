// Package deck turns paired blocks of text into slides of a presentation
// template: one slide per line pair, top line centered, bottom line reflowed
// into short left-aligned rows.
package deck

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	controlChars     = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]+")
	leadingInvisible = regexp.MustCompile("^[\t ​\uFEFF]+")
)

// SanitizeLine removes characters that render as stray tabs or indentation
// in generated slides: tabs, control characters, zero-width spaces and the
// BOM. NBSP becomes a regular space, leading whitespace is dropped since
// Google Slides collapses it anyway. Idempotent.
func SanitizeLine(line string) string {
	s := strings.ReplaceAll(line, "\t", "")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "​", "")
	s = strings.ReplaceAll(s, "\uFEFF", "")
	s = controlChars.ReplaceAllString(s, "")
	s = leadingInvisible.ReplaceAllString(s, "")
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	return strings.TrimRight(s, "\n")
}

// ReflowWords re-breaks text into lines of up to n whitespace-separated
// words, collapsing whatever line structure the text had. Punctuation stays
// attached to its word.
func ReflowWords(text string, n int) string {
	if n < 1 {
		n = 1
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(words); i += n {
		if i > 0 {
			b.WriteByte('\n')
		}
		end := i + n
		if end > len(words) {
			end = len(words)
		}
		b.WriteString(strings.Join(words[i:end], " "))
	}
	return b.String()
}

// joinPhrase flattens a multi-line fragment into a single phrase, skipping
// blank sub-lines.
func joinPhrase(text string) string {
	var parts []string
	for _, ln := range splitLines(text) {
		if strings.TrimSpace(ln) != "" {
			parts = append(parts, ln)
		}
	}
	return strings.Join(parts, " ")
}

// splitLines splits on newlines the way preview text areas produce them:
// a trailing newline does not yield a trailing empty line, interior empty
// lines survive.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines
}
