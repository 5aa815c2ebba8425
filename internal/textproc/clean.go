// Package textproc prepares chat text for speech synthesis.
package textproc

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every HTML element, keeping only text content.
var stripPolicy = bluemonday.StrictPolicy()

var (
	markdownBold   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	markdownItalic = regexp.MustCompile(`\*([^*]+)\*`)
	markdownCode   = regexp.MustCompile("`([^`]+)`")
	markdownLink   = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

	controlChars = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	whitespace   = regexp.MustCompile(`\s+`)

	degrees = regexp.MustCompile(`\b(\d+)°`)
	percent = regexp.MustCompile(`\b(\d+)%`)
)

// punctuation maps typographic characters to their ASCII equivalents.
var punctuation = strings.NewReplacer(
	"…", "...", // ellipsis
	"“", `"`, "”", `"`, "„", `"`,
	"‘", "'", "’", "'", "‚", "'",
	"–", "-", "—", "-",
)

// Clean strips markup and normalizes chat text so it reads well aloud.
// The result may be empty when the input held no speakable content.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	// Markdown first: the HTML policy would otherwise escape the markers'
	// surroundings before the regexes see them.
	text = markdownLink.ReplaceAllString(text, "$1")
	text = markdownBold.ReplaceAllString(text, "$1")
	text = markdownItalic.ReplaceAllString(text, "$1")
	text = markdownCode.ReplaceAllString(text, "$1")

	text = stripPolicy.Sanitize(text)
	text = html.UnescapeString(text)

	text = controlChars.ReplaceAllString(text, "")
	text = punctuation.Replace(text)

	text = degrees.ReplaceAllString(text, "$1 degrees")
	text = percent.ReplaceAllString(text, "$1 percent")

	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Truncate hard-cuts text at max bytes without splitting a rune. Zero or
// negative max disables the limit.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}
