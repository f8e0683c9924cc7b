// Package textnorm cleans extracted page text, splits it into paragraphs, and tidies
// speech-to-text transcripts. All functions are pure.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hyperjump/pagewise/pkg/utils"
)

// WordsPerMinute is the reading speed used for reading-time estimates.
const WordsPerMinute = 200

// bulletGlyphs are line prefixes rewritten to "- ".
var bulletGlyphs = []string{"•", "▪", "●", "◦", "■", "►", "‣", "➢", "–"}

// separatorLine matches lines made only of rule characters (e.g. "-----", "___", "...").
var separatorLine = regexp.MustCompile(`^[-_=*.·~]{3,}$`)

// paragraphBreak matches a blank line, possibly containing whitespace.
var paragraphBreak = regexp.MustCompile(`\n[ \t\r\f\v]*\n`)

// CleanAndFormat removes extraction noise from raw page text and normalizes whitespace.
// Lines are trimmed and their inner spacing collapsed, bullet glyphs become "- ", rule-only
// lines are dropped and runs of blank lines shrink to one. Applying it twice is the same
// as applying it once.
func CleanAndFormat(raw string) string {
	text := cleanRunes(raw)
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = normalizeLine(line)
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// cleanRunes drops invisible and control characters and maps line-breaking and
// space-like characters to '\n' and ' '.
func cleanRunes(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '\n' || r == '\r' || r == '\v' || r == '\f' || r == '\u0085' || r == '\u2028' || r == '\u2029':
			b.WriteRune('\n')
		case r == '\u00ad' || r == '\u200b' || r == '\u200e' || r == '\u200f' || r == '\u2060' || r == '\ufeff' || r == '\ufffd':
			// invisible
		case r == '\uf0b7' || r == '\uf0a7' || r == '\uf0d8' || r == '\uf076' || r == '\uf0fc':
			// symbol-font bullets
			b.WriteRune('•')
		case unicode.Is(unicode.Co, r):
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeLine(line string) string {
	line = strings.Join(strings.Fields(line), " ")
	for _, glyph := range bulletGlyphs {
		if strings.HasPrefix(line, glyph) {
			rest := strings.TrimSpace(strings.TrimPrefix(line, glyph))
			if rest == "" {
				return ""
			}
			line = "- " + rest
			break
		}
	}
	if separatorLine.MatchString(line) {
		return ""
	}
	return line
}

// ExtractParagraphs splits text into paragraphs on blank lines. Paragraphs are trimmed and
// empty ones dropped; empty input yields no paragraphs.
func ExtractParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingMinutes estimates reading time in minutes, rounded to one decimal.
func ReadingMinutes(words int) float64 {
	if words <= 0 {
		return 0
	}
	return utils.RoundTo(float64(words)/WordsPerMinute, 1)
}
