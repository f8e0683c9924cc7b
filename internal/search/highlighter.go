package search

import (
	"sort"
	"strings"

	"github.com/hyperjump/pagewise/pkg/utils"
)

// maxSnippetRunes bounds the snippet used when a hit has no highlighted fragments.
const maxSnippetRunes = 160

// Fragments returns the highlighted fragments of a hit, content fields first, or a
// snippet of content when the highlighter produced none.
func Fragments(fragments map[string][]string, content string, maxRunes int) []string {
	fields := make([]string, 0, len(fragments))
	for field := range fragments {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool {
		if (fields[i] == "content") != (fields[j] == "content") {
			return fields[i] == "content"
		}
		return fields[i] < fields[j]
	})

	var out []string
	for _, field := range fields {
		for _, f := range fragments[field] {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	if snippet := Highlight(content, maxRunes); snippet != "" {
		return []string{snippet}
	}
	return nil
}

// Highlight collapses whitespace in content and truncates it to maxRunes.
func Highlight(content string, maxRunes int) string {
	return utils.Truncate(strings.Join(strings.Fields(content), " "), maxRunes)
}
