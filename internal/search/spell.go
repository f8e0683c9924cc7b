package search

import (
	"strings"
	"unicode"
)

const (
	// maxSuggestDistance is the largest edit distance a suggested term may have.
	maxSuggestDistance = 2
	// minSuggestTermLen keeps short terms out of spelling suggestions.
	minSuggestTermLen = 3
)

// vocabulary maps each word of a document to the number of pages it appears on.
type vocabulary map[string]int

// tokenize lowercases s and splits it into words of letters and digits.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// addPage counts the distinct words of one page.
func (v vocabulary) addPage(texts ...string) {
	seen := make(map[string]struct{})
	for _, text := range texts {
		for _, w := range tokenize(text) {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			v[w]++
		}
	}
}

// suggestTerm returns the closest known word to term, preferring words on more pages.
func (v vocabulary) suggestTerm(term string) (string, bool) {
	termLen := len([]rune(term))
	var (
		best      string
		bestScore float64
	)
	for word, freq := range v {
		lenDiff := len([]rune(word)) - termLen
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > maxSuggestDistance {
			continue
		}
		distance := DamerauLevenshteinDistance(term, word)
		if distance == 0 || distance > maxSuggestDistance {
			continue
		}
		score := float64(freq) / float64(distance+1)
		if score > bestScore || (score == bestScore && word < best) {
			best, bestScore = word, score
		}
	}
	return best, best != ""
}

// Suggest returns a corrected query when some of its words do not occur in the document
// but a close word does, or "" when there is nothing to correct.
func (v vocabulary) Suggest(query string) string {
	terms := tokenize(query)
	corrected := make([]string, 0, len(terms))
	changed := false
	for _, term := range terms {
		if _, known := v[term]; known || len([]rune(term)) < minSuggestTermLen {
			corrected = append(corrected, term)
			continue
		}
		if word, ok := v.suggestTerm(term); ok {
			corrected = append(corrected, word)
			changed = true
			continue
		}
		corrected = append(corrected, term)
	}
	if !changed {
		return ""
	}
	return strings.Join(corrected, " ")
}

// DamerauLevenshteinDistance returns the edit distance between a and b, counting a swap of
// two adjacent characters as one edit.
func DamerauLevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	d := make([][]int, len(ra)+1)
	for i := range d {
		d[i] = make([]int, len(rb)+1)
		d[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		d[0][j] = j
	}
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			d[i][j] = min(d[i-1][j]+1, d[i][j-1]+1, d[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d[i][j] = min(d[i][j], d[i-2][j-2]+cost)
			}
		}
	}
	return d[len(ra)][len(rb)]
}
