package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"cloud.google.com/go/vertexai/genai"
)

// digitsToASCII maps Arabic-Indic and Extended Arabic-Indic digits to ASCII.
var digitsToASCII = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4", "٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4", "۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
)

type navigationMove int

const (
	moveNone navigationMove = iota
	moveNext
	movePrevious
	moveFirst
	moveLast
)

var navigationWords = map[string]navigationMove{
	"next":      moveNext,
	"forward":   moveNext,
	"التالي":    moveNext,
	"التالية":   moveNext,
	"بعد":       moveNext,
	"previous":  movePrevious,
	"prev":      movePrevious,
	"back":      movePrevious,
	"السابق":    movePrevious,
	"السابقة":   movePrevious,
	"قبل":       movePrevious,
	"رجوع":      movePrevious,
	"ارجع":      movePrevious,
	"first":     moveFirst,
	"start":     moveFirst,
	"beginning": moveFirst,
	"الأولى":    moveFirst,
	"الاولى":    moveFirst,
	"البداية":   moveFirst,
	"last":      moveLast,
	"end":       moveLast,
	"الأخيرة":   moveLast,
	"الاخيرة":   moveLast,
	"النهاية":   moveLast,
}

// pageNouns may precede an absolute page number ("page 4", "الصفحة ٤").
var pageNouns = map[string]bool{
	"page":    true,
	"slide":   true,
	"صفحة":    true,
	"الصفحة":  true,
	"صفحه":    true,
	"الصفحه":  true,
	"شريحة":   true,
	"الشريحة": true,
}

// countWords make a move relative by more than one page ("back two pages", "صفحتين").
var countWords = map[string]bool{
	"two":     true,
	"three":   true,
	"four":    true,
	"five":    true,
	"couple":  true,
	"few":     true,
	"several": true,
	"pages":   true,
	"slides":  true,
	"صفحتين":  true,
	"صفحات":   true,
	"شريحتين": true,
	"شرائح":   true,
}

// ResolveShortcut interprets unambiguous navigation commands without calling the model: an
// absolute page ("page 4", "الصفحة ٤", a bare number) or a single move (next, previous,
// first, last) in English or Arabic. Relative counts and mixed moves are left to the model.
// The returned page is not range checked.
func ResolveShortcut(command string, current, total int) (int, bool) {
	words := strings.FieldsFunc(digitsToASCII.Replace(strings.ToLower(command)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	number, numbers, absolute := 0, 0, false
	moves := make(map[navigationMove]bool)
	for i, w := range words {
		if n, err := strconv.Atoi(w); err == nil {
			number = n
			numbers++
			absolute = len(words) == 1 || (i > 0 && pageNouns[words[i-1]])
			continue
		}
		if countWords[w] {
			return 0, false
		}
		if m := navigationWords[w]; m != moveNone {
			moves[m] = true
		}
	}

	if numbers > 0 {
		if numbers == 1 && absolute && len(moves) == 0 {
			return number, true
		}
		return 0, false
	}
	if len(moves) != 1 {
		return 0, false
	}
	for m := range moves {
		switch m {
		case moveNext:
			return current + 1, true
		case movePrevious:
			return current - 1, true
		case moveFirst:
			return 1, true
		case moveLast:
			return total, true
		}
	}
	return 0, false
}

// InterpretNavigation resolves a spoken or typed navigation command to a page number.
// ok is false when the command is not a navigation request.
func (c *Client) InterpretNavigation(ctx context.Context, command string, current, total int) (int, bool, error) {
	if page, ok := ResolveShortcut(command, current, total); ok {
		return page, true, nil
	}
	raw, err := c.generate(ctx, c.analysisModel, "interpret navigation", genai.Text(fmt.Sprintf(navigationPrompt, current, total, command)))
	if err != nil {
		return 0, false, err
	}
	page, ok := parseNavigationAnswer(raw)
	return page, ok, nil
}

// parseNavigationAnswer reads {"page": N}, tolerating a bare number.
func parseNavigationAnswer(raw string) (int, bool) {
	var answer struct {
		Page *json.Number `json:"page"`
	}
	if err := json.Unmarshal([]byte(raw), &answer); err == nil {
		if answer.Page == nil {
			return 0, false
		}
		n, err := answer.Page.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return n, true
	}
	return 0, false
}
