package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type languageFamily int

const (
	familyOther languageFamily = iota
	familyEnglish
	familyArabic
)

var fillerWords = map[languageFamily]map[string]bool{
	familyEnglish: {"um": true, "umm": true, "uh": true, "uhh": true, "erm": true, "er": true, "hmm": true, "mm": true, "ah": true},
	familyArabic:  {"امم": true, "اممم": true, "ممم": true, "اه": true, "آه": true, "إمم": true, "أمم": true},
}

var spaceBeforePunct = regexp.MustCompile(`\s+([,.!?;:،؟؛])`)

var repeatedPunct = func() []*regexp.Regexp {
	var res []*regexp.Regexp
	for _, p := range []string{",", "!", "?", "،", "؟"} {
		res = append(res, regexp.MustCompile(regexp.QuoteMeta(p)+`{2,}`))
	}
	return res
}()

var arabicPunct = strings.NewReplacer("?", "؟", ",", "،", ";", "؛")

func familyOf(lang string) languageFamily {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch {
	case lang == "english" || lang == "en" || strings.HasPrefix(lang, "en-") || strings.HasPrefix(lang, "en_"):
		return familyEnglish
	case lang == "arabic" || lang == "ar" || strings.HasPrefix(lang, "ar-") || strings.HasPrefix(lang, "ar_"):
		return familyArabic
	default:
		return familyOther
	}
}

// ProcessTranscript tidies a raw speech-to-text result for the given language code
// ("en", "en-US", "english", "ar", "ar-SA", "arabic"). It removes filler words and fixes
// spacing and punctuation; the words spoken are otherwise left as they are.
func ProcessTranscript(raw string, lang string) string {
	family := familyOf(lang)
	words := strings.Fields(raw)
	if fillers := fillerWords[family]; fillers != nil {
		kept := words[:0]
		for _, w := range words {
			bare := strings.ToLower(strings.TrimFunc(w, unicode.IsPunct))
			if fillers[bare] {
				continue
			}
			kept = append(kept, w)
		}
		words = kept
	}
	text := strings.Join(words, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	for _, re := range repeatedPunct {
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			r, _ := utf8.DecodeRuneInString(m)
			return string(r)
		})
	}
	if text == "" {
		return ""
	}
	switch family {
	case familyArabic:
		text = arabicPunct.Replace(text)
	case familyEnglish:
		r, size := utf8.DecodeRuneInString(text)
		text = string(unicode.ToUpper(r)) + text[size:]
		last, _ := utf8.DecodeLastRuneInString(text)
		if !strings.ContainsRune(".!?…", last) {
			text += "."
		}
	}
	return text
}
