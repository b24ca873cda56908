package translate

import (
	"strings"
	"unicode"

	"CultureSync/internal/model"
)

var (
	roStopWords = map[string]struct{}{
		"și": {}, "si": {}, "în": {}, "la": {}, "de": {}, "cu": {}, "pentru": {}, "este": {}, "din": {},
		"pe": {}, "un": {}, "o": {}, "care": {}, "al": {}, "ale": {}, "mai": {}, "sau": {}, "acest": {},
		"această": {}, "sunt": {}, "vă": {}, "noi": {},
	}
	enStopWords = map[string]struct{}{
		"the": {}, "and": {}, "in": {}, "of": {}, "with": {}, "for": {}, "is": {}, "at": {}, "to": {},
		"a": {}, "an": {}, "this": {}, "from": {}, "on": {}, "are": {}, "join": {}, "us": {}, "your": {},
	}
)

// DetectLanguage guesses whether text is Romanian or English from diacritics and stop words.
// It returns "" when neither language wins.
func DetectLanguage(text string) string {
	ro, en := 0, 0
	for _, r := range text {
		switch r {
		case 'ă', 'â', 'î', 'ș', 'ş', 'ț', 'ţ', 'Ă', 'Â', 'Î', 'Ș', 'Ş', 'Ț', 'Ţ':
			ro += 2
		}
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if _, ok := roStopWords[w]; ok {
			ro++
		}
		if _, ok := enStopWords[w]; ok {
			en++
		}
	}

	switch {
	case ro > en:
		return model.LangRO
	case en > ro:
		return model.LangEN
	default:
		return ""
	}
}
