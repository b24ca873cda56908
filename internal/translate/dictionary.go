package translate

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"CultureSync/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed dictionary.yaml
var defaultDictionaryYAML []byte

type pair struct {
	EN string `yaml:"en"`
	RO string `yaml:"ro"`
}

type dictionaryFile struct {
	Phrases   []pair `yaml:"phrases"`
	Locations []pair `yaml:"locations"`
	Prices    []pair `yaml:"prices"`
}

// Dictionary bidirectional phrase substitution, one lookup table per target language.
// Safe for concurrent use; it is never modified after loading.
type Dictionary struct {
	tables map[string]*table
}

var (
	defaultDict     *Dictionary
	defaultDictErr  error
	defaultDictOnce sync.Once
)

// DefaultDictionary the embedded dictionary, loaded once.
func DefaultDictionary() *Dictionary {
	defaultDictOnce.Do(func() {
		defaultDict, defaultDictErr = LoadDictionary(defaultDictionaryYAML)
	})
	if defaultDictErr != nil {
		panic(fmt.Sprintf("embedded dictionary: %v", defaultDictErr))
	}
	return defaultDict
}

// LoadDictionary parses a YAML document with phrases, locations and prices sections.
func LoadDictionary(data []byte) (*Dictionary, error) {
	var f dictionaryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}

	toRO, toEN := newTable(), newTable()
	add := func(pairs []pair, keepCase bool) error {
		for i, p := range pairs {
			if strings.TrimSpace(p.EN) == "" || strings.TrimSpace(p.RO) == "" {
				return fmt.Errorf("dictionary entry %d (%q/%q) has an empty side", i, p.EN, p.RO)
			}
			toRO.add(p.EN, p.RO, keepCase)
			toEN.add(p.RO, p.EN, keepCase)
		}
		return nil
	}
	if err := add(f.Phrases, false); err != nil {
		return nil, err
	}
	if err := add(f.Locations, true); err != nil {
		return nil, err
	}
	if err := add(f.Prices, false); err != nil {
		return nil, err
	}
	toRO.sort()
	toEN.sort()

	return &Dictionary{tables: map[string]*table{
		model.LangRO: toRO,
		model.LangEN: toEN,
	}}, nil
}

// Translate substitutes every known phrase of text into lang. Unknown languages return text unchanged.
func (d *Dictionary) Translate(text, lang string) string {
	tb, ok := d.tables[lang]
	if !ok || text == "" {
		return text
	}
	return tb.replace(text)
}

// TranslateFields translates all four user-facing fields
func (d *Dictionary) TranslateFields(src model.Translation, lang string) model.Translation {
	return model.Translation{
		Title:       d.Translate(src.Title, lang),
		Description: d.Translate(src.Description, lang),
		Location:    d.Translate(src.Location, lang),
		TicketPrice: d.Translate(src.TicketPrice, lang),
	}
}

// Len number of entries available for lang
func (d *Dictionary) Len(lang string) int {
	tb, ok := d.tables[lang]
	if !ok {
		return 0
	}
	return tb.size
}

type entry struct {
	src      []rune // folded
	dst      string
	keepCase bool
}

// table entries indexed by their first folded rune, longest first
type table struct {
	byFirst map[rune][]entry
	seen    map[string]struct{}
	size    int
}

func newTable() *table {
	return &table{byFirst: make(map[rune][]entry), seen: make(map[string]struct{})}
}

func (t *table) add(src, dst string, keepCase bool) {
	folded := foldString(strings.TrimSpace(src))
	key := string(folded)
	if _, dup := t.seen[key]; dup {
		return
	}
	t.seen[key] = struct{}{}
	t.byFirst[folded[0]] = append(t.byFirst[folded[0]], entry{src: folded, dst: strings.TrimSpace(dst), keepCase: keepCase})
	t.size++
}

func (t *table) sort() {
	for _, entries := range t.byFirst {
		sort.SliceStable(entries, func(i, j int) bool {
			return len(entries[i].src) > len(entries[j].src)
		})
	}
}

// replace single left-to-right pass; output of a substitution is never scanned again
func (t *table) replace(text string) string {
	runes := []rune(text)
	folded := make([]rune, len(runes))
	for i, r := range runes {
		folded[i] = fold(r)
	}

	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(runes); {
		if i == 0 || !isWordRune(runes[i-1]) {
			if e, ok := t.match(runes, folded, i); ok {
				n := len(e.src)
				sb.WriteString(applyCase(runes[i:i+n], e.dst, e.keepCase))
				i += n
				continue
			}
		}
		sb.WriteRune(runes[i])
		i++
	}
	return sb.String()
}

func (t *table) match(runes, folded []rune, i int) (entry, bool) {
	for _, e := range t.byFirst[folded[i]] {
		n := len(e.src)
		if i+n > len(folded) {
			continue
		}
		if i+n < len(runes) && isWordRune(runes[i+n]) {
			continue
		}
		if equalRunes(folded[i:i+n], e.src) {
			return e, true
		}
	}
	return entry{}, false
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// fold lower-cases and strips Romanian diacritics, one rune in, one rune out
func fold(r rune) rune {
	r = unicode.ToLower(r)
	switch r {
	case 'ă', 'â':
		return 'a'
	case 'î':
		return 'i'
	case 'ș', 'ş':
		return 's'
	case 'ț', 'ţ':
		return 't'
	}
	return r
}

func foldString(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = fold(r)
	}
	return runes
}

var connectors = map[string]struct{}{
	// ro
	"de": {}, "la": {}, "și": {}, "în": {}, "din": {}, "cu": {}, "pe": {}, "a": {}, "al": {}, "ale": {}, "pentru": {},
	// en
	"at": {}, "of": {}, "the": {}, "and": {}, "in": {}, "on": {}, "for": {}, "an": {}, "to": {}, "with": {}, "from": {},
}

func isConnector(word string) bool {
	_, ok := connectors[strings.ToLower(word)]
	return ok
}

// applyCase carries the casing of the matched text over to its replacement
func applyCase(matched []rune, dst string, keepCase bool) string {
	if keepCase {
		return dst
	}
	switch {
	case isAllUpper(matched):
		return strings.ToUpper(dst)
	case isTitleCase(string(matched)):
		return titleCase(dst)
	case len(matched) > 0 && unicode.IsUpper(matched[0]):
		return capitalize(dst)
	default:
		return dst
	}
}

func isAllUpper(runes []rune) bool {
	letters := 0
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}

// isTitleCase at least two words, every non-connector word capitalized
func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 {
		return false
	}
	for i, w := range words {
		first := []rune(w)[0]
		if !unicode.IsLetter(first) {
			continue
		}
		if unicode.IsUpper(first) {
			continue
		}
		if i > 0 && isConnector(w) {
			continue
		}
		return false
	}
	return true
}

func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" || (i > 0 && isConnector(w)) {
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
