package service

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"CultureSync/internal/model"
	"CultureSync/internal/translate"
)

// Enhancement the fields an enhancement tier produces for one event
type Enhancement struct {
	Description  string
	Category     model.Category
	Tags         []string
	Mood         model.Mood
	Audience     model.Audience
	Translations map[string]model.Translation
}

// Enhancer one tier of the enrichment chain
type Enhancer interface {
	Name() string
	Enhance(ctx context.Context, event model.SourcedEvent) (Enhancement, error)
}

const RuleBasedTier = "rule_based"

type categoryRule struct {
	category model.Category
	keywords []string
	tags     []string
	mood     model.Mood
	audience model.Audience
}

// checked in order, the first rule with a matching keyword wins
var categoryRules = []categoryRule{
	{model.CategoryMusic, []string{"concert", "jazz", "band", "music", "muzică", "muzica", "singer", "rock", "orchestra", "filarmonica", "dj"},
		[]string{"music", "live", "performance"}, model.MoodEnergetic, model.AudienceYoungAdults},
	{model.CategoryArt, []string{"art", "exhibition", "expoziție", "expozitie", "gallery", "galerie", "museum", "muzeu", "painting", "pictură"},
		[]string{"art", "culture", "exhibition"}, model.MoodIntimate, model.AudienceArtists},
	{model.CategoryFood, []string{"food", "restaurant", "culinary", "taste", "festival", "gastronomic", "wine", "vin"},
		[]string{"food", "local", "festival"}, model.MoodFestive, model.AudienceFamilies},
	{model.CategoryTheater, []string{"theater", "theatre", "teatru", "play", "drama", "performance", "spectacol"},
		[]string{"theater", "performance", "culture"}, model.MoodIntimate, model.AudienceGeneral},
	{model.CategoryTechnology, []string{"tech", "meetup", "conference", "coding", "development", "hackathon", "startup"},
		[]string{"technology", "networking", "education"}, model.MoodProfessional, model.AudienceProfessionals},
	{model.CategoryCultural, []string{"cultural", "heritage", "traditional", "tradițional", "christmas", "crăciun", "folk", "market"},
		[]string{"culture", "heritage", "tradition"}, model.MoodFestive, model.AudienceGeneral},
	{model.CategoryOfficial, []string{"council", "consiliul", "consiliu", "mayor", "primar", "primăria", "official", "civic"},
		[]string{"civic", "community", "official"}, model.MoodProfessional, model.AudienceGeneral},
}

// defaults for categories that only arrive as a source hint
var hintedDefaults = map[model.Category]categoryRule{
	model.CategorySports:    {tags: []string{"sports", "outdoor"}, mood: model.MoodEnergetic, audience: model.AudienceGeneral},
	model.CategoryEducation: {tags: []string{"education", "learning"}, mood: model.MoodEducational, audience: model.AudienceGeneral},
	model.CategoryFamily:    {tags: []string{"family", "kids"}, mood: model.MoodFestive, audience: model.AudienceFamilies},
}

var categoryTemplates = map[model.Category]string{
	model.CategoryMusic:      "Join us for an exciting musical experience in the heart of Timișoara.",
	model.CategoryArt:        "Discover inspiring artworks in one of Timișoara's cultural venues.",
	model.CategoryFood:       "Taste the authentic flavors of Banat region in this culinary celebration.",
	model.CategoryTheater:    "Experience compelling storytelling in Timișoara's theatrical tradition.",
	model.CategoryTechnology: "Connect with fellow innovators in Timișoara's growing tech community.",
	model.CategoryCultural:   "Immerse yourself in the rich cultural heritage of Timișoara.",
	model.CategoryOfficial:   "Participate in important civic activities in our European Capital of Culture.",
}

const defaultTemplate = "Join this exciting event in Timișoara."

var (
	// the first two are always kept, the rest only fill free slots
	baseTags    = []string{"local", "culture", "timisoara", "community", "event"}
	keywordTags = []string{"music", "art", "food", "theater", "tech", "family", "outdoor", "indoor", "free", "festival"}
)

const maxTags = 5

// RuleBasedEnhancement deterministic keyword heuristic; same input, same output
func RuleBasedEnhancement(event model.SourcedEvent) Enhancement {
	rule := classify(event)

	tags := newTagSet(maxTags)
	tags.add(baseTags[:2]...)
	tags.add(rule.tags...)
	location := strings.ToLower(event.Location)
	if strings.Contains(location, "piața") || strings.Contains(location, "piata") || strings.Contains(location, "square") {
		tags.add("outdoor")
	}
	if strings.Contains(location, "museum") || strings.Contains(location, "muzeul") {
		tags.add("indoor", "cultural")
	}
	text := words(event.Title + " " + event.OriginalDescription)
	for _, k := range keywordTags {
		if _, ok := text[k]; ok {
			tags.add(k)
		}
	}
	price := strings.ToLower(event.TicketPrice)
	if strings.Contains(price, "free") || strings.Contains(price, "gratuit") || strings.Contains(price, "liberă") {
		tags.add("free")
	}
	tags.add(baseTags[2:]...)

	return Enhancement{
		Description: ruleBasedDescription(event, rule.category),
		Category:    rule.category,
		Tags:        tags.list,
		Mood:        rule.mood,
		Audience:    rule.audience,
	}
}

// classify title keywords first, then description keywords, then the source's own category
func classify(event model.SourcedEvent) categoryRule {
	for _, text := range []string{event.Title, event.OriginalDescription} {
		w := words(text)
		for _, rule := range categoryRules {
			for _, k := range rule.keywords {
				if _, ok := w[k]; ok {
					return rule
				}
			}
		}
	}

	hint := model.ParseCategory(event.Category)
	for _, rule := range categoryRules {
		if rule.category == hint {
			return rule
		}
	}
	if def, ok := hintedDefaults[hint]; ok {
		def.category = hint
		return def
	}
	return categoryRule{category: model.CategoryEntertainment, mood: model.MoodNeutral, audience: model.AudienceGeneral}
}

func ruleBasedDescription(event model.SourcedEvent, category model.Category) string {
	var sb strings.Builder
	if tpl, ok := categoryTemplates[category]; ok {
		sb.WriteString(tpl)
	} else {
		sb.WriteString(defaultTemplate)
	}

	// the templates are English; only a description in another language adds information
	original := strings.TrimSpace(event.OriginalDescription)
	if utf8.RuneCountInString(original) > 20 && translate.DetectLanguage(original) != model.LangEN {
		sb.WriteString(" ")
		sb.WriteString(original)
	}

	location := strings.TrimSpace(event.Location)
	if location == "" {
		location = "Timișoara"
	}
	sb.WriteString(" Located in ")
	sb.WriteString(location)
	sb.WriteString(", this event showcases the vibrant spirit of Timișoara's cultural scene.")
	return sb.String()
}

// words lower-cased word set of s
func words(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[w] = struct{}{}
	}
	return set
}

// tagSet ordered, de-duplicated, capped tag list
type tagSet struct {
	list  []string
	limit int
}

func newTagSet(limit int) *tagSet {
	return &tagSet{limit: limit}
}

func (t *tagSet) add(tags ...string) {
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || len(t.list) >= t.limit {
			continue
		}
		dup := false
		for _, have := range t.list {
			if have == tag {
				dup = true
				break
			}
		}
		if !dup {
			t.list = append(t.list, tag)
		}
	}
}
