package model

import "strings"

// Category closed set of event categories
type Category string

const (
	CategoryMusic         Category = "music"
	CategoryArt           Category = "art"
	CategoryTheater       Category = "theater"
	CategoryFood          Category = "food"
	CategoryTechnology    Category = "technology"
	CategoryCultural      Category = "cultural"
	CategoryOfficial      Category = "official"
	CategoryEntertainment Category = "entertainment"
	CategorySports        Category = "sports"
	CategoryEducation     Category = "education"
	CategoryFamily        Category = "family"
)

// Categories all valid categories, in prompt order.
var Categories = []Category{
	CategoryMusic, CategoryArt, CategoryTheater, CategoryFood, CategoryTechnology, CategoryCultural,
	CategoryOfficial, CategoryEntertainment, CategorySports, CategoryEducation, CategoryFamily,
}

// categoryAliases spellings seen in sources and model output
var categoryAliases = map[string]Category{
	"theatre":    CategoryTheater,
	"exhibition": CategoryArt,
	"tech":       CategoryTechnology,
	"culture":    CategoryCultural,
	"sport":      CategorySports,
}

// ParseCategory normalizes s; anything unknown maps to CategoryEntertainment.
func ParseCategory(s string) Category {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == v {
			return c
		}
	}
	if c, ok := categoryAliases[v]; ok {
		return c
	}
	return CategoryEntertainment
}

// Mood closed set of event moods
type Mood string

const (
	MoodEnergetic    Mood = "energetic"
	MoodRelaxed      Mood = "relaxed"
	MoodProfessional Mood = "professional"
	MoodFestive      Mood = "festive"
	MoodIntimate     Mood = "intimate"
	MoodEducational  Mood = "educational"
	MoodNeutral      Mood = "neutral"
)

var Moods = []Mood{MoodEnergetic, MoodRelaxed, MoodProfessional, MoodFestive, MoodIntimate, MoodEducational, MoodNeutral}

// ParseMood normalizes s; unknown values map to MoodNeutral.
func ParseMood(s string) Mood {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Moods {
		if string(m) == v {
			return m
		}
	}
	return MoodNeutral
}

// Audience closed set of target audiences
type Audience string

const (
	AudienceFamilies      Audience = "families"
	AudienceYoungAdults   Audience = "young_adults"
	AudienceProfessionals Audience = "professionals"
	AudienceArtists       Audience = "artists"
	AudienceGeneral       Audience = "general"
	AudienceChildren      Audience = "children"
	AudienceSeniors       Audience = "seniors"
)

var Audiences = []Audience{
	AudienceFamilies, AudienceYoungAdults, AudienceProfessionals, AudienceArtists,
	AudienceGeneral, AudienceChildren, AudienceSeniors,
}

// ParseAudience normalizes s; unknown values map to AudienceGeneral.
func ParseAudience(s string) Audience {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, " ", "_")
	for _, a := range Audiences {
		if string(a) == v {
			return a
		}
	}
	return AudienceGeneral
}

// Supported translation languages
const (
	LangEN = "en"
	LangRO = "ro"
)

// Languages closed set of translation targets
var Languages = []string{LangEN, LangRO}

// IsSupportedLanguage reports whether lang is a translation target.
func IsSupportedLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}
