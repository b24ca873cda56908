package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"CultureSync/internal/ai"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/model"
)

// AIEnhancer enhancement tier backed by one AI provider
type AIEnhancer struct {
	provider interfaces.AIProvider
}

func NewAIEnhancer(provider interfaces.AIProvider) *AIEnhancer {
	return &AIEnhancer{provider: provider}
}

// NewAIChain one enhancer per provider, keeping provider order
func NewAIChain(providers []interfaces.AIProvider) []Enhancer {
	chain := make([]Enhancer, 0, len(providers))
	for _, p := range providers {
		chain = append(chain, NewAIEnhancer(p))
	}
	return chain
}

func (e *AIEnhancer) Name() string {
	return e.provider.Name()
}

type aiEnhancement struct {
	Description    string                       `json:"description"`
	Category       string                       `json:"category"`
	Tags           []string                     `json:"tags"`
	Mood           string                       `json:"mood"`
	TargetAudience string                       `json:"targetAudience"`
	Translations   map[string]model.Translation `json:"translations"`
}

// Enhance an unreachable provider and an unusable answer are the same failure
func (e *AIEnhancer) Enhance(ctx context.Context, event model.SourcedEvent) (Enhancement, error) {
	text, err := e.provider.Generate(ctx, buildEnhancementPrompt(event))
	if err != nil {
		return Enhancement{}, err
	}

	var out aiEnhancement
	if err := ai.DecodeJSON(text, &out); err != nil {
		return Enhancement{}, &ai.ProviderError{Provider: e.Name(), Err: err}
	}
	if strings.TrimSpace(out.Description) == "" {
		return Enhancement{}, &ai.ProviderError{Provider: e.Name(), Err: errors.New("response has no description")}
	}

	tags := newTagSet(maxTags)
	tags.add(out.Tags...)

	translations := make(map[string]model.Translation)
	for lang, tr := range out.Translations {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if model.IsSupportedLanguage(lang) && completeTranslation(tr) {
			translations[lang] = tr
		}
	}

	return Enhancement{
		Description:  strings.TrimSpace(out.Description),
		Category:     model.ParseCategory(out.Category),
		Tags:         tags.list,
		Mood:         model.ParseMood(out.Mood),
		Audience:     model.ParseAudience(out.TargetAudience),
		Translations: translations,
	}, nil
}

func completeTranslation(tr model.Translation) bool {
	return strings.TrimSpace(tr.Title) != "" && strings.TrimSpace(tr.Description) != "" && strings.TrimSpace(tr.Location) != ""
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func buildEnhancementPrompt(event model.SourcedEvent) string {
	description := event.OriginalDescription
	if description == "" {
		description = "No description provided"
	}
	category := event.Category
	if category == "" {
		category = "unknown"
	}

	return fmt.Sprintf(`Analyze this Timișoara event and provide enhancement in JSON format:

Event Title: %s
Date: %s
Location: %s
Original Description: %s
Category: %s

Please provide a JSON response with:
1. "description": An engaging, informative description (100-200 words) that highlights what makes this event special in Timișoara's cultural context
2. "category": One of [%s]
3. "tags": Array of 3-5 relevant tags
4. "mood": One of [%s]
5. "targetAudience": One of [%s]
6. "translations": {"en": {...}, "ro": {...}}, each with "title", "description", "location", "ticketPrice"

Keep authentic place names. Respond only with valid JSON.`,
		event.Title, event.Date.Format("2006-01-02 15:04"), event.Location, description, category,
		joinValues(model.Categories), joinValues(model.Moods), joinValues(model.Audiences))
}
