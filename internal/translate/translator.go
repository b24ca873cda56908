// Package translate renders the user-facing fields of an event in English or Romanian,
// asking the AI providers first and falling back to a static dictionary.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"CultureSync/internal/ai"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/metrics"
	"CultureSync/internal/model"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// ErrUnsupportedLanguage target language outside model.Languages
var ErrUnsupportedLanguage = errors.New("unsupported language")

var languageNames = map[string]string{
	model.LangEN: "English",
	model.LangRO: "Romanian",
}

type Translator struct {
	providers []interfaces.AIProvider
	dict      *Dictionary
	logger    *logrus.Entry
}

// NewTranslator with no providers the translator is dictionary-only.
func NewTranslator(providers []interfaces.AIProvider, dict *Dictionary, logger *logrus.Logger) *Translator {
	if dict == nil {
		dict = DefaultDictionary()
	}
	return &Translator{
		providers: providers,
		dict:      dict,
		logger:    logger.WithField("component", "translator"),
	}
}

// Dictionary the fallback dictionary
func (t *Translator) Dictionary() *Dictionary {
	return t.dict
}

// SourceFields the four fields a translation is made of, taken from event
func SourceFields(event model.EnrichedEvent) model.Translation {
	return model.Translation{
		Title:       event.Title,
		Description: event.Description(),
		Location:    event.Location,
		TicketPrice: event.TicketPrice,
	}
}

// Translate renders event in lang. event is read only. The result always carries all four fields.
func (t *Translator) Translate(ctx context.Context, event model.EnrichedEvent, lang string) (model.Translation, error) {
	if !model.IsSupportedLanguage(lang) {
		return model.Translation{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	src := SourceFields(event)

	for _, p := range t.providers {
		tr, err := t.translateWithAI(ctx, p, src, lang)
		if err == nil {
			metrics.Translations.WithLabelValues(lang, "ai").Inc()
			return tr, nil
		}
		t.logger.WithError(err).WithFields(logrus.Fields{
			"provider": p.Name(),
			"event_id": event.ID,
		}).Debug("ai translation failed, trying next tier")
	}

	metrics.Translations.WithLabelValues(lang, "dictionary").Inc()
	return t.dict.TranslateFields(src, lang), nil
}

// Fallback dictionary-only translation, deterministic for a given dictionary
func (t *Translator) Fallback(event model.EnrichedEvent, lang string) (model.Translation, error) {
	if !model.IsSupportedLanguage(lang) {
		return model.Translation{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	return t.dict.TranslateFields(SourceFields(event), lang), nil
}

type aiTranslation struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	TicketPrice *string `json:"ticketPrice"`
}

func (t *Translator) translateWithAI(ctx context.Context, p interfaces.AIProvider, src model.Translation, lang string) (model.Translation, error) {
	prompt, err := buildTranslationPrompt(src, lang)
	if err != nil {
		return model.Translation{}, err
	}
	text, err := p.Generate(ctx, prompt)
	if err != nil {
		return model.Translation{}, err
	}

	var out aiTranslation
	if err := ai.DecodeJSON(text, &out); err != nil {
		return model.Translation{}, &ai.ProviderError{Provider: p.Name(), Err: err}
	}
	if out.Title == nil || out.Description == nil || out.Location == nil {
		return model.Translation{}, &ai.ProviderError{Provider: p.Name(), Err: errors.New("translation is missing fields")}
	}

	tr := model.Translation{
		Title:       strings.TrimSpace(*out.Title),
		Description: strings.TrimSpace(*out.Description),
		Location:    strings.TrimSpace(*out.Location),
	}
	if out.TicketPrice != nil {
		tr.TicketPrice = strings.TrimSpace(*out.TicketPrice)
	} else {
		tr.TicketPrice = t.dict.Translate(src.TicketPrice, lang)
	}
	if tr.Title == "" && src.Title != "" {
		return model.Translation{}, &ai.ProviderError{Provider: p.Name(), Err: errors.New("empty translated title")}
	}
	return tr, nil
}

func buildTranslationPrompt(src model.Translation, lang string) (string, error) {
	payload, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode translation input: %w", err)
	}
	return fmt.Sprintf(`Translate this Timișoara event into %s.
Keep authentic place names (venues, squares, streets) in their original form.
Translate prices naturally (for example "Free" / "Gratuit") and keep amounts and currencies.

%s

Respond only with valid JSON with exactly these keys: "title", "description", "location", "ticketPrice".`,
		languageNames[lang], payload), nil
}
