package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"CultureSync/internal/metrics"
	"CultureSync/internal/model"
	"CultureSync/internal/translate"

	"github.com/sirupsen/logrus"
)

const DefaultBatchSize = 5

// Enricher turns sourced events into enriched ones: AI tiers in order, then the rule-based heuristic
type Enricher struct {
	chain   []Enhancer
	dict    *translate.Dictionary
	limiter RateLimiter
	logger  *logrus.Logger
	now     func() time.Time
}

// NewEnricher an empty chain means rule-based only
func NewEnricher(chain []Enhancer, dict *translate.Dictionary, limiter RateLimiter, logger *logrus.Logger, now func() time.Time) *Enricher {
	if dict == nil {
		dict = translate.DefaultDictionary()
	}
	if limiter == nil {
		limiter = NoDelay()
	}
	if now == nil {
		now = time.Now
	}
	return &Enricher{
		chain:   chain,
		dict:    dict,
		limiter: limiter,
		logger:  logger,
		now:     now,
	}
}

// EnrichAll enhances events batchSize at a time. result[i] always corresponds to events[i].
func (e *Enricher) EnrichAll(ctx context.Context, events []model.SourcedEvent, batchSize int) []model.EnrichedEvent {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	out := make([]model.EnrichedEvent, len(events))
	batches := (len(events) + batchSize - 1) / batchSize

	for b, start := 0, 0; start < len(events); b, start = b+1, start+batchSize {
		end := min(start+batchSize, len(events))
		if err := e.limiter.Wait(ctx); err != nil {
			// keep going: a dead context makes the AI tiers fail fast into the fallback
			e.logger.WithError(err).Debug("batch limiter aborted")
		}
		e.logger.WithFields(logrus.Fields{
			"batch": fmt.Sprintf("%d/%d", b+1, batches),
			"size":  end - start,
		}).Debug("enhancing batch")

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				out[i] = e.Enhance(ctx, events[i])
			}(i)
		}
		wg.Wait()
	}

	e.logger.WithField("count", len(out)).Info("enrichment finished")
	return out
}

// Enhance one event. Never fails: every AI tier failing, or a panic, yields the rule-based record.
func (e *Enricher) Enhance(ctx context.Context, event model.SourcedEvent) (result model.EnrichedEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WithField("event_id", event.ID).Errorf("enhancement panicked: %v", r)
			result = e.fallback(event, fmt.Errorf("enhancement panicked: %v", r))
		}
	}()

	var errs []error
	for _, tier := range e.chain {
		enh, err := tier.Enhance(ctx, event)
		if err == nil {
			metrics.EnrichmentResults.WithLabelValues(tier.Name()).Inc()
			return e.build(event, enh, true)
		}
		e.logger.WithError(err).WithFields(logrus.Fields{
			"event_id": event.ID,
			"tier":     tier.Name(),
		}).Debug("enhancement tier failed")
		errs = append(errs, err)
	}
	return e.fallback(event, errors.Join(errs...))
}

func (e *Enricher) fallback(event model.SourcedEvent, cause error) model.EnrichedEvent {
	metrics.EnrichmentResults.WithLabelValues(RuleBasedTier).Inc()
	out := e.build(event, RuleBasedEnhancement(event), false)
	if cause != nil {
		out.EnhancementError = cause.Error()
	}
	return out
}

// build applies enh to event; translations the tier left out come from the dictionary
func (e *Enricher) build(event model.SourcedEvent, enh Enhancement, aiGenerated bool) model.EnrichedEvent {
	out := model.EnrichedEvent{
		SourcedEvent:        event,
		EnhancedDescription: enh.Description,
		AICategory:          enh.Category,
		Tags:                enh.Tags,
		Mood:                enh.Mood,
		TargetAudience:      enh.Audience,
		AIGenerated:         aiGenerated,
		EnhancedAt:          e.now(),
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}

	out.Translations = make(map[string]model.Translation, len(model.Languages))
	for _, lang := range model.Languages {
		if tr, ok := enh.Translations[lang]; ok {
			out.Translations[lang] = tr
			continue
		}
		out.Translations[lang] = e.dict.TranslateFields(translate.SourceFields(out), lang)
	}
	return out
}
