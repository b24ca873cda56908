package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"CultureSync/internal/model"
	"CultureSync/internal/translate"

	"github.com/sirupsen/logrus"
)

// ErrEventNotFound no cached event has the requested id
var ErrEventNotFound = errors.New("event not found")

// EventFilter query options of GetEvents
type EventFilter struct {
	Category string // matches the source category or the enriched category, case-insensitive
}

// EventList answer of GetEvents
type EventList struct {
	Events      []model.EnrichedEvent `json:"events"`
	Count       int                   `json:"count"`
	LastUpdated *time.Time            `json:"lastUpdated"`
}

// RefreshResult answer of RefreshNow
type RefreshResult struct {
	Count       int       `json:"count"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// CacheStatus cache part of the health report
type CacheStatus struct {
	EventsCount int        `json:"eventsCount"`
	LastUpdated *time.Time `json:"lastUpdated"`
	State       CacheState `json:"state"`
}

// HealthReport answer of Health
type HealthReport struct {
	Status      string      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	Uptime      float64     `json:"uptime"` // seconds
	CacheStatus CacheStatus `json:"cacheStatus"`
}

// EventService the operations exposed to the HTTP layer
type EventService struct {
	cache      *EventCache
	translator *translate.Translator
	verifier   *SubmissionVerifier
	logger     *logrus.Logger
	started    time.Time
	now        func() time.Time
}

func NewEventService(cache *EventCache, translator *translate.Translator, verifier *SubmissionVerifier, logger *logrus.Logger, now func() time.Time) *EventService {
	if now == nil {
		now = time.Now
	}
	return &EventService{
		cache:      cache,
		translator: translator,
		verifier:   verifier,
		logger:     logger,
		started:    now(),
		now:        now,
	}
}

// GetEvents refreshes a stale cache first. When the refresh fails and the cache still holds
// data from an earlier cycle, that data is served and the error is only logged.
func (s *EventService) GetEvents(ctx context.Context, filter EventFilter) (*EventList, error) {
	if err := s.cache.EnsureFresh(ctx); err != nil {
		if s.cache.State() == CacheEmpty {
			return nil, err
		}
		s.logger.WithError(err).Warn("serving previous events after failed refresh")
	}

	data, updated := s.cache.Snapshot()
	events := data
	if category := strings.TrimSpace(filter.Category); category != "" {
		events = make([]model.EnrichedEvent, 0, len(data))
		for _, e := range data {
			if strings.EqualFold(e.Category, category) || strings.EqualFold(string(e.AICategory), category) {
				events = append(events, e)
			}
		}
	}

	list := &EventList{Events: events, Count: len(events)}
	if !updated.IsZero() {
		list.LastUpdated = &updated
	}
	return list, nil
}

// GetEventByID looks the id up in the cache without refreshing
func (s *EventService) GetEventByID(_ context.Context, id string) (model.EnrichedEvent, error) {
	e, ok := s.cache.Find(id)
	if !ok {
		return model.EnrichedEvent{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return e, nil
}

// RefreshNow unconditional refresh
func (s *EventService) RefreshNow(ctx context.Context) (*RefreshResult, error) {
	count, updated, err := s.cache.RefreshNow(ctx)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{Count: count, LastUpdated: updated}, nil
}

// TranslateEvents returns copies of events with translations[lang] replaced. The input is not
// modified; an event whose translation fails is returned unchanged.
func (s *EventService) TranslateEvents(ctx context.Context, events []model.EnrichedEvent, lang string) ([]model.EnrichedEvent, error) {
	if !model.IsSupportedLanguage(lang) {
		return nil, fmt.Errorf("%w: %q", translate.ErrUnsupportedLanguage, lang)
	}

	out := make([]model.EnrichedEvent, len(events))
	var wg sync.WaitGroup
	for i := range events {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = s.translateOne(ctx, events[i], lang)
		}(i)
	}
	wg.Wait()
	return out, nil
}

func (s *EventService) translateOne(ctx context.Context, event model.EnrichedEvent, lang string) (out model.EnrichedEvent) {
	out = event.Clone()
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("event_id", event.ID).Errorf("translation panicked: %v", r)
			out = event.Clone()
		}
	}()

	tr, err := s.translator.Translate(ctx, event, lang)
	if err != nil {
		s.logger.WithError(err).WithField("event_id", event.ID).Warn("translation failed, returning event unchanged")
		return out
	}
	if out.Translations == nil {
		out.Translations = make(map[string]model.Translation, 1)
	}
	out.Translations[lang] = tr
	return out
}

// SubmitEvent verifies sub and publishes it into the cache when approved
func (s *EventService) SubmitEvent(ctx context.Context, sub model.UserSubmission) model.VerificationResult {
	return s.verifier.Submit(ctx, sub)
}

// UserEvents published submissions of one organizer
func (s *EventService) UserEvents(email string) []model.EnrichedEvent {
	email = strings.TrimSpace(email)
	data, _ := s.cache.Snapshot()
	out := make([]model.EnrichedEvent, 0)
	for _, e := range data {
		if e.Source == model.SourceUserSubmission && strings.EqualFold(e.OrganizerContact, email) {
			out = append(out, e)
		}
	}
	return out
}

// Health liveness plus cache status; never refreshes
func (s *EventService) Health() HealthReport {
	now := s.now()
	_, updated := s.cache.Snapshot()
	status := CacheStatus{
		EventsCount: s.cache.Len(),
		State:       s.cache.State(),
	}
	if !updated.IsZero() {
		status.LastUpdated = &updated
	}
	return HealthReport{
		Status:      "healthy",
		Timestamp:   now,
		Uptime:      now.Sub(s.started).Seconds(),
		CacheStatus: status,
	}
}
