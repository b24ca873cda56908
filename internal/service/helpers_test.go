package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
)

var errProviderDown = errors.New("provider down")

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fixedNow 2025-06-10 12:00 UTC
var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type stubProvider struct {
	mu     sync.Mutex
	name   string
	reply  string
	err    error
	calls  int
	prompt string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompt = prompt
	return s.reply, s.err
}

func (s *stubProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubAdapter struct {
	name   string
	events []model.RawEvent
	err    error
	delay  time.Duration
	panics bool
	calls  atomic.Int32
}

func (s *stubAdapter) GetName() string { return s.name }

func (s *stubAdapter) FetchEvents(ctx context.Context) ([]model.RawEvent, error) {
	s.calls.Add(1)
	if s.panics {
		panic("boom")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.events, s.err
}

func raw(title string, date time.Time, location string) model.RawEvent {
	return model.RawEvent{
		Title:               title,
		Date:                date,
		Location:            location,
		OriginalDescription: title + " description",
		Category:            "music",
	}
}

func sourced(source string, r model.RawEvent) model.SourcedEvent {
	return model.SourcedEvent{
		RawEvent:  r,
		ID:        GenerateEventID(source, r.Title, r.Date, r.Location),
		Source:    source,
		FetchedAt: fixedNow,
	}
}

func enriched(id, title string, date time.Time) model.EnrichedEvent {
	return model.EnrichedEvent{
		SourcedEvent: model.SourcedEvent{
			RawEvent: model.RawEvent{Title: title, Date: date, Location: "Piața Unirii", Category: "music"},
			ID:       id,
			Source:   "test",
		},
		AICategory: model.CategoryMusic,
		Tags:       []string{"music"},
	}
}
