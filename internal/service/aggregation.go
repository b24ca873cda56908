package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"CultureSync/internal/interfaces"
	"CultureSync/internal/metrics"
	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
)

// Aggregator fetches every source, stamps provenance, drops duplicates and sorts by date
type Aggregator struct {
	adapters []interfaces.SourceAdapter
	logger   *logrus.Logger
	now      func() time.Time
}

func NewAggregator(adapters []interfaces.SourceAdapter, logger *logrus.Logger, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		adapters: adapters,
		logger:   logger,
		now:      now,
	}
}

// Collect never fails: a source that errors or panics contributes no events.
func (a *Aggregator) Collect(ctx context.Context) []model.SourcedEvent {
	results := make([][]model.RawEvent, len(a.adapters))
	var wg sync.WaitGroup
	for i, ad := range a.adapters {
		wg.Add(1)
		go func(i int, ad interfaces.SourceAdapter) {
			defer wg.Done()
			results[i] = a.fetch(ctx, ad)
		}(i, ad)
	}
	wg.Wait()

	fetchedAt := a.now()
	var all []model.SourcedEvent
	for i, raws := range results {
		source := a.adapters[i].GetName()
		for _, raw := range raws {
			all = append(all, model.SourcedEvent{
				RawEvent:  raw,
				ID:        GenerateEventID(source, raw.Title, raw.Date, raw.Location),
				Source:    source,
				FetchedAt: fetchedAt,
			})
		}
	}

	unique := Deduplicate(all)
	SortByDate(unique)

	a.logger.WithFields(logrus.Fields{
		"sources":    len(a.adapters),
		"fetched":    len(all),
		"duplicates": len(all) - len(unique),
	}).Info("aggregation finished")
	return unique
}

func (a *Aggregator) fetch(ctx context.Context, ad interfaces.SourceAdapter) (events []model.RawEvent) {
	source := ad.GetName()
	entry := a.logger.WithField("source", source)
	defer func() {
		if r := recover(); r != nil {
			entry.Errorf("source adapter panicked: %v", r)
			metrics.SourceFailures.WithLabelValues(source).Inc()
			events = nil
		}
	}()

	events, err := ad.FetchEvents(ctx)
	if err != nil {
		entry.WithError(err).Warn("source fetch failed, skipping source")
		metrics.SourceFailures.WithLabelValues(source).Inc()
		return nil
	}
	metrics.SourceEventsFetched.WithLabelValues(source).Add(float64(len(events)))
	entry.WithField("count", len(events)).Debug("source fetched")
	return events
}

// isoDate canonical date text hashed into event ids
const isoDate = "2006-01-02T15:04:05.000Z"

// GenerateEventID stable id: same source, title, instant and location always give the same id
func GenerateEventID(source, title string, date time.Time, location string) string {
	data := fmt.Sprintf("%s-%s-%s-%s", source, title, date.UTC().Format(isoDate), location)
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])[:16]
}

// dedupKey case-insensitive title and location, exact instant
func dedupKey(e model.SourcedEvent) string {
	return strings.ToLower(e.Title) + "|" + e.Date.UTC().Format(time.RFC3339Nano) + "|" + strings.ToLower(e.Location)
}

// Deduplicate keeps the first event of every (title, date, location) group, preserving input order.
// Whitespace and punctuation are not normalized: "Jazz Night" and "Jazz Night!" stay distinct.
func Deduplicate(events []model.SourcedEvent) []model.SourcedEvent {
	seen := make(map[string]struct{}, len(events))
	out := make([]model.SourcedEvent, 0, len(events))
	for _, e := range events {
		key := dedupKey(e)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// SortByDate ascending, stable so equal dates keep source order
func SortByDate(events []model.SourcedEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
}
