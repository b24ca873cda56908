package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CultureSync/internal/metrics"
	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// CacheState freshness of the cached event set
type CacheState string

const (
	CacheEmpty CacheState = "empty"
	CacheFresh CacheState = "fresh"
	CacheStale CacheState = "stale"
)

const refreshKey = "refresh"

// RefreshFunc one full aggregation+enrichment cycle
type RefreshFunc func(ctx context.Context) ([]model.EnrichedEvent, error)

// RefreshError a refresh cycle failed; the previous data is still served
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("cache refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// EventCache the process-wide enriched event set. Two writers exist: a refresh swaps
// data and lastUpdated together, Prepend adds one published event. At most one refresh
// runs at a time; concurrent callers share its result.
type EventCache struct {
	mu          sync.RWMutex
	data        []model.EnrichedEvent
	lastUpdated time.Time // zero: never populated
	refreshing  bool
	pending     []model.EnrichedEvent // prepended while a refresh is in flight

	group   singleflight.Group
	refresh RefreshFunc
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  *logrus.Logger
}

func NewEventCache(refresh RefreshFunc, ttl, timeout time.Duration, logger *logrus.Logger, now func() time.Time) *EventCache {
	if now == nil {
		now = time.Now
	}
	return &EventCache{
		refresh: refresh,
		ttl:     ttl,
		timeout: timeout,
		now:     now,
		logger:  logger,
	}
}

// State EMPTY until the first successful refresh, then FRESH while younger than the TTL
func (c *EventCache) State() CacheState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateLocked()
}

func (c *EventCache) stateLocked() CacheState {
	if c.lastUpdated.IsZero() {
		return CacheEmpty
	}
	if c.now().Sub(c.lastUpdated) >= c.ttl {
		return CacheStale
	}
	return CacheFresh
}

// Snapshot copy of the current data with its timestamp
func (c *EventCache) Snapshot() ([]model.EnrichedEvent, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.EnrichedEvent, len(c.data))
	copy(out, c.data)
	return out, c.lastUpdated
}

// Len number of cached events
func (c *EventCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Find event by id
func (c *EventCache) Find(id string) (model.EnrichedEvent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.data {
		if e.ID == id {
			return e, true
		}
	}
	return model.EnrichedEvent{}, false
}

// EnsureFresh refreshes when EMPTY or STALE; callers arriving during a refresh wait for it
func (c *EventCache) EnsureFresh(ctx context.Context) error {
	if c.State() == CacheFresh {
		return nil
	}
	_, err, _ := c.group.Do(refreshKey, func() (any, error) {
		// another caller may have finished a refresh while we queued
		if c.State() == CacheFresh {
			return nil, nil
		}
		return nil, c.runRefresh(ctx)
	})
	return err
}

// RefreshNow unconditional refresh; joins a refresh already in flight
func (c *EventCache) RefreshNow(ctx context.Context) (int, time.Time, error) {
	_, err, _ := c.group.Do(refreshKey, func() (any, error) {
		return nil, c.runRefresh(ctx)
	})
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data), c.lastUpdated, err
}

// Prepend publishes one event ahead of the current data without touching lastUpdated.
// An event prepended while a refresh is running is carried over into the refreshed data.
func (c *EventCache) Prepend(event model.EnrichedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append([]model.EnrichedEvent{event}, c.data...)
	if c.refreshing {
		c.pending = append(c.pending, event)
	}
	metrics.CacheEvents.Set(float64(len(c.data)))
}

func (c *EventCache) runRefresh(ctx context.Context) error {
	c.mu.Lock()
	c.refreshing = true
	c.pending = nil
	c.mu.Unlock()

	// the cycle outlives the request that triggered it, bounded by its own timeout
	rctx := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(rctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	data, err := c.callRefresh(rctx)
	metrics.CacheRefreshDuration.Observe(time.Since(start).Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()
	pending := c.pending
	c.refreshing = false
	c.pending = nil

	if err != nil {
		metrics.CacheRefreshes.WithLabelValues("failure").Inc()
		c.logger.WithError(err).Error("cache refresh failed, keeping previous data")
		return &RefreshError{Err: err}
	}

	merged := make([]model.EnrichedEvent, 0, len(pending)+len(data))
	for i := len(pending) - 1; i >= 0; i-- {
		merged = append(merged, pending[i])
	}
	merged = append(merged, data...)

	c.data = merged
	c.lastUpdated = c.now()
	metrics.CacheRefreshes.WithLabelValues("success").Inc()
	metrics.CacheEvents.Set(float64(len(c.data)))
	c.logger.WithFields(logrus.Fields{
		"count":   len(c.data),
		"pending": len(pending),
	}).Info("cache refreshed")
	return nil
}

func (c *EventCache) callRefresh(ctx context.Context) (data []model.EnrichedEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh panicked: %v", r)
		}
	}()
	return c.refresh(ctx)
}
