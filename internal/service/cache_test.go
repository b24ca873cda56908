package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"CultureSync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 6 * time.Hour

type countingRefresh struct {
	calls  atomic.Int32
	events []model.EnrichedEvent
	err    error
}

func (r *countingRefresh) Refresh(ctx context.Context) ([]model.EnrichedEvent, error) {
	r.calls.Add(1)
	return r.events, r.err
}

func newTestCache(refresh RefreshFunc, now func() time.Time) *EventCache {
	return NewEventCache(refresh, testTTL, time.Minute, quietLogger(), now)
}

func TestEventCache_StartsEmpty(t *testing.T) {
	c := newTestCache(nil, clock(fixedNow))
	assert.Equal(t, CacheEmpty, c.State())
	data, updated := c.Snapshot()
	assert.Empty(t, data)
	assert.True(t, updated.IsZero())
}

func TestEventCache_EnsureFreshHonoursTTL(t *testing.T) {
	cases := []struct {
		name  string
		age   time.Duration
		calls int32
	}{
		{"stale by a second", testTTL + time.Second, 1},
		{"fresh by a second", testTTL - time.Second, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &countingRefresh{events: []model.EnrichedEvent{enriched("new", "New", fixedNow)}}
			c := newTestCache(r.Refresh, clock(fixedNow))
			c.data = []model.EnrichedEvent{enriched("old", "Old", fixedNow)}
			c.lastUpdated = fixedNow.Add(-tc.age)

			require.NoError(t, c.EnsureFresh(context.Background()))

			assert.Equal(t, tc.calls, r.calls.Load())
			assert.Equal(t, CacheFresh, c.State())
		})
	}
}

func TestEventCache_EmptyCacheRefreshes(t *testing.T) {
	r := &countingRefresh{events: []model.EnrichedEvent{enriched("a", "A", fixedNow)}}
	c := newTestCache(r.Refresh, clock(fixedNow))

	require.NoError(t, c.EnsureFresh(context.Background()))

	assert.EqualValues(t, 1, r.calls.Load())
	data, updated := c.Snapshot()
	assert.Len(t, data, 1)
	assert.Equal(t, fixedNow, updated)
}

func TestEventCache_ConcurrentEnsureFreshRefreshesOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	refresh := func(ctx context.Context) ([]model.EnrichedEvent, error) {
		calls.Add(1)
		<-release
		return []model.EnrichedEvent{enriched("a", "A", fixedNow)}, nil
	}
	c := newTestCache(refresh, clock(fixedNow))

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.EnsureFresh(context.Background())
		}()
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestEventCache_FailedRefreshKeepsPreviousData(t *testing.T) {
	r := &countingRefresh{err: errors.New("aggregation blew up")}
	c := newTestCache(r.Refresh, clock(fixedNow))
	old := []model.EnrichedEvent{enriched("old", "Old", fixedNow)}
	lastUpdated := fixedNow.Add(-7 * time.Hour)
	c.data = old
	c.lastUpdated = lastUpdated

	err := c.EnsureFresh(context.Background())

	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)
	data, updated := c.Snapshot()
	assert.Equal(t, old, data)
	assert.Equal(t, lastUpdated, updated)
	assert.Equal(t, CacheStale, c.State())
}

func TestEventCache_PanickingRefreshIsAnError(t *testing.T) {
	c := newTestCache(func(context.Context) ([]model.EnrichedEvent, error) {
		panic("nil pointer")
	}, clock(fixedNow))

	_, _, err := c.RefreshNow(context.Background())

	assert.ErrorContains(t, err, "panicked")
	assert.Equal(t, CacheEmpty, c.State())
}

func TestEventCache_RefreshNowIsUnconditional(t *testing.T) {
	r := &countingRefresh{events: []model.EnrichedEvent{enriched("a", "A", fixedNow), enriched("b", "B", fixedNow)}}
	c := newTestCache(r.Refresh, clock(fixedNow))
	c.lastUpdated = fixedNow

	count, updated, err := c.RefreshNow(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, fixedNow, updated)
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestEventCache_RefreshOutlivesCallerContext(t *testing.T) {
	var sawErr error
	c := newTestCache(func(ctx context.Context) ([]model.EnrichedEvent, error) {
		sawErr = ctx.Err()
		return nil, nil
	}, clock(fixedNow))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.RefreshNow(ctx)

	require.NoError(t, err)
	assert.NoError(t, sawErr)
}

func TestEventCache_PrependKeepsTimestamp(t *testing.T) {
	c := newTestCache(nil, clock(fixedNow))
	c.data = []model.EnrichedEvent{enriched("a", "A", fixedNow)}
	c.lastUpdated = fixedNow.Add(-time.Hour)

	c.Prepend(enriched("user", "User Event", fixedNow))

	data, updated := c.Snapshot()
	require.Len(t, data, 2)
	assert.Equal(t, "user", data[0].ID)
	assert.Equal(t, fixedNow.Add(-time.Hour), updated)

	found, ok := c.Find("user")
	assert.True(t, ok)
	assert.Equal(t, "User Event", found.Title)
	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestEventCache_PrependDuringRefreshIsNotLost(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := newTestCache(func(context.Context) ([]model.EnrichedEvent, error) {
		close(started)
		<-release
		return []model.EnrichedEvent{enriched("a", "A", fixedNow), enriched("b", "B", fixedNow)}, nil
	}, clock(fixedNow))

	done := make(chan error)
	go func() {
		_, _, err := c.RefreshNow(context.Background())
		done <- err
	}()
	<-started
	c.Prepend(enriched("first", "First", fixedNow))
	c.Prepend(enriched("second", "Second", fixedNow))
	close(release)
	require.NoError(t, <-done)

	data, _ := c.Snapshot()
	var ids []string
	for _, e := range data {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"second", "first", "a", "b"}, ids)
}

func TestEventCache_SnapshotIsACopy(t *testing.T) {
	c := newTestCache(nil, clock(fixedNow))
	c.data = []model.EnrichedEvent{enriched("a", "A", fixedNow)}

	data, _ := c.Snapshot()
	data[0].Title = "changed"

	got, _ := c.Find("a")
	assert.Equal(t, "A", got.Title)
}
