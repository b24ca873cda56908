package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"CultureSync/internal/interfaces"
	"CultureSync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEventID_Deterministic(t *testing.T) {
	date := time.Date(2025, 6, 11, 20, 30, 0, 0, time.UTC)
	id := GenerateEventID("local_events", "Jazz Night", date, "Fratelli Studios")

	assert.Len(t, id, 16)
	assert.Equal(t, id, GenerateEventID("local_events", "Jazz Night", date, "Fratelli Studios"))

	eest := time.FixedZone("EEST", 3*3600)
	assert.Equal(t, id, GenerateEventID("local_events", "Jazz Night", date.In(eest), "Fratelli Studios"),
		"same instant in another zone")

	assert.NotEqual(t, id, GenerateEventID("what_to_do", "Jazz Night", date, "Fratelli Studios"))
	assert.NotEqual(t, id, GenerateEventID("local_events", "Jazz Night", date.Add(time.Minute), "Fratelli Studios"))
}

func TestDeduplicate_FirstOccurrenceWins(t *testing.T) {
	date := time.Date(2025, 6, 11, 20, 0, 0, 0, time.UTC)
	in := []model.SourcedEvent{
		sourced("a", raw("Jazz Night", date, "Fratelli")),
		sourced("b", raw("JAZZ NIGHT", date, "fratelli")),
		sourced("c", raw("Jazz Night!", date, "Fratelli")),
		sourced("d", raw("Jazz Night", date.Add(time.Hour), "Fratelli")),
	}

	out := Deduplicate(in)

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Source)
	assert.Equal(t, "c", out[1].Source, "punctuation is not normalized")
	assert.Equal(t, "d", out[2].Source)
	assert.Empty(t, Deduplicate(nil))
}

func TestSortByDate_Stable(t *testing.T) {
	d1 := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	d2 := d1.Add(24 * time.Hour)
	events := []model.SourcedEvent{
		sourced("a", raw("Late", d2, "x")),
		sourced("b", raw("Early one", d1, "x")),
		sourced("c", raw("Early two", d1, "y")),
	}

	SortByDate(events)

	assert.Equal(t, []string{"b", "c", "a"}, []string{events[0].Source, events[1].Source, events[2].Source})
}

func TestAggregator_CollectSurvivesFailingSources(t *testing.T) {
	date := fixedNow.Add(48 * time.Hour)
	good := &stubAdapter{name: "good", events: []model.RawEvent{raw("Concert", date, "Piața Unirii")}}
	failing := &stubAdapter{name: "failing", err: errors.New("site down")}
	panicking := &stubAdapter{name: "panicking", panics: true}

	agg := NewAggregator([]interfaces.SourceAdapter{failing, good, panicking}, quietLogger(), clock(fixedNow))
	out := agg.Collect(context.Background())

	require.Len(t, out, 1)
	assert.Equal(t, "good", out[0].Source)
	assert.Equal(t, GenerateEventID("good", "Concert", date, "Piața Unirii"), out[0].ID)
	assert.Equal(t, fixedNow, out[0].FetchedAt)
	assert.EqualValues(t, 1, panicking.calls.Load())
}

func TestAggregator_OrderIndependentOfLatency(t *testing.T) {
	base := fixedNow.Add(72 * time.Hour)
	var adapters []interfaces.SourceAdapter
	for i := 0; i < 5; i++ {
		adapters = append(adapters, &stubAdapter{
			name: fmt.Sprintf("src%d", i),
			// identical dates: the stable sort must keep adapter order
			events: []model.RawEvent{raw(fmt.Sprintf("Event %d", i), base, "Piața Unirii")},
		})
	}

	var want []string
	for run := 0; run < 5; run++ {
		for _, a := range adapters {
			a.(*stubAdapter).delay = time.Duration(rand.Intn(15)) * time.Millisecond
		}
		out := NewAggregator(adapters, quietLogger(), clock(fixedNow)).Collect(context.Background())
		require.Len(t, out, 5)

		var got []string
		for _, e := range out {
			got = append(got, e.Source)
		}
		if want == nil {
			want = got
		}
		assert.Equal(t, []string{"src0", "src1", "src2", "src3", "src4"}, got)
		assert.Equal(t, want, got)
	}
}

func TestCycle_EndToEndWithoutAI(t *testing.T) {
	d := fixedNow.Add(24 * time.Hour)
	adapters := []interfaces.SourceAdapter{
		&stubAdapter{name: "two", events: []model.RawEvent{
			raw("Hamlet", d.Add(48*time.Hour), "Teatrul Național"),
			raw("Jazz Night", d, "Fratelli Studios"),
		}},
		&stubAdapter{name: "none"},
		&stubAdapter{name: "one", events: []model.RawEvent{raw("Art Exhibition", d.Add(24*time.Hour), "Muzeul de Artă")}},
	}
	logger := quietLogger()
	sync := NewSyncService(
		NewAggregator(adapters, logger, clock(fixedNow)),
		NewEnricher(nil, nil, NoDelay(), logger, clock(fixedNow)),
		2, logger,
	)

	out, err := sync.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"Jazz Night", "Art Exhibition", "Hamlet"}, []string{out[0].Title, out[1].Title, out[2].Title})
	ids := map[string]struct{}{}
	for _, e := range out {
		require.NotEmpty(t, e.ID)
		ids[e.ID] = struct{}{}
	}
	assert.Len(t, ids, 3)
	for _, e := range out {
		assert.False(t, e.AIGenerated)
		assert.NotEmpty(t, e.EnhancedDescription)
		assert.Contains(t, e.Translations, model.LangEN)
		assert.Contains(t, e.Translations, model.LangRO)
	}
}

func TestSyncService_RunFailsOnDeadContext(t *testing.T) {
	logger := quietLogger()
	sync := NewSyncService(
		NewAggregator([]interfaces.SourceAdapter{&stubAdapter{name: "slow", delay: time.Second}}, logger, nil),
		NewEnricher(nil, nil, nil, logger, nil),
		5, logger,
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sync.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
