package official

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchEvents_FallbackWhenSiteIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	loc := time.FixedZone("EET", 2*3600)
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, loc)
	a := NewOfficialAdapter(config.SourceConfig{BaseURL: srv.URL}, interfaces.SourceDeps{
		Logger:   logger,
		Location: loc,
		Now:      func() time.Time { return now },
	})

	events, err := a.FetchEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceName, a.GetName())
	require.Len(t, events, 2)

	assert.Equal(t, "City Council - Public Session", events[0].Title)
	assert.Equal(t, time.Date(2025, 11, 22, 10, 0, 0, 0, loc), events[0].Date)
	assert.Equal(t, "Timișoara City Day", events[1].Title)
	assert.Equal(t, time.Date(2025, 12, 20, 9, 0, 0, 0, loc), events[1].Date)

	for _, e := range events {
		assert.NotEmpty(t, e.Location)
		assert.Equal(t, "official", e.Category)
		assert.True(t, e.Date.After(now))
	}
}
