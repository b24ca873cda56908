package whattodo

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
	a := NewWhatToDoAdapter(config.SourceConfig{BaseURL: srv.URL}, interfaces.SourceDeps{
		Logger:   logger,
		Location: loc,
		Now:      func() time.Time { return now },
	})

	events, err := a.FetchEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceName, a.GetName())
	require.Len(t, events, 1)

	assert.Equal(t, "Rock Concert in Old Town", events[0].Title)
	assert.Equal(t, time.Date(2025, 11, 24, 21, 0, 0, 0, loc), events[0].Date)
	assert.Equal(t, "Union Square", events[0].Location)

	for _, e := range events {
		assert.NotEmpty(t, e.Location)
		assert.Equal(t, "music", e.Category)
		assert.True(t, e.Date.After(now))
	}
}
