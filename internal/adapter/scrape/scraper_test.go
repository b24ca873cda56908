package scrape

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<html><body>
<div class="event">
  <h3 class="title">  Concert de   Primăvară </h3>
  <span class="date">15.03.2025 19:00</span>
  <span class="location">Filarmonica Banatul</span>
  <p class="description">Orchestra simfonică.</p>
</div>
<div class="event">
  <h3 class="title">Expoziție foto</h3>
  <span class="date">2025-03-18</span>
</div>
<div class="event">
  <span class="date">20-03-2025</span>
</div>
<div class="event">
  <h3 class="title">Fără dată</h3>
</div>
</body></html>`

var testSelectors = Selectors{
	Item:        ".event",
	Title:       ".title",
	Date:        ".date",
	Location:    ".location",
	Description: ".description",
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestScraper_FetchAndExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(listingHTML))
		_ = gz.Close()
	}))
	defer srv.Close()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewScraper(srv.Client(), logrus.NewEntry(testLogger()), time.UTC, func() time.Time { return now })
	doc, err := s.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	events := s.Extract(doc, testSelectors, Defaults{Location: "Timișoara", Category: "cultural", VisitSource: srv.URL})
	require.Len(t, events, 2)

	assert.Equal(t, "Concert de Primăvară", events[0].Title)
	assert.Equal(t, time.Date(2025, 3, 15, 19, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, "Filarmonica Banatul", events[0].Location)
	assert.Equal(t, "Orchestra simfonică.", events[0].OriginalDescription)
	assert.Equal(t, "cultural", events[0].Category)
	assert.Equal(t, srv.URL, events[0].VisitSource)

	assert.Equal(t, "Expoziție foto", events[1].Title)
	assert.Equal(t, "Timișoara", events[1].Location)
	assert.Empty(t, events[1].OriginalDescription)
}

func TestScraper_FetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewScraper(srv.Client(), logrus.NewEntry(testLogger()), time.UTC, nil)
	_, err := s.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func testSite() Site {
	return Site{
		Name:      "test_site",
		Selectors: testSelectors,
		Defaults:  Defaults{Location: "Timișoara", Category: "official"},
		Fallback: func(now time.Time, loc *time.Location) []model.RawEvent {
			return []model.RawEvent{{Title: "Fallback", Date: DaysFromNow(now, loc, 2, 10, 0), Location: "Timișoara City Hall"}}
		},
	}
}

func TestSiteAdapter_ServesFallbackWhenSiteIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewSiteAdapter(testSite(), config.SourceConfig{BaseURL: srv.URL, Timeout: 2}, interfaces.SourceDeps{
		Logger:   testLogger(),
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})

	events, err := a.FetchEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Fallback", events[0].Title)
	assert.Equal(t, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), events[0].Date)
}

func TestSiteAdapter_WithoutBaseURLServesFallback(t *testing.T) {
	a := NewSiteAdapter(testSite(), config.SourceConfig{}, interfaces.SourceDeps{})
	events, err := a.FetchEvents(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "test_site", a.GetName())
}

func TestSiteAdapter_ScrapesAndStampsVisitSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingHTML))
	}))
	defer srv.Close()

	a := NewSiteAdapter(testSite(), config.SourceConfig{BaseURL: srv.URL}, interfaces.SourceDeps{Logger: testLogger()})
	events, err := a.FetchEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, srv.URL, e.VisitSource)
		assert.Equal(t, "official", e.Category)
	}
}
