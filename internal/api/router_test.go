package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CultureSync/internal/config"
	"CultureSync/internal/model"
	"CultureSync/internal/service"
	"CultureSync/internal/translate"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func fixtureEvents() []model.EnrichedEvent {
	mk := func(id, title, category string, aiCategory model.Category) model.EnrichedEvent {
		return model.EnrichedEvent{
			SourcedEvent: model.SourcedEvent{
				RawEvent: model.RawEvent{
					Title:               title,
					Date:                testNow.Add(24 * time.Hour),
					Location:            "Piața Unirii",
					OriginalDescription: title + " in the old town.",
					Category:            category,
				},
				ID:     id,
				Source: "local_events",
			},
			EnhancedDescription: "Enhanced " + title,
			AICategory:          aiCategory,
			Tags:                []string{"local"},
		}
	}
	return []model.EnrichedEvent{
		mk("e1", "Jazz Night at Fratelli", "music", model.CategoryMusic),
		mk("e2", "City Day", "official", model.CategoryOfficial),
	}
}

type testServer struct {
	router  *gin.Engine
	cache   *service.EventCache
	refresh int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := quietLogger()
	ts := &testServer{}
	now := func() time.Time { return testNow }

	ts.cache = service.NewEventCache(func(context.Context) ([]model.EnrichedEvent, error) {
		ts.refresh++
		return fixtureEvents(), nil
	}, 6*time.Hour, time.Minute, logger, now)
	verifier := service.NewSubmissionVerifier(nil, ts.cache, nil, service.VerifierOptions{
		LocalKeywords: config.DefaultLocalKeywords,
		Location:      time.UTC,
		Now:           now,
	}, logger)
	svc := service.NewEventService(ts.cache, translate.NewTranslator(nil, nil, logger), verifier, logger, now)
	ts.router = NewRouter(svc, logger, RouterOptions{Mode: gin.TestMode, Metrics: true})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestListEvents_RefreshesEmptyCacheOnce(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success     bool                  `json:"success"`
		Events      []model.EnrichedEvent `json:"events"`
		Count       int                   `json:"count"`
		LastUpdated *time.Time            `json:"lastUpdated"`
	}
	decode(t, w, &body)
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Count)
	require.NotNil(t, body.LastUpdated)

	ts.do(t, http.MethodGet, "/api/events", nil)
	assert.Equal(t, 1, ts.refresh)
}

func TestListEvents_CategoryAndRawView(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/events?category=Official&enhanced=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Events []map[string]any `json:"events"`
		Count  int              `json:"count"`
	}
	decode(t, w, &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "e2", body.Events[0]["id"])
	assert.NotContains(t, body.Events[0], "enhancedDescription")
	assert.Contains(t, body.Events[0], "originalDescription")

	w = ts.do(t, http.MethodGet, "/api/events?enhanced=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEvent(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/events/refresh", nil)

	w := ts.do(t, http.MethodGet, "/api/events/e1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Event model.EnrichedEvent `json:"event"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Jazz Night at Fratelli", body.Event.Title)

	w = ts.do(t, http.MethodGet, "/api/events/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshEvents(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/events/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count int `json:"count"`
	}
	decode(t, w, &body)
	assert.Equal(t, 2, body.Count)

	ts.do(t, http.MethodPost, "/api/events/refresh", nil)
	assert.Equal(t, 2, ts.refresh)
}

func TestTranslateEvents(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/translate-events", gin.H{
		"events":         fixtureEvents()[:1],
		"targetLanguage": "ro",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var out []model.EnrichedEvent
	decode(t, w, &out)
	require.Len(t, out, 1)
	assert.Equal(t, "Seară de Jazz la Fratelli", out[0].Translations[model.LangRO].Title)

	w = ts.do(t, http.MethodPost, "/api/translate-events", gin.H{"events": fixtureEvents(), "targetLanguage": "fr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/translate-events", gin.H{"targetLanguage": "ro"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitEvent_ApprovedThenListedForOrganizer(t *testing.T) {
	ts := newTestServer(t)
	sub := model.UserSubmission{
		Title:            "Jazz Evening at Fratelli",
		Description:      "An evening of live jazz music with local Timișoara musicians, celebrating the cultural heritage of Banat with a concert in the old town.",
		Date:             "2025-06-20",
		Location:         "Fratelli Studios, Timișoara",
		Category:         "music",
		OrganizerContact: "organizer@example.com",
	}

	w := ts.do(t, http.MethodPost, "/api/submit-event", sub)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Approved    bool   `json:"approved"`
		PublishedID string `json:"publishedId"`
		Scorer      string `json:"scorer"`
	}
	decode(t, w, &res)
	require.True(t, res.Approved)
	assert.NotEmpty(t, res.PublishedID)
	assert.Equal(t, "rule_based", res.Scorer)

	w = ts.do(t, http.MethodGet, "/api/user-events?email=organizer@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count  int                   `json:"count"`
		Events []model.EnrichedEvent `json:"events"`
	}
	decode(t, w, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, res.PublishedID, list.Events[0].ID)
}

func TestSubmitEvent_RejectionIsNotAnHTTPError(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/submit-event", gin.H{"title": "Jazz Evening"})
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Approved bool   `json:"approved"`
		Reason   string `json:"reason"`
	}
	decode(t, w, &res)
	assert.False(t, res.Approved)
	assert.Equal(t, string(model.ReasonMissingRequiredField), res.Reason)
	assert.Zero(t, ts.cache.Len())

	req := httptest.NewRequest(http.MethodPost, "/api/submit-event", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserEvents_RequiresEmail(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/user-events", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var h service.HealthReport
	decode(t, w, &h)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, service.CacheEmpty, h.CacheStatus.State)
	assert.Zero(t, ts.refresh, "health never refreshes")

	w = ts.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
