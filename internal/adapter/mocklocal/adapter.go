// Package mocklocal synthesizes a fixed set of typical local cultural events.
package mocklocal

import (
	"context"
	"time"

	"CultureSync/internal/adapter"
	"CultureSync/internal/adapter/scrape"
	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/model"
)

const SourceName = "local_events"

func init() {
	adapter.Register(SourceName, NewMockLocalAdapter)
}

type mockEvent struct {
	title        string
	daysFromNow  int
	hour, minute int
	location     string
	description  string
	category     string
	visitSource  string
	ticketPrice  string
}

var mockEvents = []mockEvent{
	{"Jazz Night at Fratelli", 1, 20, 30, "Fratelli Studios",
		"Live jazz performance featuring local and international artists.", "music",
		"https://www.fratelli.ro/evenimente", "50 RON"},
	{"Art Exhibition - Contemporary Timișoara", 3, 10, 0, "Muzeul de Artă",
		"Showcasing modern art from local Timișoara artists.", "exhibition",
		"https://www.muzeuart-tm.ro/expozitii", "15 RON"},
	{"Food Festival - Banat Flavors", 5, 12, 0, "Piața Victoriei",
		"Traditional Banat cuisine festival with local restaurants.", "food",
		"https://www.primariatm.ro/evenimente/festival-banat", "Free entry"},
	{"Theater Performance - Hamlet", 7, 19, 30, "Teatrul Național",
		"Classic Shakespearean play in Romanian.", "theatre",
		"https://www.tnts.ro/spectacole/hamlet", "30-80 RON"},
	{"Tech Meetup - Web Development", 10, 18, 0, "UVT Campus",
		"Monthly meetup for web developers in Timișoara.", "technology",
		"https://www.meetup.com/timisoara-web-dev", "Free"},
	{"Christmas Market Opening", 14, 10, 0, "Piața Unirii",
		"Annual Christmas market with local crafts and food.", "cultural",
		"https://www.primariatm.ro/targul-de-craciun", "Free entry"},
}

// Adapter generates mockEvents relative to the current local date
type Adapter struct {
	loc *time.Location
	now func() time.Time
}

func NewMockLocalAdapter(_ config.SourceConfig, deps interfaces.SourceDeps) interfaces.SourceAdapter {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Adapter{loc: loc, now: now}
}

func (a *Adapter) GetName() string {
	return SourceName
}

func (a *Adapter) FetchEvents(ctx context.Context) ([]model.RawEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := a.now()
	events := make([]model.RawEvent, 0, len(mockEvents))
	for _, m := range mockEvents {
		events = append(events, model.RawEvent{
			Title:               m.title,
			Date:                scrape.DaysFromNow(now, a.loc, m.daysFromNow, m.hour, m.minute),
			Location:            m.location,
			OriginalDescription: m.description,
			Category:            m.category,
			VisitSource:         m.visitSource,
			TicketPrice:         m.ticketPrice,
		})
	}
	return events, nil
}
