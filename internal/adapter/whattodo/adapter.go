// Package whattodo scrapes the entertainment listings of a city guide.
package whattodo

import (
	"time"

	"CultureSync/internal/adapter"
	"CultureSync/internal/adapter/scrape"
	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/model"
)

const SourceName = "what_to_do"

func init() {
	adapter.Register(SourceName, NewWhatToDoAdapter)
}

var site = scrape.Site{
	Name: SourceName,
	Selectors: scrape.Selectors{
		Item:        `.event-item, .card, [class*="event"]`,
		Title:       `h2, h3, .event-title, [class*="title"]`,
		Date:        `.date, [class*="date"]`,
		Location:    `.venue, .location, [class*="location"]`,
		Description: `.description, [class*="desc"]`,
	},
	Defaults: scrape.Defaults{
		Location: "Timișoara",
		Category: "entertainment",
	},
	Fallback: fallbackEvents,
}

func NewWhatToDoAdapter(cfg config.SourceConfig, deps interfaces.SourceDeps) interfaces.SourceAdapter {
	return scrape.NewSiteAdapter(site, cfg, deps)
}

func fallbackEvents(now time.Time, loc *time.Location) []model.RawEvent {
	return []model.RawEvent{
		{
			Title:               "Rock Concert in Old Town",
			Date:                scrape.DaysFromNow(now, loc, 4, 21, 0),
			Location:            "Union Square",
			OriginalDescription: "Rock concert featuring local bands.",
			Category:            "music",
		},
	}
}
