package scrape

import (
	"context"
	"time"

	"CultureSync/internal/config"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/metrics"
	"CultureSync/internal/model"
	"CultureSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Site everything that differs between two scraped listing sites
type Site struct {
	Name      string
	Selectors Selectors
	Defaults  Defaults
	// Fallback static events served when the site cannot be scraped
	Fallback func(now time.Time, loc *time.Location) []model.RawEvent
}

// SiteAdapter SourceAdapter over one scraped site
type SiteAdapter struct {
	site    Site
	cfg     config.SourceConfig
	scraper *Scraper
	logger  *logrus.Entry
	loc     *time.Location
	now     func() time.Time
}

func NewSiteAdapter(site Site, cfg config.SourceConfig, deps interfaces.SourceDeps) *SiteAdapter {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	base := deps.Logger
	if base == nil {
		base = logrus.StandardLogger()
	}
	logger := base.WithField("source", site.Name)
	return &SiteAdapter{
		site:    site,
		cfg:     cfg,
		scraper: NewScraper(httpclient.NewHTTPClient(cfg, base), logger, loc, now),
		logger:  logger,
		loc:     loc,
		now:     now,
	}
}

func (a *SiteAdapter) GetName() string {
	return a.site.Name
}

// FetchEvents never fails: network or parse problems are logged and answered with the fallback set
func (a *SiteAdapter) FetchEvents(ctx context.Context) ([]model.RawEvent, error) {
	if a.cfg.BaseURL == "" {
		a.logger.Debug("no base_url configured, serving fallback events")
		return a.fallback(), nil
	}

	doc, err := a.scraper.Fetch(ctx, a.cfg.BaseURL)
	if err != nil {
		a.logger.WithError(err).Warn("scraping failed, serving fallback events")
		return a.fallback(), nil
	}

	def := a.site.Defaults
	if def.VisitSource == "" {
		def.VisitSource = a.cfg.BaseURL
	}
	events := a.scraper.Extract(doc, a.site.Selectors, def)
	a.logger.WithField("count", len(events)).Debug("scraped events")
	return events, nil
}

func (a *SiteAdapter) fallback() []model.RawEvent {
	metrics.SourceFallbacks.WithLabelValues(a.site.Name).Inc()
	if a.site.Fallback == nil {
		return nil
	}
	return a.site.Fallback(a.now(), a.loc)
}
