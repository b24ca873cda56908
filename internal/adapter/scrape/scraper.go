// Package scrape holds the HTML extraction shared by the scraping source adapters.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"CultureSync/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// Selectors goquery selectors for one site; the first match inside an item wins
type Selectors struct {
	Item        string
	Title       string
	Date        string
	Location    string
	Description string
}

// Defaults values stamped on every item of a source
type Defaults struct {
	Location    string
	Category    string
	VisitSource string
}

// Scraper fetches a listing page and turns its items into raw events
type Scraper struct {
	client   *http.Client
	logger   *logrus.Entry
	location *time.Location
	now      func() time.Time
}

func NewScraper(client *http.Client, logger *logrus.Entry, loc *time.Location, now func() time.Time) *Scraper {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scraper{client: client, logger: logger, location: loc, now: now}
}

// Fetch downloads and parses url
func (s *Scraper) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.WithError(err).Debug("close response body")
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Extract reads every item matching sel.Item. Items without a title or a date label are skipped;
// a broken item never aborts the rest of the page.
func (s *Scraper) Extract(doc *goquery.Document, sel Selectors, def Defaults) []model.RawEvent {
	now := s.now()
	var events []model.RawEvent
	doc.Find(sel.Item).Each(func(i int, item *goquery.Selection) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.WithField("item", i).Warnf("skipping unparsable item: %v", r)
			}
		}()

		title := firstText(item, sel.Title)
		dateLabel := firstText(item, sel.Date)
		if title == "" {
			return
		}
		date, ok := ParseEventDate(dateLabel, now, s.location)
		if !ok {
			return
		}

		location := firstText(item, sel.Location)
		if location == "" {
			location = def.Location
		}
		events = append(events, model.RawEvent{
			Title:               title,
			Date:                date,
			Location:            location,
			OriginalDescription: firstText(item, sel.Description),
			Category:            def.Category,
			VisitSource:         def.VisitSource,
		})
	})
	return events
}

// firstText trimmed, whitespace-collapsed text of the first match; "" when nothing matches
func firstText(item *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.Join(strings.Fields(item.Find(selector).First().Text()), " ")
}
