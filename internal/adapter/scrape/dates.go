package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonDateChars = regexp.MustCompile(`[^\d\s\-/.:]`)
	isoSeparator = regexp.MustCompile(`(\d)T(\d)`)
	clockPattern = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// datePattern one numeric layout; yearFirst selects YYYY-MM-DD group order
type datePattern struct {
	re        *regexp.Regexp
	yearFirst bool
}

// tried in order
var datePatterns = []datePattern{
	{re: regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})[-/](\d{4})`)}, // DD-MM-YYYY, DD/MM/YYYY
	{re: regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`), yearFirst: true},
	{re: regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)}, // DD.MM.YYYY
}

var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2 January 2006",
	"2 January 2006 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseEventDate turns a scraped date label into a timestamp in loc.
// Numeric patterns are tried first, then generic layouts, then "tomorrow".
// ok is false only for a blank label (the item has no date at all).
func ParseEventDate(raw string, now time.Time, loc *time.Location) (t time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	clean := isoSeparator.ReplaceAllString(raw, "$1 $2")
	clean = strings.TrimSpace(nonDateChars.ReplaceAllString(clean, ""))
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		var day, month, year int
		if p.yearFirst {
			year, month, day = atoi(m[1]), atoi(m[2]), atoi(m[3])
		} else {
			day, month, year = atoi(m[1]), atoi(m[2]), atoi(m[3])
		}
		if !validDate(year, month, day) {
			continue
		}
		hour, minute := clockOf(clean)
		return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc), true
	}

	for _, layout := range genericLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return parsed, true
		}
	}

	return Tomorrow(now, loc), true
}

// Tomorrow same wall clock time one day after now
func Tomorrow(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).AddDate(0, 0, 1)
}

// DaysFromNow local date now+days at hour:minute, used for static event sets
func DaysFromNow(now time.Time, loc *time.Location, days, hour, minute int) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	d := now.In(loc).AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || year < 1900 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}

func clockOf(s string) (hour, minute int) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0
	}
	h, mi := atoi(m[1]), atoi(m[2])
	if h > 23 || mi > 59 {
		return 0, 0
	}
	return h, mi
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
