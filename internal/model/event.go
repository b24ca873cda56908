package model

import "time"

// RawEvent an event as emitted by one source; never modified afterwards.
type RawEvent struct {
	Title               string    `json:"title"`
	Date                time.Time `json:"date"`
	Location            string    `json:"location"`
	OriginalDescription string    `json:"originalDescription"`
	Category            string    `json:"category"`              // coarse, unverified
	VisitSource         string    `json:"visitSource,omitempty"` // source page URL
	TicketPrice         string    `json:"ticketPrice,omitempty"`
}

// SourcedEvent RawEvent plus provenance, stamped by the Aggregator.
type SourcedEvent struct {
	RawEvent
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Translation one language rendering of the user-facing fields. All four fields are always set.
type Translation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	TicketPrice string `json:"ticketPrice"`
}

// EnrichedEvent SourcedEvent augmented by the Enricher (or synthesized from an approved submission).
type EnrichedEvent struct {
	SourcedEvent
	EnhancedDescription string                 `json:"enhancedDescription"`
	AICategory          Category               `json:"aiCategory"`
	Tags                []string               `json:"tags"`
	Mood                Mood                   `json:"mood"`
	TargetAudience      Audience               `json:"targetAudience"`
	Translations        map[string]Translation `json:"translations,omitempty"`
	AIGenerated         bool                   `json:"aiGenerated"`
	EnhancedAt          time.Time              `json:"enhancedAt"`
	EnhancementError    string                 `json:"enhancementError,omitempty"`

	// user submission fields
	Status            string     `json:"status,omitempty"`
	VerificationScore *int       `json:"verificationScore,omitempty"`
	OrganizerContact  string     `json:"organizerContact,omitempty"`
	Image             string     `json:"image,omitempty"`
	SubmittedAt       *time.Time `json:"submittedAt,omitempty"`
	PublishedAt       *time.Time `json:"publishedAt,omitempty"`
}

// RawView projection returned when enhanced output is not requested
type RawView struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Date                time.Time `json:"date"`
	Location            string    `json:"location"`
	OriginalDescription string    `json:"originalDescription"`
	Source              string    `json:"source"`
}

// Raw returns the raw projection of the event.
func (e EnrichedEvent) Raw() RawView {
	return RawView{
		ID:                  e.ID,
		Title:               e.Title,
		Date:                e.Date,
		Location:            e.Location,
		OriginalDescription: e.OriginalDescription,
		Source:              e.Source,
	}
}

// Description best available description, enhanced first.
func (e EnrichedEvent) Description() string {
	if e.EnhancedDescription != "" {
		return e.EnhancedDescription
	}
	return e.OriginalDescription
}

// Clone deep-copies the mutable parts (tags, translations) so callers can modify the copy freely.
func (e EnrichedEvent) Clone() EnrichedEvent {
	out := e
	if e.Tags != nil {
		out.Tags = append([]string(nil), e.Tags...)
	}
	if e.Translations != nil {
		out.Translations = make(map[string]Translation, len(e.Translations))
		for k, v := range e.Translations {
			out.Translations[k] = v
		}
	}
	return out
}

const (
	SourceUserSubmission = "user_submission"
	StatusPublished      = "published"
)
