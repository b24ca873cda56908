package model

import "strings"

// UserSubmission event proposed by an organizer through the public form
type UserSubmission struct {
	Title            string `json:"title" validate:"required,min=5"`
	Description      string `json:"description" validate:"required,min=20"`
	Date             string `json:"date" validate:"required"`
	Location         string `json:"location" validate:"required,localarea"`
	Category         string `json:"category" validate:"required"`
	OrganizerContact string `json:"organizerContact" validate:"required,email"`
	Website          string `json:"website,omitempty"`
	TicketPrice      string `json:"ticketPrice,omitempty"`
	Image            string `json:"image,omitempty"`
	Tags             string `json:"tags,omitempty"` // comma separated
}

// TagSet splits Tags into a lower-cased, de-duplicated, order-preserving set.
func (s UserSubmission) TagSet() []string {
	if strings.TrimSpace(s.Tags) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, t := range strings.Split(s.Tags, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// RejectReason why a submission was not published
type RejectReason string

const (
	ReasonMissingRequiredField RejectReason = "missing_required_field"
	ReasonInvalidEmail         RejectReason = "invalid_email"
	ReasonInvalidDate          RejectReason = "invalid_date"
	ReasonPastDate             RejectReason = "past_date"
	ReasonOutOfArea            RejectReason = "out_of_area"
	ReasonTitleTooShort        RejectReason = "title_too_short"
	ReasonDescriptionTooShort  RejectReason = "description_too_short"
	ReasonLowQuality           RejectReason = "low_quality"
)

// Scorer which path produced a verification score
type Scorer string

const (
	ScorerNone      Scorer = "none" // rejected before scoring
	ScorerAI        Scorer = "ai"
	ScorerRuleBased Scorer = "rule_based"
)

// VerificationResult outcome of SubmissionVerifier.Verify
type VerificationResult struct {
	Approved    bool         `json:"approved"`
	Score       int          `json:"score"`
	Reason      RejectReason `json:"reason,omitempty"`
	Feedback    string       `json:"feedback"`
	Suggestions []string     `json:"suggestions,omitempty"`
	Scorer      Scorer       `json:"scorer"`
	PublishedID string       `json:"publishedId,omitempty"`
}
