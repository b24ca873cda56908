package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"CultureSync/internal/ai"
	"CultureSync/internal/interfaces"
	"CultureSync/internal/metrics"
	"CultureSync/internal/model"
	"CultureSync/internal/translate"
	"CultureSync/internal/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultApprovalThreshold = 70

// Publisher receives approved submissions
type Publisher interface {
	Prepend(event model.EnrichedEvent)
}

// SubmissionVerifier basic checks, then AI scoring with a rule-based fallback, then auto-publish
type SubmissionVerifier struct {
	providers []interfaces.AIProvider
	validator *validation.Validator
	dict      *translate.Dictionary
	publisher Publisher
	threshold int
	location  *time.Location
	now       func() time.Time
	newID     func() string
	logger    *logrus.Logger
}

type VerifierOptions struct {
	Threshold     int
	LocalKeywords []string
	Location      *time.Location
	Now           func() time.Time
	NewID         func() string
}

func NewSubmissionVerifier(providers []interfaces.AIProvider, publisher Publisher, dict *translate.Dictionary, opts VerifierOptions, logger *logrus.Logger) *SubmissionVerifier {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultApprovalThreshold
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newTimeBasedID
	}
	if dict == nil {
		dict = translate.DefaultDictionary()
	}
	return &SubmissionVerifier{
		providers: providers,
		validator: validation.New(opts.LocalKeywords),
		dict:      dict,
		publisher: publisher,
		threshold: opts.Threshold,
		location:  opts.Location,
		now:       opts.Now,
		newID:     opts.NewID,
		logger:    logger,
	}
}

// newTimeBasedID UUIDv7: time ordered, unique within the process
func newTimeBasedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Submit verifies sub and publishes it when approved
func (v *SubmissionVerifier) Submit(ctx context.Context, sub model.UserSubmission) model.VerificationResult {
	sub = trimSubmission(sub)
	res, date := v.verify(ctx, sub)

	entry := v.logger.WithFields(logrus.Fields{
		"title":  sub.Title,
		"score":  res.Score,
		"scorer": res.Scorer,
	})
	if !res.Approved {
		metrics.Submissions.WithLabelValues("rejected", string(res.Scorer)).Inc()
		entry.WithField("reason", res.Reason).Info("submission rejected")
		return res
	}

	event := v.publishable(sub, date, res.Score)
	if v.publisher != nil {
		v.publisher.Prepend(event)
	}
	res.PublishedID = event.ID
	metrics.Submissions.WithLabelValues("approved", string(res.Scorer)).Inc()
	entry.WithField("event_id", event.ID).Info("submission approved and published")
	return res
}

// Verify runs the checks without publishing
func (v *SubmissionVerifier) Verify(ctx context.Context, sub model.UserSubmission) model.VerificationResult {
	res, _ := v.verify(ctx, trimSubmission(sub))
	return res
}

func (v *SubmissionVerifier) verify(ctx context.Context, sub model.UserSubmission) (model.VerificationResult, time.Time) {
	date, rejection := v.basicChecks(sub)
	if rejection != nil {
		return *rejection, time.Time{}
	}

	for _, p := range v.providers {
		res, err := v.scoreWithAI(ctx, p, sub)
		if err == nil {
			return res, date
		}
		v.logger.WithError(err).WithField("provider", p.Name()).Debug("ai scoring failed, trying next tier")
	}
	return v.scoreWithRules(sub), date
}

func trimSubmission(s model.UserSubmission) model.UserSubmission {
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Date = strings.TrimSpace(s.Date)
	s.Location = strings.TrimSpace(s.Location)
	s.Category = strings.TrimSpace(s.Category)
	s.OrganizerContact = strings.TrimSpace(s.OrganizerContact)
	s.Website = strings.TrimSpace(s.Website)
	s.TicketPrice = strings.TrimSpace(s.TicketPrice)
	s.Image = strings.TrimSpace(s.Image)
	return s
}

func reject(reason model.RejectReason, feedback string, suggestions ...string) *model.VerificationResult {
	return &model.VerificationResult{
		Approved:    false,
		Score:       0,
		Reason:      reason,
		Feedback:    feedback,
		Suggestions: suggestions,
		Scorer:      model.ScorerNone,
	}
}

// basicChecks first failing rule in reason precedence order; no AI involved
func (v *SubmissionVerifier) basicChecks(sub model.UserSubmission) (time.Time, *model.VerificationResult) {
	var verr *validation.RequestValidationError
	if err := v.validator.Struct(sub); err != nil && !errors.As(err, &verr) {
		return time.Time{}, reject(model.ReasonMissingRequiredField, err.Error())
	}
	has := func(field, tag string) bool { return verr != nil && verr.Has(field, tag) }

	if has("", "required") {
		var missing []string
		for _, f := range verr.Fields {
			if f.Tag == "required" {
				missing = append(missing, f.Field)
			}
		}
		return time.Time{}, reject(model.ReasonMissingRequiredField,
			fmt.Sprintf("Please fill in all required fields: %s.", strings.Join(missing, ", ")),
			"Title, description, date, location, category and organizer contact are required.")
	}
	if has("organizerContact", "email") {
		return time.Time{}, reject(model.ReasonInvalidEmail,
			"The organizer contact must be a valid email address.",
			"Use an address like name@example.com so we can reach you about the event.")
	}

	date, ok := parseSubmissionDate(sub.Date, v.location)
	if !ok {
		return time.Time{}, reject(model.ReasonInvalidDate,
			fmt.Sprintf("We could not read the event date %q.", sub.Date),
			"Use the YYYY-MM-DD format, optionally followed by the start time.")
	}
	if isBeforeToday(date, v.now(), v.location) {
		return time.Time{}, reject(model.ReasonPastDate,
			"The event date is in the past.",
			"Only upcoming events can be published.")
	}

	if has("location", validation.TagLocalArea) {
		return time.Time{}, reject(model.ReasonOutOfArea,
			"The event location does not appear to be in the Timișoara area.",
			"Mention the venue and the neighbourhood or city, for example \"Piața Unirii, Timișoara\".")
	}
	if has("title", "min") {
		return time.Time{}, reject(model.ReasonTitleTooShort,
			"The title is too short (at least 5 characters).",
			"Use a descriptive title that names the event.")
	}
	if has("description", "min") {
		return time.Time{}, reject(model.ReasonDescriptionTooShort,
			"The description is too short (at least 20 characters).",
			"Describe the program, the performers and who the event is for.")
	}
	return date, nil
}

var submissionDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"02.01.2006",
	"02.01.2006 15:04",
	"02/01/2006",
}

func parseSubmissionDate(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range submissionDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isBeforeToday calendar-day comparison in loc, time of day ignored
func isBeforeToday(date, now time.Time, loc *time.Location) bool {
	dy, dm, dd := date.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	day := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return day.Before(today)
}

type aiVerdict struct {
	Approved    *bool    `json:"approved"`
	Score       *float64 `json:"score"`
	Reason      *string  `json:"reason"`
	Feedback    *string  `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

func (v *SubmissionVerifier) scoreWithAI(ctx context.Context, p interfaces.AIProvider, sub model.UserSubmission) (model.VerificationResult, error) {
	text, err := p.Generate(ctx, buildVerificationPrompt(sub, v.threshold))
	if err != nil {
		return model.VerificationResult{}, err
	}
	var out aiVerdict
	if err := ai.DecodeJSON(text, &out); err != nil {
		return model.VerificationResult{}, &ai.ProviderError{Provider: p.Name(), Err: err}
	}
	if out.Approved == nil || out.Score == nil || out.Reason == nil || out.Feedback == nil {
		return model.VerificationResult{}, &ai.ProviderError{Provider: p.Name(), Err: errors.New("verdict is missing fields")}
	}
	if *out.Score < 0 || *out.Score > 100 {
		return model.VerificationResult{}, &ai.ProviderError{Provider: p.Name(), Err: fmt.Errorf("score %v out of range", *out.Score)}
	}
	score := int(*out.Score + 0.5)

	res := model.VerificationResult{
		Approved:    *out.Approved && score >= v.threshold,
		Score:       score,
		Feedback:    strings.TrimSpace(*out.Feedback),
		Suggestions: out.Suggestions,
		Scorer:      model.ScorerAI,
	}
	if !res.Approved {
		res.Reason = model.ReasonLowQuality
		if r := strings.TrimSpace(*out.Reason); r != "" && !strings.Contains(res.Feedback, r) {
			res.Feedback = strings.TrimSpace(r + ". " + res.Feedback)
		}
	}
	return res, nil
}

func buildVerificationPrompt(sub model.UserSubmission, threshold int) string {
	return fmt.Sprintf(`You review community event submissions for a Timișoara cultural events site.

Title: %s
Description: %s
Date: %s
Location: %s
Category: %s
Website: %s
Ticket price: %s
Tags: %s
Has image: %t

Score the submission out of 100:
- cultural relevance to Timișoara: 0-30
- content quality: 0-25
- absence of spam or promotion: 0-20
- appropriateness: 0-15
- completeness: 0-10

Approve only with a total of at least %d.
Respond only with valid JSON: {"approved": bool, "score": number, "reason": string, "feedback": string, "suggestions": [string]}`,
		sub.Title, sub.Description, sub.Date, sub.Location, sub.Category,
		orNone(sub.Website), orNone(sub.TicketPrice), orNone(sub.Tags), sub.Image != "", threshold)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

var (
	culturalKeywords = []string{
		"culture", "cultural", "art", "arts", "music", "concert", "jazz", "theater", "theatre", "teatru",
		"festival", "exhibition", "expoziție", "film", "cinema", "dance", "dans", "heritage", "traditional",
		"tradițional", "workshop", "museum", "muzeu", "opera", "literature", "poetry", "community",
		"timișoara", "timisoara", "banat", "local", "muzică", "spectacol",
	}
	spamPhrases = []string{
		"buy now", "click here", "limited offer", "100% free", "make money", "casino", "bitcoin",
		"discount code", "earn cash", "!!!", "crypto", "lottery",
	}
	inappropriateWords = []string{
		"violence", "xxx", "porn", "drugs", "hate", "weapon", "weapons", "nazi", "escort",
	}
)

// rubric maxima
const (
	maxCultural     = 30
	maxQuality      = 25
	maxSpam         = 20
	maxAppropriate  = 15
	maxCompleteness = 10
)

// scoreWithRules deterministic version of the AI rubric
func (v *SubmissionVerifier) scoreWithRules(sub model.UserSubmission) model.VerificationResult {
	text := strings.ToLower(sub.Title + " " + sub.Description + " " + sub.Category + " " + sub.Tags)
	w := words(text)

	cultural := 0
	for _, k := range culturalKeywords {
		if _, ok := w[k]; ok {
			cultural += 6
		}
	}
	cultural = min(cultural, maxCultural)

	var quality int
	switch n := utf8.RuneCountInString(sub.Description); {
	case n >= 200:
		quality = 25
	case n >= 100:
		quality = 20
	case n >= 50:
		quality = 15
	default:
		quality = 8
	}

	spam := maxSpam
	for _, p := range spamPhrases {
		if strings.Contains(text, p) {
			spam -= 10
		}
	}
	spam = max(spam, 0)

	appropriate := maxAppropriate
	for _, bad := range inappropriateWords {
		if _, ok := w[bad]; ok {
			appropriate = 0
			break
		}
	}

	completeness := 0
	if sub.Website != "" {
		completeness += 3
	}
	if sub.TicketPrice != "" {
		completeness += 3
	}
	if len(sub.TagSet()) > 0 {
		completeness += 2
	}
	if sub.Image != "" {
		completeness += 2
	}

	score := cultural + quality + spam + appropriate + completeness
	res := model.VerificationResult{
		Approved: score >= v.threshold,
		Score:    score,
		Scorer:   model.ScorerRuleBased,
	}

	if cultural < maxCultural/2 {
		res.Suggestions = append(res.Suggestions, "Explain what makes the event culturally relevant for Timișoara.")
	}
	if quality < 20 {
		res.Suggestions = append(res.Suggestions, "Write a longer description (at least 100 characters) covering the program and the audience.")
	}
	if spam < maxSpam {
		res.Suggestions = append(res.Suggestions, "Remove promotional phrases and excessive punctuation.")
	}
	if appropriate == 0 {
		res.Suggestions = append(res.Suggestions, "Remove content that is not appropriate for a general audience.")
	}
	if completeness < maxCompleteness {
		res.Suggestions = append(res.Suggestions, "Add a website, ticket price, tags or an image.")
	}

	if res.Approved {
		res.Feedback = fmt.Sprintf("Your event meets our quality standards (%d/100) and has been published.", score)
	} else {
		res.Reason = model.ReasonLowQuality
		res.Feedback = fmt.Sprintf("Your event scored %d/100; at least %d is needed to publish it.", score, v.threshold)
	}
	return res
}

// publishable the cache record of an approved submission
func (v *SubmissionVerifier) publishable(sub model.UserSubmission, date time.Time, score int) model.EnrichedEvent {
	now := v.now()
	sourced := model.SourcedEvent{
		RawEvent: model.RawEvent{
			Title:               sub.Title,
			Date:                date,
			Location:            sub.Location,
			OriginalDescription: sub.Description,
			Category:            sub.Category,
			VisitSource:         sub.Website,
			TicketPrice:         sub.TicketPrice,
		},
		ID:        v.newID(),
		Source:    model.SourceUserSubmission,
		FetchedAt: now,
	}
	rules := RuleBasedEnhancement(sourced)
	tags := sub.TagSet()
	if len(tags) == 0 {
		tags = rules.Tags
	}

	event := model.EnrichedEvent{
		SourcedEvent:        sourced,
		EnhancedDescription: sub.Description,
		AICategory:          model.ParseCategory(sub.Category),
		Tags:                tags,
		Mood:                rules.Mood,
		TargetAudience:      rules.Audience,
		AIGenerated:         false,
		EnhancedAt:          now,
		Status:              model.StatusPublished,
		VerificationScore:   &score,
		OrganizerContact:    sub.OrganizerContact,
		Image:               sub.Image,
		SubmittedAt:         &now,
		PublishedAt:         &now,
	}
	event.Translations = make(map[string]model.Translation, len(model.Languages))
	for _, lang := range model.Languages {
		event.Translations[lang] = v.dict.TranslateFields(translate.SourceFields(event), lang)
	}
	return event
}
