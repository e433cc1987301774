package governance

import (
	"regexp"
	"strings"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/repository"
	"BizPulse/pkg/logger"
)

// Violation notes. These strings are part of the output contract.
const (
	NotePII              = "PII detected in forecast explanations"
	NoteUrgency          = "Excessive urgency language detected"
	NoteFear             = "Fear-based messaging detected"
	NoteScarcity         = "False scarcity language detected"
	NoteUnprofessional   = "Unprofessional language detected"
	NoteNoOptOut         = "No opt-out information provided"
	NoteNoBenefit        = "No customer benefit language detected"
	NoteNoLongTerm       = "No long-term thinking language detected"
	NoteTechnicalFailure = "Creator Check failed due to technical error"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// Grouped like a phone number; deliberately does not match ISO dates,
	// which legitimately appear in explanation text.
	phonePattern = regexp.MustCompile(`\+?\(?\d{3}\)?[\s.\-]\d{3}[\s.\-]?\d{4}`)
)

// All-caps alarm vocabulary, matched against whole shouted words only so
// "NOW" inside "KNOWN" or "IMMEDIATE" inside "IMMEDIATELY" does not count.
// The urgency rule fires on two or more distinct hits so a single emphatic
// word does not fail an otherwise sober text.
var urgencyWords = []string{"URGENT", "IMMEDIATE", "IMMEDIATELY", "CRITICAL", "EMERGENCY", "NOW", "ASAP"}

var capsRunPattern = regexp.MustCompile(`[A-Z]{2,}`)

var fearWords = []string{"RISK!", "DANGER", "THREAT", "WARNING!", "CATASTROPHIC", "DISASTER"}

var scarcityPhrases = []string{"LIMITED", "RARE", "ONLY TODAY", "EXCLUSIVE OFFER", "WHILE SUPPLIES LAST", "LAST CHANCE"}

var unprofessionalWords = []string{"AWESOME", "AMAZING", "INCREDIBLE", "FANTASTIC", "UNBELIEVABLE", "!!!"}

var optOutPhrases = []string{"opt out", "opt-out", "unsubscribe", "disable these", "turn off these"}

var benefitPhrases = []string{"help you", "helps you", "benefit", "save", "improve", "plan ahead", "your business"}

var longTermPhrases = []string{"long-term", "long term", "sustained", "ongoing", "over time", "lasting"}

// CreatorCheck validates forecast explanation text against the closed set of
// governance rules. Every rule runs; all must pass.
type CreatorCheck struct {
	log     *logger.Logger
	metrics repository.Metrics
}

func NewCreatorCheck(log *logger.Logger, metrics repository.Metrics) *CreatorCheck {
	return &CreatorCheck{log: log, metrics: metrics}
}

// RunCreatorCheck scans the forecast's explanations. It never panics outward:
// any internal fault closes the gate with a technical-error note.
func (c *CreatorCheck) RunCreatorCheck(forecast *models.ForecastOutput) (result models.CreatorCheck) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("creator check panicked", logger.Any("panic", r))
			c.metrics.RecordGovernanceFailure(NoteTechnicalFailure)
			result = models.CreatorCheck{Passed: false, Notes: []string{NoteTechnicalFailure}}
		}
	}()

	if forecast == nil || forecast.Explanations == nil {
		c.metrics.RecordGovernanceFailure(NoteTechnicalFailure)
		return models.CreatorCheck{Passed: false, Notes: []string{NoteTechnicalFailure}}
	}

	text := strings.Join(forecast.Explanations, "\n")
	lower := strings.ToLower(text)

	var violations []string
	addViolation := func(note string) {
		violations = append(violations, note)
		c.metrics.RecordGovernanceFailure(note)
	}

	if emailPattern.MatchString(text) || phonePattern.MatchString(text) {
		addViolation(NotePII)
	}
	if countWordHits(text, urgencyWords) >= 2 {
		addViolation(NoteUrgency)
	}
	if countHits(text, fearWords) >= 1 {
		addViolation(NoteFear)
	}
	if countHits(text, scarcityPhrases) >= 1 {
		addViolation(NoteScarcity)
	}
	if countHits(text, unprofessionalWords) >= 1 {
		addViolation(NoteUnprofessional)
	}
	if !containsAny(lower, optOutPhrases) {
		addViolation(NoteNoOptOut)
	}
	if !containsAny(lower, benefitPhrases) {
		addViolation(NoteNoBenefit)
	}
	if !containsAny(lower, longTermPhrases) {
		addViolation(NoteNoLongTerm)
	}

	if len(violations) > 0 {
		c.log.Warn("creator check failed",
			logger.String("persona", forecast.Persona),
			logger.Strings("violations", violations))
		return models.CreatorCheck{Passed: false, Notes: violations}
	}

	return models.CreatorCheck{
		Passed: true,
		Notes: []string{
			"No PII found",
			"Tone and urgency within bounds",
			"Opt-out disclosure present",
			"Customer benefit and long-term framing present",
		},
	}
}

// countHits counts how many of the case-sensitive markers appear in text.
func countHits(text string, markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.Contains(text, m) {
			n++
		}
	}
	return n
}

// countWordHits counts how many markers appear as complete all-caps words.
func countWordHits(text string, markers []string) int {
	words := make(map[string]struct{})
	for _, w := range capsRunPattern.FindAllString(text, -1) {
		words[w] = struct{}{}
	}
	n := 0
	for _, m := range markers {
		if _, ok := words[m]; ok {
			n++
		}
	}
	return n
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
