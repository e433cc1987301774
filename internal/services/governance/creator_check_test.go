package governance

import (
	"testing"

	"BizPulse/internal/domain/models"
	"BizPulse/pkg/logger"
	"BizPulse/pkg/metrics"
)

func testCheck(t *testing.T) *CreatorCheck {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewCreatorCheck(log, metrics.New())
}

// cleanExplanations satisfies every disclosure rule without tripping any
// content rule.
func cleanExplanations() []string {
	return []string{
		"Revenue is forecast to grow steadily over the next 14 days.",
		"This forecast can help you plan ahead for inventory and staffing.",
		"These indicators support sustained, long-term planning for your business.",
		"You can opt out of forecast notifications at any time in settings.",
	}
}

func withExplanations(explanations []string) *models.ForecastOutput {
	return &models.ForecastOutput{Explanations: explanations}
}

func hasNote(cc models.CreatorCheck, note string) bool {
	for _, n := range cc.Notes {
		if n == note {
			return true
		}
	}
	return false
}

func TestCreatorCheckPassesCleanText(t *testing.T) {
	cc := testCheck(t).RunCreatorCheck(withExplanations(cleanExplanations()))
	if !cc.Passed {
		t.Fatalf("clean explanations should pass, notes: %v", cc.Notes)
	}
	if len(cc.Notes) == 0 {
		t.Fatal("passing check must still carry confirmation notes")
	}
}

func TestCreatorCheckDetectsEmail(t *testing.T) {
	explanations := append(cleanExplanations(), "Contact john.doe@example.com for details.")
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if cc.Passed {
		t.Fatal("email address should fail the check")
	}
	if !hasNote(cc, NotePII) {
		t.Fatalf("expected note %q, got %v", NotePII, cc.Notes)
	}
}

func TestCreatorCheckDetectsPhoneNumber(t *testing.T) {
	explanations := append(cleanExplanations(), "Call 555-123-4567 to confirm your order.")
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if !hasNote(cc, NotePII) {
		t.Fatalf("expected note %q, got %v", NotePII, cc.Notes)
	}
}

func TestCreatorCheckAllowsISODates(t *testing.T) {
	explanations := append(cleanExplanations(), "Your next order window is 2026-03-25 to 2026-04-06.")
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if hasNote(cc, NotePII) {
		t.Fatalf("ISO dates must not be flagged as PII, notes: %v", cc.Notes)
	}
}

func TestCreatorCheckDetectsUrgency(t *testing.T) {
	explanations := append(cleanExplanations(), "URGENT: order IMMEDIATE restock, this is an EMERGENCY.")
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if cc.Passed {
		t.Fatal("stacked alarm words should fail the check")
	}
	if !hasNote(cc, NoteUrgency) {
		t.Fatalf("expected note %q, got %v", NoteUrgency, cc.Notes)
	}
}

func TestCreatorCheckSingleAlarmWordPasses(t *testing.T) {
	explanations := append(cleanExplanations(), "Restocking NOW avoids delays.")
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if hasNote(cc, NoteUrgency) {
		t.Fatalf("one alarm word must not trip the urgency rule, notes: %v", cc.Notes)
	}
}

func TestCreatorCheckSingleImmediatelyPasses(t *testing.T) {
	explanations := append(cleanExplanations(), "Restock IMMEDIATELY to avoid a gap.")
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if hasNote(cc, NoteUrgency) {
		t.Fatalf("IMMEDIATELY alone must count as one alarm word, notes: %v", cc.Notes)
	}
	if !cc.Passed {
		t.Fatalf("expected pass, notes: %v", cc.Notes)
	}
}

func TestCreatorCheckIgnoresAlarmWordsInsideLongerWords(t *testing.T) {
	explanations := append(cleanExplanations(), "A KNOWN URGENT constraint affects supply.")
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if hasNote(cc, NoteUrgency) {
		t.Fatalf("NOW inside KNOWN must not count as a hit, notes: %v", cc.Notes)
	}
}

func TestCreatorCheckDetectsTwoDistinctAlarmWords(t *testing.T) {
	explanations := append(cleanExplanations(), "Order NOW and restock IMMEDIATELY.")
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if !hasNote(cc, NoteUrgency) {
		t.Fatalf("expected note %q, got %v", NoteUrgency, cc.Notes)
	}
}

func TestCreatorCheckDetectsFearAndScarcity(t *testing.T) {
	explanations := append(cleanExplanations(),
		"DANGER of stockout ahead.",
		"Act fast, LIMITED supply remains.")
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if !hasNote(cc, NoteFear) {
		t.Fatalf("expected note %q, got %v", NoteFear, cc.Notes)
	}
	if !hasNote(cc, NoteScarcity) {
		t.Fatalf("expected note %q, got %v", NoteScarcity, cc.Notes)
	}
}

func TestCreatorCheckDetectsUnprofessionalTone(t *testing.T) {
	explanations := append(cleanExplanations(), "Your numbers look AMAZING this month!")
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if !hasNote(cc, NoteUnprofessional) {
		t.Fatalf("expected note %q, got %v", NoteUnprofessional, cc.Notes)
	}
}

func TestCreatorCheckRequiresOptOut(t *testing.T) {
	explanations := []string{
		"Revenue will likely grow, which can help you plan ahead.",
		"These trends support sustained long-term growth for your business.",
	}
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if cc.Passed {
		t.Fatal("missing opt-out disclosure should fail the check")
	}
	if !hasNote(cc, NoteNoOptOut) {
		t.Fatalf("expected note %q, got %v", NoteNoOptOut, cc.Notes)
	}
}

func TestCreatorCheckRequiresBenefitAndLongTerm(t *testing.T) {
	explanations := []string{
		"Revenue is forecast to rise.",
		"You can opt out of these notifications at any time.",
	}
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if !hasNote(cc, NoteNoBenefit) {
		t.Fatalf("expected note %q, got %v", NoteNoBenefit, cc.Notes)
	}
	if !hasNote(cc, NoteNoLongTerm) {
		t.Fatalf("expected note %q, got %v", NoteNoLongTerm, cc.Notes)
	}
}

func TestCreatorCheckCollectsAllViolations(t *testing.T) {
	explanations := []string{"URGENT EMERGENCY: email john.doe@example.com, supply is LIMITED."}
	cc := testCheck(t).RunCreatorCheck(withExplanations(explanations))
	if cc.Passed {
		t.Fatal("expected failure")
	}
	for _, want := range []string{NotePII, NoteUrgency, NoteScarcity, NoteNoOptOut, NoteNoBenefit, NoteNoLongTerm} {
		if !hasNote(cc, want) {
			t.Fatalf("expected note %q among %v", want, cc.Notes)
		}
	}
}

func TestCreatorCheckFailsClosedOnNilForecast(t *testing.T) {
	cc := testCheck(t).RunCreatorCheck(nil)
	if cc.Passed {
		t.Fatal("nil forecast must fail closed")
	}
	if len(cc.Notes) != 1 || cc.Notes[0] != NoteTechnicalFailure {
		t.Fatalf("expected single note %q, got %v", NoteTechnicalFailure, cc.Notes)
	}
}

func TestCreatorCheckFailsClosedOnMissingExplanations(t *testing.T) {
	cc := testCheck(t).RunCreatorCheck(&models.ForecastOutput{})
	if cc.Passed {
		t.Fatal("forecast without explanations must fail closed")
	}
	if !hasNote(cc, NoteTechnicalFailure) {
		t.Fatalf("expected note %q, got %v", NoteTechnicalFailure, cc.Notes)
	}
}
