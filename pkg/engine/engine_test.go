package engine

import (
	"reflect"
	"testing"
	"time"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New()
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}
	return e
}

func parseOK(t *testing.T, e *Engine, text string) *Command {
	t.Helper()
	cmd, fail := e.Parse(Request{Text: text, Today: testToday, SenderID: "+15550001111"})
	if fail != nil {
		t.Fatalf("Parse(%q) failed: %+v", text, fail)
	}
	return cmd
}

func TestParseAddAnimal(t *testing.T) {
	e := newTestEngine(t)

	cmd := parseOK(t, e, "Add calf born today red tag")
	if cmd.Intent != IntentAddAnimal {
		t.Fatalf("intent = %v, want %v", cmd.Intent, IntentAddAnimal)
	}
	if cmd.Confidence != ConfidenceExact {
		t.Errorf("confidence = %v, want exact", cmd.Confidence)
	}
	at, _ := cmd.AnimalType()
	if at.Text != "calf" || at.Canonical != "calf" {
		t.Errorf("animal_type = %+v, want calf", at)
	}
	if tag, _ := cmd.Tag(); tag != "red" {
		t.Errorf("tag = %v, want red", tag)
	}
	bd, ok := cmd.Date(SlotBirthDate)
	if !ok || !bd.Time.Equal(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("birth_date = %v (present=%v), want 2026-02-03", bd.Time, ok)
	}
}

func TestParseMove(t *testing.T) {
	e := newTestEngine(t)

	cmd := parseOK(t, e, "Cow 42 moved to north pasture")
	if cmd.Intent != IntentMove || cmd.Confidence != ConfidenceExact {
		t.Fatalf("got %v/%v, want move/exact", cmd.Intent, cmd.Confidence)
	}
	if tag, _ := cmd.Tag(); tag != "42" {
		t.Errorf("tag = %v, want 42", tag)
	}
	if dest, _ := cmd.Destination(); dest != "north pasture" {
		t.Errorf("destination = %v, want north pasture", dest)
	}
}

func TestParseHealthEvent(t *testing.T) {
	e := newTestEngine(t)

	cmd := parseOK(t, e, "Vet visit cow 15 pink eye")
	if cmd.Intent != IntentHealthEvent || cmd.Confidence != ConfidenceExact {
		t.Fatalf("got %v/%v, want health_event/exact", cmd.Intent, cmd.Confidence)
	}
	if tag, _ := cmd.Tag(); tag != "15" {
		t.Errorf("tag = %v, want 15", tag)
	}
	if note, _ := cmd.Note(); note != "pink eye" {
		t.Errorf("note = %v, want pink eye", note)
	}
}

func TestParseHealthEventTrailingPunctuation(t *testing.T) {
	e := newTestEngine(t)

	// The final token carries both shorthand and sentence punctuation; it
	// must parse the same as the bare form.
	cmd := parseOK(t, e, "Vet visit cow 15 pinkeye.")
	if cmd.Intent != IntentHealthEvent {
		t.Fatalf("intent = %v, want health_event", cmd.Intent)
	}
	if tag, _ := cmd.Tag(); tag != "15" {
		t.Errorf("tag = %v, want 15", tag)
	}
	if note, _ := cmd.Note(); note != "pink eye" {
		t.Errorf("note = %v, want pink eye", note)
	}
}

func TestParseSale(t *testing.T) {
	e := newTestEngine(t)

	cmd := parseOK(t, e, "Sold 5 steers today $1.85/lb avg 1100")
	if cmd.Intent != IntentSale || cmd.Confidence != ConfidenceExact {
		t.Fatalf("got %v/%v, want sale/exact", cmd.Intent, cmd.Confidence)
	}
	if count, _ := cmd.Count(); count != 5 {
		t.Errorf("count = %v, want 5", count)
	}
	if at, _ := cmd.AnimalType(); at.Text != "steers" || at.Canonical != "steer" {
		t.Errorf("animal_type = %+v, want steers/steer", at)
	}
	if p, _ := cmd.PricePerUnit(); p.Amount != 1.85 || p.Unit != "lb" {
		t.Errorf("price_per_unit = %+v, want 1.85/lb", p)
	}
	if w, _ := cmd.AvgWeight(); w != 1100 {
		t.Errorf("avg_weight = %v, want 1100", w)
	}
	if d, ok := cmd.Date(SlotDate); !ok || !d.Time.Equal(testToday) {
		t.Errorf("date = %v (present=%v), want today", d.Time, ok)
	}
}

func TestParseQuery(t *testing.T) {
	e := newTestEngine(t)

	cmd := parseOK(t, e, "How many calves this month")
	if cmd.Intent != IntentQuery || cmd.Confidence != ConfidenceExact {
		t.Fatalf("got %v/%v, want query/exact", cmd.Intent, cmd.Confidence)
	}
	if cmd.QueryType() != QueryCount {
		t.Errorf("query_type = %v, want count", cmd.QueryType())
	}
	if at, _ := cmd.AnimalType(); at.Text != "calves" || at.Canonical != "calf" {
		t.Errorf("animal_type = %+v, want calves/calf", at)
	}
	p, ok := cmd.Period()
	if !ok {
		t.Fatal("period missing")
	}
	wantStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !p.Start.Equal(wantStart) || !p.End.Equal(testToday) {
		t.Errorf("period = %v, want %v..%v", p, wantStart, testToday)
	}

	cmd = parseOK(t, e, "Where is cow 42")
	if cmd.Intent != IntentQuery || cmd.QueryType() != QueryLocation {
		t.Fatalf("got %v/%v, want query/location", cmd.Intent, cmd.QueryType())
	}
	if tag, _ := cmd.Tag(); tag != "42" {
		t.Errorf("tag = %v, want 42", tag)
	}
}

func TestParseHelpAndStatusIgnoreFiller(t *testing.T) {
	e := newTestEngine(t)

	for _, text := range []string{"help", "HELP", "please help me out", "what can you do", "?"} {
		cmd := parseOK(t, e, text)
		if cmd.Intent != IntentHelp || cmd.Confidence != ConfidenceExact {
			t.Errorf("Parse(%q) = %v/%v, want help/exact", text, cmd.Intent, cmd.Confidence)
		}
	}
	for _, text := range []string{"status", "give me a status please", "herd summary", "stats"} {
		cmd := parseOK(t, e, text)
		if cmd.Intent != IntentStatus || cmd.Confidence != ConfidenceExact {
			t.Errorf("Parse(%q) = %v/%v, want status/exact", text, cmd.Intent, cmd.Confidence)
		}
	}
}

func TestParseNoMatch(t *testing.T) {
	e := newTestEngine(t)

	for _, text := range []string{"xyz qqq", "", "   ", "..."} {
		cmd, fail := e.Parse(Request{Text: text, Today: testToday})
		if cmd != nil || fail == nil || fail.Reason != ReasonNoMatch {
			t.Errorf("Parse(%q) = (%v, %v), want NoMatch failure", text, cmd, fail)
		}
		if fail != nil && fail.RawText != text {
			t.Errorf("Parse(%q) raw text = %q", text, fail.RawText)
		}
	}
}

func TestParseMissingEntity(t *testing.T) {
	e := newTestEngine(t)

	// Move trigger present, but no destination anywhere in the text.
	cmd, fail := e.Parse(Request{Text: "moved cow 42", Today: testToday})
	if cmd != nil || fail == nil || fail.Reason != ReasonMissingEntity {
		t.Errorf("got (%v, %+v), want MissingEntity failure", cmd, fail)
	}

	// Sale trigger present, but no per-unit price.
	cmd, fail = e.Parse(Request{Text: "sold 5 steers", Today: testToday})
	if cmd != nil || fail == nil || fail.Reason != ReasonMissingEntity {
		t.Errorf("got (%v, %+v), want MissingEntity failure", cmd, fail)
	}
}

func TestParseMissingEntityDoesNotShadowLaterMatch(t *testing.T) {
	e := newTestEngine(t)

	// "where" triggers the location query but there is no tag; the count
	// query in the same tier still resolves fully and must win.
	cmd := parseOK(t, e, "where do we stand, how many calves this month")
	if cmd.Intent != IntentQuery || cmd.QueryType() != QueryCount {
		t.Fatalf("got %v/%v, want query/count", cmd.Intent, cmd.QueryType())
	}
}

func TestParseAmbiguousMatch(t *testing.T) {
	e := newTestEngine(t)

	// Both the health-event rule ("pink eye") and the move rule ("moved",
	// destination "barn") fully qualify with exact confidence in the same
	// tier. The engine must refuse to pick one.
	cmd, fail := e.Parse(Request{Text: "Cow 9 pink eye moved to the barn", Today: testToday})
	if cmd != nil {
		t.Fatalf("expected ambiguous failure, got command %+v", cmd)
	}
	if fail == nil || fail.Reason != ReasonAmbiguousMatch {
		t.Fatalf("reason = %+v, want AmbiguousMatch", fail)
	}
}

func TestParseHeuristicTag(t *testing.T) {
	e := newTestEngine(t)

	// A bare number with no cue word is assumed to be a tag, but only
	// heuristically.
	cmd := parseOK(t, e, "42 sick")
	if cmd.Intent != IntentHealthEvent {
		t.Fatalf("intent = %v, want health_event", cmd.Intent)
	}
	if cmd.Confidence != ConfidenceHeuristic {
		t.Errorf("confidence = %v, want heuristic", cmd.Confidence)
	}
	if tag, _ := cmd.Tag(); tag != "42" {
		t.Errorf("tag = %v, want 42", tag)
	}
}

func TestParseImpliedMoveIsHeuristic(t *testing.T) {
	e := newTestEngine(t)

	cmd := parseOK(t, e, "cow 7 in the south pasture")
	if cmd.Intent != IntentMove {
		t.Fatalf("intent = %v, want move", cmd.Intent)
	}
	if cmd.Confidence != ConfidenceHeuristic {
		t.Errorf("confidence = %v, want heuristic", cmd.Confidence)
	}
	if dest, _ := cmd.Destination(); dest != "south pasture" {
		t.Errorf("destination = %v, want south pasture", dest)
	}
}

func TestExactMatchBeatsHeuristicInSameTier(t *testing.T) {
	// Two rules in one tier, different intents: one exact, one heuristic.
	// The exact rule must win without an ambiguity failure.
	rules := []Rule{
		{
			Name: "move_strict", Intent: IntentMove, Tier: 0,
			Triggers: []string{"moved"},
			Required: []Slot{SlotTag, SlotDestination},
		},
		{
			Name: "health_weak", Intent: IntentHealthEvent, Tier: 0,
			Triggers:  []string{"moved"},
			Required:  []Slot{SlotTag},
			Heuristic: true,
		},
	}
	e := NewWithRules(rules)

	cmd, fail := e.Parse(Request{Text: "cow 4 moved to the barn", Today: testToday})
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if cmd.Intent != IntentMove || cmd.Confidence != ConfidenceExact {
		t.Errorf("got %v/%v, want move/exact", cmd.Intent, cmd.Confidence)
	}
}

func TestSameIntentRulesCollapseToFirst(t *testing.T) {
	e := newTestEngine(t)

	// "show" (list) and "how many" (count) are both query rules in the
	// same tier; first in table order wins, no ambiguity.
	cmd := parseOK(t, e, "show how many steers")
	if cmd.Intent != IntentQuery {
		t.Fatalf("intent = %v, want query", cmd.Intent)
	}
	if cmd.QueryType() != QueryCount {
		t.Errorf("query_type = %v, want count (first matching rule in table order)", cmd.QueryType())
	}
}

func TestParseDeterministic(t *testing.T) {
	e := newTestEngine(t)

	inputs := []string{
		"Add calf born today red tag",
		"Sold 5 steers today $1.85/lb avg 1100",
		"How many calves this month",
		"xyz qqq",
	}
	for _, text := range inputs {
		req := Request{Text: text, Today: testToday, SenderID: "+15550001111"}
		cmd1, fail1 := e.Parse(req)
		cmd2, fail2 := e.Parse(req)
		if !reflect.DeepEqual(cmd1, cmd2) || !reflect.DeepEqual(fail1, fail2) {
			t.Errorf("Parse(%q) not deterministic", text)
		}
	}
}

func TestEntitiesOnlyContainDeclaredSlots(t *testing.T) {
	e := newTestEngine(t)

	rules, err := DefaultRules()
	if err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{
		"Add calf born today red tag",
		"Cow 42 moved to north pasture",
		"Vet visit cow 15 pink eye",
		"Sold 5 steers today $1.85/lb avg 1100",
		"How many calves this month",
	} {
		cmd := parseOK(t, e, text)
		for slot := range cmd.Entities {
			ok := false
			for i := range rules {
				if rules[i].Intent == cmd.Intent && rules[i].declares(slot) {
					ok = true
					break
				}
			}
			if !ok {
				t.Errorf("Parse(%q): slot %q not declared for intent %v", text, slot, cmd.Intent)
			}
		}
	}
}
