// Package engine interprets free-form rancher messages ("Cow 42 moved to
// north pasture") into structured cattle-management commands. It is pure,
// synchronous string processing: no clock reads, no I/O, no state shared
// between calls beyond the immutable rule table loaded at startup, so a
// single Engine is safe for concurrent use by request handlers.
package engine

import "time"

// Request is one interpretation call. Today is supplied by the caller so
// relative dates ("today", "this month") resolve deterministically.
type Request struct {
	Text     string
	Today    time.Time
	SenderID string
}

// Engine classifies messages against an ordered rule table.
type Engine struct {
	rules []Rule
}

// New builds an Engine from the default rule table compiled into the binary.
func New() (*Engine, error) {
	rules, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	return NewWithRules(rules), nil
}

// NewWithRules builds an Engine from an already-validated rule table.
func NewWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// candidate is one rule that fully resolved within the current tier.
type candidate struct {
	rule *Rule
	cmd  *Command
}

// Parse interprets one message. Exactly one of the results is non-nil:
// either a structured Command or a ParseFailure the caller must relay back
// to the sender. Parse never panics on malformed input; nonsense degrades to
// a NoMatch failure.
func (e *Engine) Parse(req Request) (*Command, *ParseFailure) {
	text := Normalize(req.Text)
	if text == "" {
		return nil, &ParseFailure{RawText: req.Text, Reason: ReasonNoMatch}
	}

	ex := extraction{text: text, today: req.Today}

	triggeredButIncomplete := false
	for i := 0; i < len(e.rules); {
		tier := e.rules[i].Tier

		var matched []candidate
		for ; i < len(e.rules) && e.rules[i].Tier == tier; i++ {
			rule := &e.rules[i]
			if !rule.triggered(text) {
				continue
			}
			cmd, ok := e.resolve(rule, ex, req.Text)
			if !ok {
				// Trigger recognized but a required slot failed.
				// Keep evaluating lower tiers; only report this
				// if nothing else fully matches.
				triggeredButIncomplete = true
				continue
			}
			matched = append(matched, candidate{rule: rule, cmd: cmd})
		}

		if len(matched) == 0 {
			continue
		}
		if cmd, ok := pickWithinTier(matched); ok {
			return cmd, nil
		}
		return nil, &ParseFailure{RawText: req.Text, Reason: ReasonAmbiguousMatch}
	}

	if triggeredButIncomplete {
		return nil, &ParseFailure{RawText: req.Text, Reason: ReasonMissingEntity}
	}
	return nil, &ParseFailure{RawText: req.Text, Reason: ReasonNoMatch}
}

// pickWithinTier applies the tie-break policy to the rules of one tier that
// all fully matched. Multiple matches for the same intent collapse to the
// first in table order. Across different intents an Exact match is preferred
// over Heuristic ones; two Exact matches (or two Heuristic matches with no
// Exact) for different intents are ambiguous.
func pickWithinTier(matched []candidate) (*Command, bool) {
	if len(matched) == 1 {
		return matched[0].cmd, true
	}

	first := matched[0]
	sameIntent := true
	for _, m := range matched[1:] {
		if m.cmd.Intent != first.cmd.Intent {
			sameIntent = false
			break
		}
	}
	if sameIntent {
		return first.cmd, true
	}

	var exact []candidate
	for _, m := range matched {
		if m.cmd.Confidence == ConfidenceExact {
			exact = append(exact, m)
		}
	}
	if len(exact) == 1 {
		return exact[0].cmd, true
	}
	return nil, false
}

// resolve runs only the extractors for the rule's declared slots and builds
// a Command when every required slot claims exactly one candidate whose span
// does not double-consume text already claimed by an earlier slot.
func (e *Engine) resolve(rule *Rule, ex extraction, rawText string) (*Command, bool) {
	entities := make(map[Slot]any, len(rule.Required)+len(rule.Optional)+len(rule.Sets))
	var claimed []Span
	heuristicUsed := false

	fill := func(slot Slot) bool {
		for _, m := range extractors[slot](ex) {
			if overlapsAny(m.Span, claimed) {
				continue
			}
			entities[slot] = m.Value
			claimed = append(claimed, m.Span)
			if m.Heuristic {
				heuristicUsed = true
			}
			return true
		}
		return false
	}

	for _, slot := range rule.Required {
		if !fill(slot) {
			return nil, false
		}
	}
	for _, slot := range rule.Optional {
		fill(slot) // absence of an optional slot is not a failure
	}
	for slot, v := range rule.Sets {
		entities[slot] = v
	}

	conf := ConfidenceExact
	if rule.Heuristic || heuristicUsed {
		conf = ConfidenceHeuristic
	}
	return &Command{
		Intent:     rule.Intent,
		Entities:   entities,
		RawText:    rawText,
		Confidence: conf,
	}, true
}

func overlapsAny(s Span, spans []Span) bool {
	for _, o := range spans {
		if s.Overlaps(o) {
			return true
		}
	}
	return false
}
