package engine

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rule is one declarative pattern/intent pair. Triggers are whole-word
// phrases tested by containment against normalized text, not full-sentence
// grammar. Required slots must all resolve for the rule to match; optional
// slots are filled when present and dropped silently otherwise.
type Rule struct {
	Name      string            `yaml:"name"`
	Intent    Intent            `yaml:"intent"`
	Tier      int               `yaml:"tier"`
	Triggers  []string          `yaml:"triggers"`
	Required  []Slot            `yaml:"required"`
	Optional  []Slot            `yaml:"optional"`
	Heuristic bool              `yaml:"heuristic"`
	Sets      map[Slot]QueryType `yaml:"sets"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

var knownIntents = map[Intent]bool{
	IntentAddAnimal:   true,
	IntentMove:        true,
	IntentHealthEvent: true,
	IntentSale:        true,
	IntentQuery:       true,
	IntentStatus:      true,
	IntentHelp:        true,
}

// DefaultRules parses the rule table compiled into the binary.
func DefaultRules() ([]Rule, error) {
	return ParseRules(defaultRulesYAML)
}

// ParseRules decodes and validates a rule table. Validation happens once at
// startup; request handling never touches yaml.
func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rule table: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rule table is empty")
	}

	lastTier := -1
	for i, r := range f.Rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule %d has no name", i)
		}
		if !knownIntents[r.Intent] {
			return nil, fmt.Errorf("rule %q: unknown intent %q", r.Name, r.Intent)
		}
		if len(r.Triggers) == 0 {
			return nil, fmt.Errorf("rule %q has no triggers", r.Name)
		}
		if r.Tier < lastTier {
			return nil, fmt.Errorf("rule %q: tier %d out of order (rules must be listed by ascending tier)", r.Name, r.Tier)
		}
		lastTier = r.Tier
		for _, s := range append(append([]Slot{}, r.Required...), r.Optional...) {
			if _, ok := extractors[s]; !ok {
				return nil, fmt.Errorf("rule %q: no extractor for slot %q", r.Name, s)
			}
		}
		for s := range r.Sets {
			if s != SlotQueryType {
				return nil, fmt.Errorf("rule %q: unsupported static slot %q", r.Name, s)
			}
		}
	}
	return f.Rules, nil
}

// triggered returns whether any of the rule's trigger phrases occurs in the
// normalized text as a whole word or phrase.
func (r *Rule) triggered(text string) bool {
	for _, t := range r.Triggers {
		if len(wordIndexes(text, t)) > 0 {
			return true
		}
	}
	return false
}

// declares reports whether slot belongs to the rule's declared slot set.
func (r *Rule) declares(slot Slot) bool {
	for _, s := range r.Required {
		if s == slot {
			return true
		}
	}
	for _, s := range r.Optional {
		if s == slot {
			return true
		}
	}
	_, ok := r.Sets[slot]
	return ok
}
