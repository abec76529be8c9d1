package engine

import "strings"

// shorthand maps whole tokens to their expanded form. Applied after
// lowercasing, so only lowercase keys are needed.
var shorthand = map[string]string{
	"lbs":     "lb",
	"pounds":  "lb",
	"pound":   "lb",
	"&":       "and",
	"?":       "help", // a lone "?" is the help shorthand ranchers actually send
	"msg":     "message",
	"w/":      "with",
	"avg.":    "avg",
	"no.":     "number",
	"pckup":   "pickup",
	"yest":    "yesterday",
	"2day":    "today",
	"pinkeye": "pink eye",
}

// trailingPunct is stripped from the end of the message only. Interior
// punctuation ("$", "/", "#", ".") is meaningful to the extractors.
const trailingPunct = ".,!;:?"

// Normalize canonicalizes raw message text before pattern matching:
// lowercase, collapsed whitespace, trailing punctuation stripped, and a small
// fixed set of shorthand expanded. It is idempotent and never fails; empty
// input normalizes to an empty string, which guarantees a later NoMatch.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	// A message that is just "?" would vanish in the tail trim below, so
	// the help shorthand resolves first.
	if text == "?" {
		return "help"
	}

	// The tail trim runs before shorthand expansion so a final token like
	// "pinkeye." expands on this pass, keeping Normalize idempotent.
	text = strings.TrimSpace(strings.TrimRight(text, trailingPunct))

	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if exp, ok := shorthand[f]; ok {
			f = exp
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
