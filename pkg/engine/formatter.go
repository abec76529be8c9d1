package engine

import (
	"fmt"
	"strings"
)

// Result carries what the persistence layer did with a Command, so the
// formatter can confirm it back to the sender. Only the fields relevant to
// the command's intent are populated.
type Result struct {
	Tag         string  // assigned/located tag
	Location    string  // answer to a "where" query
	Count       int     // count query answer or list size
	EventType   string  // health event type that was logged
	TotalAmount float64 // computed sale total in dollars
	Stats       *Stats  // herd overview for the status intent
}

// Stats is the herd overview behind the status intent and the dashboard.
type Stats struct {
	TotalHead      int
	ByType         map[string]int
	CalvesYTD      int
	SalesHeadYTD   int
	SalesAmountYTD float64
}

// helpText lists one working example per command family. Failure replies
// point senders here, so every example must parse.
const helpText = "FarmOps commands:\n" +
	"Add calf born today red tag\n" +
	"Cow 42 moved to north pasture\n" +
	"Vet visit cow 15 pink eye\n" +
	"Sold 5 steers today $1.85/lb avg 1100\n" +
	"How many calves this month\n" +
	"Status (herd overview)\n" +
	"Help (this message)"

// Format renders a short confirmation for an executed Command, fit for SMS
// length and voice playback. It is pure: same command and result, same reply.
func Format(cmd *Command, res Result) string {
	switch cmd.Intent {
	case IntentHelp:
		return helpText

	case IntentStatus:
		s := res.Stats
		if s == nil {
			s = &Stats{}
		}
		return fmt.Sprintf("Farm status: %d head. Calves YTD: %d. Sales YTD: %d head ($%s).",
			s.TotalHead, s.CalvesYTD, s.SalesHeadYTD, formatAmount(s.SalesAmountYTD))

	case IntentAddAnimal:
		animal := "animal"
		if at, ok := cmd.AnimalType(); ok {
			animal = at.Canonical
		}
		return fmt.Sprintf("Added %s - tag %s", animal, strings.ToUpper(res.Tag))

	case IntentMove:
		tag, _ := cmd.Tag()
		dest, _ := cmd.Destination()
		return fmt.Sprintf("Moved #%s to %s", tag, dest)

	case IntentHealthEvent:
		tag, _ := cmd.Tag()
		note, _ := cmd.Note()
		return fmt.Sprintf("Logged %s for #%s: %s", res.EventType, tag, note)

	case IntentSale:
		count, _ := cmd.Count()
		animal := "head"
		if at, ok := cmd.AnimalType(); ok {
			animal = at.Canonical
		}
		return fmt.Sprintf("Recorded sale: %d %s(s) - $%s", int(count), animal, formatAmount(res.TotalAmount))

	case IntentQuery:
		return formatQuery(cmd, res)
	}
	return "Command received. Check the dashboard for details."
}

func formatQuery(cmd *Command, res Result) string {
	switch cmd.QueryType() {
	case QueryLocation:
		tag, _ := cmd.Tag()
		loc := res.Location
		if loc == "" {
			loc = "unknown"
		}
		return fmt.Sprintf("#%s is at %s", tag, loc)
	case QueryList:
		return fmt.Sprintf("Found %d cattle. Check the dashboard for the full list.", res.Count)
	default:
		subject := "cattle"
		if at, ok := cmd.AnimalType(); ok {
			subject = at.Text
		}
		return fmt.Sprintf("Count: %d %s", res.Count, subject)
	}
}

// FormatFailure renders a short error reply. Every failure points back at
// the help examples so the sender can self-correct.
func FormatFailure(f *ParseFailure) string {
	switch f.Reason {
	case ReasonMissingEntity:
		return "Got the command but missed a detail (like the tag number). Text 'help' for examples, e.g. 'Cow 42 moved to north pasture'."
	case ReasonAmbiguousMatch:
		return "That message could mean more than one thing. Try one command at a time, or text 'help' for examples."
	default:
		return "Sorry, I didn't understand that. Text 'help' for examples, e.g. 'Cow 42 moved to north pasture'."
	}
}

// formatAmount renders dollars with thousands separators and no cents, the
// way sale totals read naturally in a text message.
func formatAmount(amount float64) string {
	n := int64(amount + 0.5)
	if n < 0 {
		return fmt.Sprintf("-%s", formatAmount(-amount))
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
