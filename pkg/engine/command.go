package engine

import "time"

// Intent is the command family a message was classified into.
type Intent string

const (
	IntentAddAnimal   Intent = "add_animal"
	IntentMove        Intent = "move"
	IntentHealthEvent Intent = "health_event"
	IntentSale        Intent = "sale"
	IntentQuery       Intent = "query"
	IntentStatus      Intent = "status"
	IntentHelp        Intent = "help"
	IntentUnknown     Intent = "unknown"
)

// Confidence is the categorical strength of a match. Exact means the rule
// triggered on a strong cue and every slot resolved from an explicit cue.
// Heuristic means the match relied on a generic fallback (for example a bare
// number with no cue word assumed to be a tag).
type Confidence string

const (
	ConfidenceExact     Confidence = "exact"
	ConfidenceHeuristic Confidence = "heuristic"
	ConfidenceNone      Confidence = "none"
)

// Slot names an extracted entity attached to a Command.
type Slot string

const (
	SlotAnimalType   Slot = "animal_type"
	SlotTag          Slot = "tag"
	SlotBirthDate    Slot = "birth_date"
	SlotDate         Slot = "date"
	SlotDestination  Slot = "destination"
	SlotLocation     Slot = "location"
	SlotNote         Slot = "note"
	SlotCount        Slot = "count"
	SlotPricePerUnit Slot = "price_per_unit"
	SlotAvgWeight    Slot = "avg_weight"
	SlotPeriod       Slot = "period"
	SlotQueryType    Slot = "query_type"
)

// FailureReason classifies why interpretation produced no Command.
type FailureReason string

const (
	// ReasonNoMatch means no rule's trigger was recognized in the text.
	ReasonNoMatch FailureReason = "no_match"
	// ReasonMissingEntity means a trigger was recognized but a required
	// slot could not be resolved.
	ReasonMissingEntity FailureReason = "missing_entity"
	// ReasonAmbiguousMatch means two rules in the same priority tier both
	// fully qualified and neither could be preferred.
	ReasonAmbiguousMatch FailureReason = "ambiguous_match"
)

// Entity value objects. Each is immutable once produced by an extractor.

// Tag is a normalized animal identifier ("42", "red").
type Tag string

// AnimalType keeps both the surface form that matched ("steers") and the
// canonical singular type used by persistence ("steer").
type AnimalType struct {
	Text      string
	Canonical string
}

// Date is a resolved calendar date (midnight UTC, no time component).
type Date struct {
	Time time.Time
}

// Period is an inclusive date range, e.g. "this month" resolved against the
// caller-supplied current date.
type Period struct {
	Start time.Time
	End   time.Time
}

// Count is a head count.
type Count int

// Money is a currency amount in dollars.
type Money float64

// PerUnitPrice pairs a currency amount with the unit it is quoted per.
type PerUnitPrice struct {
	Amount Money
	Unit   string
}

// Weight is a weight figure in pounds.
type Weight float64

// Location is a pasture/pen/barn name as written by the sender.
type Location string

// Note is free-form detail text attached to a health event.
type Note string

// QueryType distinguishes the flavors of the Query intent.
type QueryType string

const (
	QueryCount    QueryType = "count"
	QueryLocation QueryType = "location"
	QueryList     QueryType = "list"
)

// Command is the structured output of interpretation. Entities only contains
// slots declared by the rule that matched.
type Command struct {
	Intent     Intent
	Entities   map[Slot]any
	RawText    string
	Confidence Confidence
}

// ParseFailure is returned when no rule matched or a required entity was
// missing. It is an ordinary result value, not an error the caller can
// ignore: every inbound message gets either a Command or a ParseFailure.
type ParseFailure struct {
	RawText string
	Reason  FailureReason
}

// Tag returns the tag entity, if present.
func (c *Command) Tag() (Tag, bool) {
	v, ok := c.Entities[SlotTag].(Tag)
	return v, ok
}

// AnimalType returns the animal type entity, if present.
func (c *Command) AnimalType() (AnimalType, bool) {
	v, ok := c.Entities[SlotAnimalType].(AnimalType)
	return v, ok
}

// Date returns the date entity stored under the given slot, if present.
func (c *Command) Date(slot Slot) (Date, bool) {
	v, ok := c.Entities[slot].(Date)
	return v, ok
}

// Destination returns the destination entity, if present.
func (c *Command) Destination() (Location, bool) {
	v, ok := c.Entities[SlotDestination].(Location)
	return v, ok
}

// Location returns the location entity, if present.
func (c *Command) Location() (Location, bool) {
	v, ok := c.Entities[SlotLocation].(Location)
	return v, ok
}

// Note returns the note entity, if present.
func (c *Command) Note() (Note, bool) {
	v, ok := c.Entities[SlotNote].(Note)
	return v, ok
}

// Count returns the head count entity, if present.
func (c *Command) Count() (Count, bool) {
	v, ok := c.Entities[SlotCount].(Count)
	return v, ok
}

// PricePerUnit returns the per-unit price entity, if present.
func (c *Command) PricePerUnit() (PerUnitPrice, bool) {
	v, ok := c.Entities[SlotPricePerUnit].(PerUnitPrice)
	return v, ok
}

// AvgWeight returns the average weight entity, if present.
func (c *Command) AvgWeight() (Weight, bool) {
	v, ok := c.Entities[SlotAvgWeight].(Weight)
	return v, ok
}

// Period returns the period entity, if present.
func (c *Command) Period() (Period, bool) {
	v, ok := c.Entities[SlotPeriod].(Period)
	return v, ok
}

// QueryType returns the query flavor, defaulting to QueryCount.
func (c *Command) QueryType() QueryType {
	if v, ok := c.Entities[SlotQueryType].(QueryType); ok {
		return v
	}
	return QueryCount
}
