package engine

import "time"

// Span is the half-open byte range of normalized text an entity consumed.
// Spans are kept minimal (the value text itself, not surrounding cue words)
// so the classifier can reason about slots double-consuming the same text.
type Span struct {
	Start int
	End   int
}

// Overlaps reports whether two spans share any bytes.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Match is one candidate entity occurrence. Heuristic marks candidates
// produced by a generic fallback cue rather than an explicit one; a Command
// built from any heuristic match is reported with ConfidenceHeuristic.
type Match struct {
	Span      Span
	Value     any
	Heuristic bool
}

// extraction carries the per-call working data shared by all extractors.
// Today is supplied by the caller so relative dates resolve deterministically.
type extraction struct {
	text  string
	today time.Time
}

// extractorFunc produces zero or more candidate matches for one slot kind.
// Extractors never fail; absence of a match is represented by omission.
type extractorFunc func(ex extraction) []Match

// extractors binds each slot to the extractor that fills it. Slots sharing a
// kind (birth_date and date are both calendar dates) share an extractor.
var extractors = map[Slot]extractorFunc{
	SlotTag:          extractTags,
	SlotAnimalType:   extractAnimalTypes,
	SlotBirthDate:    extractDates,
	SlotDate:         extractDates,
	SlotDestination:  extractLocations,
	SlotLocation:     extractLocations,
	SlotCount:        extractCounts,
	SlotPricePerUnit: extractPrices,
	SlotAvgWeight:    extractWeights,
	SlotPeriod:       extractPeriods,
	SlotNote:         extractNotes,
}
