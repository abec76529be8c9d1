package engine

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
)

// Pre-compiled patterns. Extraction runs on every inbound message, so all
// regexps are package-level.
var (
	tagCueRe    = regexp.MustCompile(`\b(?:cow|cows|bull|bulls|calf|calves|steer|steers|heifer|heifers|tag|number|num)\s*#?\s*(\d+)\b`)
	tagHashRe   = regexp.MustCompile(`#([a-z0-9]+)\b`)
	tagColorRe  = regexp.MustCompile(`\b([a-z]+)\s+tag\b`)
	tagAfterRe  = regexp.MustCompile(`\btag\s+#?\s*([a-z0-9]+)\b`)
	bareNumRe   = regexp.MustCompile(`\b\d+\b`)
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\b`)
	countRe     = regexp.MustCompile(`\b(\d+)\s+(?:head|calf|calves|cow|cows|bull|bulls|steer|steers|heifer|heifers|animals?)\b`)
	soldNumRe   = regexp.MustCompile(`\bsold\s+(\d+)\b`)
	priceRe     = regexp.MustCompile(`\$?(\d+(?:\.\d+)?)\s*(?:/\s*|per\s+)lb\b`)
	avgWeightRe = regexp.MustCompile(`\b(?:avg|average)\s+(\d+(?:\.\d+)?)\b`)
	lbWeightRe  = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s+lb\b`)
	locCueRe    = regexp.MustCompile(`\b(?:moved to|to|in|at)\s+(?:the\s+)?((?:[a-z]+\s+)?(?:pasture|field|pen|barn|corral|woods|hayfield))\b`)
	locDirRe    = regexp.MustCompile(`\b((?:north|south|east|west|back|front|main|new)\s+(?:pasture|field|pen))\b`)
	locNounRe   = regexp.MustCompile(`\b(?:([a-z]+)\s+)?(pasture|field|pen|barn|corral|woods|hayfield)\b`)
	locLooseRe  = regexp.MustCompile(`\b(?:to|in|at)\s+(?:the\s+)?([a-z]+)\b`)
)

// tagColorStop keeps function words from being mistaken for a "red tag"
// style identifier.
var tagColorStop = map[string]bool{
	"a": true, "the": true, "no": true, "new": true, "her": true, "his": true,
	"ear": true, "with": true, "and": true,
}

// animalSynonyms maps a singularized token to the canonical herd type,
// mirroring the vocabulary ranchers actually text in.
var animalSynonyms = map[string]string{
	"calf":    "calf",
	"calve":   "calf",
	"baby":    "calf",
	"newborn": "calf",
	"cow":     "cow",
	"mama":    "cow",
	"momma":   "cow",
	"mother":  "cow",
	"dam":     "cow",
	"bull":    "bull",
	"sire":    "bull",
	"steer":   "steer",
	"heifer":  "heifer",
}

// noteVocabulary is the fixed set of conditions and event words recognized
// as health-event detail. Multi-word entries are matched before single words.
var noteVocabulary = []string{
	"pink eye", "foot rot",
	"limping", "limp", "lame", "sick", "fever", "bloat", "prolapse",
	"mastitis", "scours", "pneumonia", "down",
	"calved", "calving", "born", "birth", "dropped",
	"died", "dead", "death",
	"checkup", "vaccine", "shot", "wormed", "dewormed",
}

var locLooseStop = map[string]bool{
	"the": true, "a": true, "her": true, "his": true, "it": true,
	"them": true, "there": true, "all": true, "good": true,
}

// extractTags finds animal identifiers: a number after a cue word, a "#42"
// marker, a "<word> tag" / "tag <word>" phrase, or - as a last resort - a
// bare number with no cue at all (heuristic).
func extractTags(ex extraction) []Match {
	var out []Match
	claim := func(m Match) {
		for _, prev := range out {
			if prev.Span.Overlaps(m.Span) {
				return
			}
		}
		out = append(out, m)
	}

	for _, idx := range tagCueRe.FindAllStringSubmatchIndex(ex.text, -1) {
		claim(Match{Span: Span{idx[2], idx[3]}, Value: Tag(ex.text[idx[2]:idx[3]])})
	}
	for _, idx := range tagHashRe.FindAllStringSubmatchIndex(ex.text, -1) {
		claim(Match{Span: Span{idx[2], idx[3]}, Value: Tag(ex.text[idx[2]:idx[3]])})
	}
	for _, idx := range tagAfterRe.FindAllStringSubmatchIndex(ex.text, -1) {
		claim(Match{Span: Span{idx[2], idx[3]}, Value: Tag(ex.text[idx[2]:idx[3]])})
	}
	for _, idx := range tagColorRe.FindAllStringSubmatchIndex(ex.text, -1) {
		word := ex.text[idx[2]:idx[3]]
		if tagColorStop[word] {
			continue
		}
		claim(Match{Span: Span{idx[2], idx[3]}, Value: Tag(word)})
	}

	// Bare numbers with no cue word are only assumed to be tags; the
	// classifier reports such matches as heuristic. Numbers that are part
	// of money, weight, or count phrasings are left to their extractors.
	for _, idx := range bareNumRe.FindAllStringIndex(ex.text, -1) {
		if partOfAmount(ex.text, idx[0], idx[1]) {
			continue
		}
		claim(Match{Span: Span{idx[0], idx[1]}, Value: Tag(ex.text[idx[0]:idx[1]]), Heuristic: true})
	}

	sortMatches(out)
	return out
}

// partOfAmount reports whether the number at [start,end) is money ("$1.85"),
// a decimal fragment, or a pound figure ("1100 lb"), none of which should be
// mistaken for a tag.
func partOfAmount(text string, start, end int) bool {
	if start > 0 && (text[start-1] == '$' || text[start-1] == '.') {
		return true
	}
	rest := text[end:]
	if strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, "/") {
		return true
	}
	trimmed := strings.TrimLeft(rest, " ")
	return strings.HasPrefix(trimmed, "lb")
}

// extractAnimalTypes matches herd-type words and their synonyms, keeping the
// surface form alongside the canonical singular type.
func extractAnimalTypes(ex extraction) []Match {
	var out []Match
	pos := 0
	for _, tok := range strings.Fields(ex.text) {
		start := strings.Index(ex.text[pos:], tok) + pos
		end := start + len(tok)
		pos = end
		if canonical, ok := animalSynonyms[inflection.Singular(tok)]; ok {
			out = append(out, Match{
				Span:  Span{start, end},
				Value: AnimalType{Text: tok, Canonical: canonical},
			})
		}
	}
	return out
}

// extractDates resolves literal dates and the fixed relative vocabulary
// against the caller-supplied current date. Date-like text outside the
// vocabulary yields no match.
func extractDates(ex extraction) []Match {
	var out []Match
	today := dateOnly(ex.today)

	for _, word := range []struct {
		phrase string
		value  time.Time
	}{
		{"today", today},
		{"yesterday", today.AddDate(0, 0, -1)},
		{"this morning", today},
		{"last night", today.AddDate(0, 0, -1)},
	} {
		for _, idx := range wordIndexes(ex.text, word.phrase) {
			out = append(out, Match{Span: Span{idx, idx + len(word.phrase)}, Value: Date{word.value}})
		}
	}

	for _, idx := range isoDateRe.FindAllStringSubmatchIndex(ex.text, -1) {
		y, _ := strconv.Atoi(ex.text[idx[2]:idx[3]])
		m, _ := strconv.Atoi(ex.text[idx[4]:idx[5]])
		d, _ := strconv.Atoi(ex.text[idx[6]:idx[7]])
		if t, ok := civilDate(y, m, d, ex.today.Location()); ok {
			out = append(out, Match{Span: Span{idx[0], idx[1]}, Value: Date{t}})
		}
	}
	for _, idx := range slashDateRe.FindAllStringSubmatchIndex(ex.text, -1) {
		m, _ := strconv.Atoi(ex.text[idx[2]:idx[3]])
		d, _ := strconv.Atoi(ex.text[idx[4]:idx[5]])
		y := today.Year()
		if idx[6] >= 0 {
			y, _ = strconv.Atoi(ex.text[idx[6]:idx[7]])
		}
		if t, ok := civilDate(y, m, d, ex.today.Location()); ok {
			out = append(out, Match{Span: Span{idx[0], idx[1]}, Value: Date{t}})
		}
	}

	sortMatches(out)
	return dedupeOverlaps(out)
}

// extractPeriods resolves reporting windows ("this month") to inclusive date
// ranges ending at the current date.
func extractPeriods(ex extraction) []Match {
	today := dateOnly(ex.today)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	firstOfYear := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())

	var out []Match
	for _, p := range []struct {
		phrase    string
		value     Period
		heuristic bool
	}{
		{"this month", Period{firstOfMonth, today}, false},
		{"this year", Period{firstOfYear, today}, false},
		{"ytd", Period{firstOfYear, today}, false},
		{"today", Period{today, today}, false},
		{"month", Period{firstOfMonth, today}, true},
		{"year", Period{firstOfYear, today}, true},
	} {
		for _, idx := range wordIndexes(ex.text, p.phrase) {
			out = append(out, Match{Span: Span{idx, idx + len(p.phrase)}, Value: p.value, Heuristic: p.heuristic})
		}
	}
	sortMatches(out)
	return dedupeOverlaps(out)
}

// extractCounts matches a leading integer before a head/animal-type noun.
// The span covers the digits only so the noun stays available to the
// animal-type slot.
func extractCounts(ex extraction) []Match {
	var out []Match
	for _, idx := range countRe.FindAllStringSubmatchIndex(ex.text, -1) {
		n, err := strconv.Atoi(ex.text[idx[2]:idx[3]])
		if err != nil {
			continue
		}
		out = append(out, Match{Span: Span{idx[2], idx[3]}, Value: Count(n)})
	}
	// "sold 12" with no noun after the number still reads as a head count,
	// but only heuristically.
	for _, idx := range soldNumRe.FindAllStringSubmatchIndex(ex.text, -1) {
		n, err := strconv.Atoi(ex.text[idx[2]:idx[3]])
		if err != nil {
			continue
		}
		out = append(out, Match{Span: Span{idx[2], idx[3]}, Value: Count(n), Heuristic: true})
	}
	sortMatches(out)
	return dedupeOverlaps(out)
}

// extractPrices matches currency-marked decimals with a per-pound cue:
// "$1.85/lb", "1.85 per lb".
func extractPrices(ex extraction) []Match {
	var out []Match
	for _, idx := range priceRe.FindAllStringSubmatchIndex(ex.text, -1) {
		amt, err := strconv.ParseFloat(ex.text[idx[2]:idx[3]], 64)
		if err != nil {
			continue
		}
		out = append(out, Match{
			Span:  Span{idx[2], idx[3]},
			Value: PerUnitPrice{Amount: Money(amt), Unit: "lb"},
		})
	}
	return out
}

// extractWeights matches the average-weight figure of a sale: "avg 1100" or
// "1100 lb". Pound figures directly after "/" or "per" belong to the price
// extractor and are never produced here.
func extractWeights(ex extraction) []Match {
	var out []Match
	for _, idx := range avgWeightRe.FindAllStringSubmatchIndex(ex.text, -1) {
		w, err := strconv.ParseFloat(ex.text[idx[2]:idx[3]], 64)
		if err != nil {
			continue
		}
		out = append(out, Match{Span: Span{idx[2], idx[3]}, Value: Weight(w)})
	}
	for _, idx := range lbWeightRe.FindAllStringSubmatchIndex(ex.text, -1) {
		w, err := strconv.ParseFloat(ex.text[idx[2]:idx[3]], 64)
		if err != nil {
			continue
		}
		out = append(out, Match{Span: Span{idx[2], idx[3]}, Value: Weight(w)})
	}
	sortMatches(out)
	return dedupeOverlaps(out)
}

// extractLocations matches a noun phrase following movement cues, a
// direction + place-noun pair, or a bare place noun. A lone word after
// "to"/"in"/"at" with no recognized place noun is a heuristic fallback.
func extractLocations(ex extraction) []Match {
	var out []Match
	for _, idx := range locCueRe.FindAllStringSubmatchIndex(ex.text, -1) {
		phrase := strings.TrimSpace(ex.text[idx[2]:idx[3]])
		phrase = strings.TrimPrefix(phrase, "the ")
		out = append(out, Match{Span: Span{idx[2], idx[3]}, Value: Location(phrase)})
	}
	for _, idx := range locDirRe.FindAllStringSubmatchIndex(ex.text, -1) {
		out = append(out, Match{Span: Span{idx[2], idx[3]}, Value: Location(ex.text[idx[2]:idx[3]])})
	}
	for _, idx := range locNounRe.FindAllStringSubmatchIndex(ex.text, -1) {
		start, end := idx[4], idx[5]
		phrase := ex.text[start:end]
		if idx[2] >= 0 && !locLooseStop[ex.text[idx[2]:idx[3]]] && !isAnimalWord(ex.text[idx[2]:idx[3]]) {
			start = idx[2]
			phrase = ex.text[start:end]
		}
		out = append(out, Match{Span: Span{start, end}, Value: Location(phrase)})
	}
	for _, idx := range locLooseRe.FindAllStringSubmatchIndex(ex.text, -1) {
		word := ex.text[idx[2]:idx[3]]
		if locLooseStop[word] || isAnimalWord(word) {
			continue
		}
		out = append(out, Match{Span: Span{idx[2], idx[3]}, Value: Location(word), Heuristic: true})
	}
	sortMatches(out)
	return dedupeOverlaps(out)
}

// extractNotes matches the fixed condition/event vocabulary. Multi-word
// entries are listed first in noteVocabulary so "pink eye" wins over "eye".
func extractNotes(ex extraction) []Match {
	var out []Match
	for _, term := range noteVocabulary {
		for _, idx := range wordIndexes(ex.text, term) {
			out = append(out, Match{Span: Span{idx, idx + len(term)}, Value: Note(term)})
		}
	}
	sortMatches(out)
	return dedupeOverlaps(out)
}

func isAnimalWord(w string) bool {
	_, ok := animalSynonyms[inflection.Singular(w)]
	return ok
}

// wordIndexes returns the start offsets of whole-word occurrences of phrase.
func wordIndexes(text, phrase string) []int {
	var out []int
	off := 0
	for {
		i := strings.Index(text[off:], phrase)
		if i < 0 {
			return out
		}
		start := off + i
		end := start + len(phrase)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			out = append(out, start)
		}
		off = end
	}
}

func boundaryBefore(text string, i int) bool {
	return i == 0 || !isWordByte(text[i-1])
}

func boundaryAfter(text string, i int) bool {
	return i >= len(text) || !isWordByte(text[i])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_'
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// civilDate validates calendar components the way ranchers write them; Go's
// time.Date would silently normalize 2/31 into March.
func civilDate(y, m, d int, loc *time.Location) (time.Time, bool) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}

func sortMatches(ms []Match) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Heuristic != ms[j].Heuristic {
			return !ms[i].Heuristic // explicit cues before fallbacks
		}
		return ms[i].Span.Start < ms[j].Span.Start
	})
}

// dedupeOverlaps keeps the first candidate (post-sort: explicit, leftmost)
// of any set of overlapping spans.
func dedupeOverlaps(ms []Match) []Match {
	var out []Match
	for _, m := range ms {
		overlapped := false
		for _, kept := range out {
			if kept.Span.Overlaps(m.Span) {
				overlapped = true
				break
			}
		}
		if !overlapped {
			out = append(out, m)
		}
	}
	return out
}
