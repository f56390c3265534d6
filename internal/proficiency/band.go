package proficiency

import "sort"

// Band is an ordinal mastery category derived from a percentage.
type Band string

const (
	Advanced   Band = "advanced"
	Proficient Band = "proficient"
	Basic      Band = "basic"
	BelowBasic Band = "below_basic"
)

// Lower edges of each band; each edge belongs to the band it opens.
const (
	AdvancedCut   = 90
	ProficientCut = 70
	BasicCut      = 50
)

// AllBands returns the bands from highest to lowest.
func AllBands() []Band {
	return []Band{Advanced, Proficient, Basic, BelowBasic}
}

// Classify maps a percentage to its band. It is total over all integers:
// values above 100 are advanced and values below 0 are below basic.
func Classify(percentage int) Band {
	switch {
	case percentage >= AdvancedCut:
		return Advanced
	case percentage >= ProficientCut:
		return Proficient
	case percentage >= BasicCut:
		return Basic
	default:
		return BelowBasic
	}
}

// Label returns the display label for a band, e.g. "Proficient (70-89%)".
func (b Band) Label() string {
	switch b {
	case Advanced:
		return "Advanced (90-100%)"
	case Proficient:
		return "Proficient (70-89%)"
	case Basic:
		return "Basic (50-69%)"
	case BelowBasic:
		return "Below Basic (0-49%)"
	default:
		return string(b)
	}
}

// GroupByBand buckets items by the band of score(item). Every band is
// present in the result, possibly with an empty slice. Within a band items
// are ordered by descending score; equal scores keep input order.
func GroupByBand[T any](items []T, score func(T) int) map[Band][]T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return score(sorted[i]) > score(sorted[j]) })

	groups := make(map[Band][]T, 4)
	for _, b := range AllBands() {
		groups[b] = []T{}
	}
	for _, it := range sorted {
		b := Classify(score(it))
		groups[b] = append(groups[b], it)
	}
	return groups
}
