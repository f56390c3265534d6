package aggregate

import (
	"sort"
	"time"

	"github.com/abhisek/quizmark/internal/standards"
)

// Point is one attempt-level observation of a standard: the percentage a
// single submission scored on it, at the submission's timestamp.
type Point struct {
	At         time.Time `json:"at"`
	Percentage int       `json:"percentage"`
}

// StandardAggregate folds every submission that touched one standard.
// Correct/Total track overall mastery; Series tracks attempt-level
// performance in ascending time order.
type StandardAggregate struct {
	Standard   standards.StandardCode `json:"standard"`
	Correct    int                    `json:"correct"`
	Total      int                    `json:"total"`
	Attempts   int                    `json:"attempts"`
	Percentage int                    `json:"percentage"`
	Series     []Point                `json:"series"`
}

// Latest returns the most recent attempt-level percentage.
func (a StandardAggregate) Latest() int {
	if len(a.Series) == 0 {
		return 0
	}
	return a.Series[len(a.Series)-1].Percentage
}

// Percentages returns the series values without timestamps.
func (a StandardAggregate) Percentages() []int {
	out := make([]int, len(a.Series))
	for i, p := range a.Series {
		out[i] = p.Percentage
	}
	return out
}

// Average returns the rounded mean of the attempt-level percentages.
func (a StandardAggregate) Average() int {
	return standards.MeanRounded(a.Percentages())
}

// Rejected pairs a skipped record with the integrity violation that
// excluded it.
type Rejected struct {
	RecordID string
	Err      error
}

// Result is the output of Aggregate.
type Result struct {
	Aggregates []StandardAggregate
	// Accepted holds the records that passed validation, in chronological order.
	Accepted []standards.SubmissionRecord
	Rejected []Rejected
}

// Find returns the aggregate for code, if present.
func (r *Result) Find(code standards.StandardCode) (StandardAggregate, bool) {
	for _, a := range r.Aggregates {
		if a.Standard == code {
			return a, true
		}
	}
	return StandardAggregate{}, false
}

// Aggregate folds records into one StandardAggregate per standard that
// appears in at least one valid record. Records failing validation are
// excluded and reported in Result.Rejected. Aggregates are ordered by the
// given Order; pass ByAttempts for the default most-practiced-first view.
func Aggregate(records []standards.SubmissionRecord, order Order) *Result {
	res := &Result{}
	byCode := make(map[standards.StandardCode]*StandardAggregate)
	var seen []standards.StandardCode

	for _, rec := range standards.SortChronologically(records) {
		if err := standards.Validate(rec); err != nil {
			res.Rejected = append(res.Rejected, Rejected{RecordID: rec.ID, Err: err})
			continue
		}
		res.Accepted = append(res.Accepted, rec)

		for _, code := range rec.Codes() {
			t := rec.Standards[code]
			agg, ok := byCode[code]
			if !ok {
				agg = &StandardAggregate{Standard: code}
				byCode[code] = agg
				seen = append(seen, code)
			}
			agg.Correct += t.Correct
			agg.Total += t.Total
			agg.Attempts++
			agg.Series = append(agg.Series, Point{At: rec.SubmittedAt, Percentage: t.Percentage()})
		}
	}

	res.Aggregates = make([]StandardAggregate, 0, len(seen))
	for _, code := range seen {
		agg := byCode[code]
		agg.Percentage = standards.Percent(agg.Correct, agg.Total)
		res.Aggregates = append(res.Aggregates, *agg)
	}
	Sort(res.Aggregates, order)
	return res
}

// Order selects how aggregates are sorted.
type Order string

const (
	// ByAttempts puts the most-practiced standards (largest cumulative
	// total) first.
	ByAttempts Order = "attempts"
	// ByPercentage puts the weakest standards (lowest cumulative
	// percentage) first, for "needs attention" views.
	ByPercentage Order = "percentage"
	// ByCode sorts lexically by standard code.
	ByCode Order = "code"
)

// ParseOrder maps a user-supplied name to an Order, defaulting to ByAttempts.
func ParseOrder(s string) Order {
	switch Order(s) {
	case ByPercentage, ByCode:
		return Order(s)
	case "attention":
		return ByPercentage
	default:
		return ByAttempts
	}
}

// Sort orders aggs in place. Ties keep their first-appearance order.
func Sort(aggs []StandardAggregate, order Order) {
	switch order {
	case ByPercentage:
		sort.SliceStable(aggs, func(i, j int) bool { return aggs[i].Percentage < aggs[j].Percentage })
	case ByCode:
		sort.SliceStable(aggs, func(i, j int) bool { return aggs[i].Standard < aggs[j].Standard })
	default:
		sort.SliceStable(aggs, func(i, j int) bool { return aggs[i].Total > aggs[j].Total })
	}
}
