package standards

import (
	"sort"
	"time"
)

// StandardCode identifies a curriculum standard, e.g. "CCSS.Math.3.OA.A.1".
// It is an opaque, case-sensitive key and is never parsed for structure.
type StandardCode string

// Tally is the correct/total count for one standard within one submission.
type Tally struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percentage returns round-half-up(100 * Correct / Total), or 0 when Total
// is not positive.
func (t Tally) Percentage() int {
	return Percent(t.Correct, t.Total)
}

// SubmissionRecord is the graded result of one student taking one test.
// Records are immutable once created.
type SubmissionRecord struct {
	ID          string                 `json:"id"`
	StudentID   string                 `json:"student_id"`
	TestID      string                 `json:"test_id"`
	SubmittedAt time.Time              `json:"submitted_at"`
	Score       int                    `json:"score"`
	Standards   map[StandardCode]Tally `json:"standards_breakdown"`
}

// Codes returns the record's standard codes in ascending order so that
// iteration over a record is deterministic.
func (r SubmissionRecord) Codes() []StandardCode {
	codes := make([]StandardCode, 0, len(r.Standards))
	for c := range r.Standards {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Touches reports whether the record carries a breakdown for code.
func (r SubmissionRecord) Touches(code StandardCode) bool {
	_, ok := r.Standards[code]
	return ok
}

// SortChronologically returns a copy of records ordered by SubmittedAt.
// Records sharing a timestamp keep their input order.
func SortChronologically(records []SubmissionRecord) []SubmissionRecord {
	out := make([]SubmissionRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

// Filter returns the records for which keep returns true, preserving order.
func Filter(records []SubmissionRecord, keep func(SubmissionRecord) bool) []SubmissionRecord {
	var out []SubmissionRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
