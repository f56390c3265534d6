package standards

import (
	"errors"
	"fmt"
)

// IntegrityError reports a submission record whose per-standard breakdown
// is inconsistent. Such records are skipped by aggregation, not fatal.
type IntegrityError struct {
	RecordID string
	Standard StandardCode
	Reason   string
}

func (e *IntegrityError) Error() string {
	if e.Standard != "" {
		return fmt.Sprintf("data integrity: record %q standard %q: %s", e.RecordID, e.Standard, e.Reason)
	}
	return fmt.Sprintf("data integrity: record %q: %s", e.RecordID, e.Reason)
}

// IsIntegrity reports whether err is or wraps an *IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// Validate checks the record's invariants: every standard has
// 0 <= correct <= total and total >= 1, and the overall score is within
// [0, 100]. Standards are checked in code order so the reported violation
// is deterministic.
func Validate(r SubmissionRecord) error {
	if r.Score < 0 || r.Score > 100 {
		return &IntegrityError{RecordID: r.ID, Reason: fmt.Sprintf("score %d outside [0, 100]", r.Score)}
	}
	for _, code := range r.Codes() {
		t := r.Standards[code]
		switch {
		case t.Correct < 0:
			return &IntegrityError{RecordID: r.ID, Standard: code, Reason: fmt.Sprintf("negative correct count %d", t.Correct)}
		case t.Total < 1:
			return &IntegrityError{RecordID: r.ID, Standard: code, Reason: fmt.Sprintf("total %d must be at least 1", t.Total)}
		case t.Correct > t.Total:
			return &IntegrityError{RecordID: r.ID, Standard: code, Reason: fmt.Sprintf("correct %d exceeds total %d", t.Correct, t.Total)}
		}
	}
	return nil
}
