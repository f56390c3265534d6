package store

import (
	"context"

	"github.com/abhisek/quizmark/internal/grading"
	"github.com/abhisek/quizmark/internal/standards"
)

// Filter narrows a submission query. Zero-valued fields do not filter.
type Filter struct {
	StudentID string
	TestID    string
	// ClassID keeps submissions by students enrolled in the class.
	ClassID string
	// Standard keeps submissions whose breakdown touches the standard. The
	// full breakdown of each matching submission is returned.
	Standard standards.StandardCode
}

// Stats summarizes the contents of the store.
type Stats struct {
	Submissions int `json:"submissions"`
	Students    int `json:"students"`
	Tests       int `json:"tests"`
	Standards   int `json:"standards"`
	Classes     int `json:"classes"`
}

// SubmissionRepo is the append-only submission log.
type SubmissionRepo interface {
	// Append stores records in order. Records whose id is already stored are
	// skipped; the number actually inserted is returned.
	Append(ctx context.Context, records ...standards.SubmissionRecord) (int, error)

	// Query returns matching records in chronological order, ties broken by
	// ingestion order.
	Query(ctx context.Context, f Filter) ([]standards.SubmissionRecord, error)
}

// TestRepo stores answer keys.
type TestRepo interface {
	// Save inserts or replaces the answer key.
	Save(ctx context.Context, key grading.AnswerKey) error

	// Get returns the answer key for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*grading.AnswerKey, error)

	// List returns all answer keys ordered by id.
	List(ctx context.Context) ([]grading.AnswerKey, error)
}

// ClassRepo stores class rosters.
type ClassRepo interface {
	// Enroll adds students to a class. Existing enrollments are kept.
	Enroll(ctx context.Context, classID string, studentIDs ...string) error

	// Members returns the class roster ordered by student id.
	Members(ctx context.Context, classID string) ([]string, error)
}
