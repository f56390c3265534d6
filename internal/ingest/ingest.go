// Package ingest decodes import payloads and writes them to the store.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/grading"
	"github.com/abhisek/quizmark/internal/logging"
	"github.com/abhisek/quizmark/internal/standards"
	"github.com/abhisek/quizmark/internal/store"
)

// ErrInvalidPayload wraps every decode or schema failure.
var ErrInvalidPayload = errors.New("invalid import payload")

// Class is a roster entry.
type Class struct {
	ID         string   `json:"id"`
	StudentIDs []string `json:"student_ids"`
}

// Submission is either pre-graded (Score and Standards set) or raw
// (Answers set, graded against the test's answer key).
type Submission struct {
	ID          string                                     `json:"id,omitempty"`
	StudentID   string                                     `json:"student_id"`
	TestID      string                                     `json:"test_id"`
	SubmittedAt time.Time                                  `json:"submitted_at"`
	Score       *int                                       `json:"score,omitempty"`
	Standards   map[standards.StandardCode]standards.Tally `json:"standards_breakdown,omitempty"`
	Answers     []grading.Answer                           `json:"answers,omitempty"`
}

// Graded reports whether the submission arrives already scored.
func (s Submission) Graded() bool {
	return s.Score != nil
}

// Payload is the import document.
type Payload struct {
	Tests       []grading.AnswerKey `json:"tests,omitempty"`
	Classes     []Class             `json:"classes,omitempty"`
	Submissions []Submission        `json:"submissions,omitempty"`
}

// Decode validates raw against the import schema and decodes it.
func Decode(raw []byte) (*Payload, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return &p, nil
}

// Summary reports what an import wrote.
type Summary struct {
	Tests       int                  `json:"tests"`
	Classes     int                  `json:"classes"`
	Submissions int                  `json:"submissions"`
	Duplicates  int                  `json:"duplicates"`
	Rejected    []aggregate.Rejected `json:"-"`
}

// RejectedIDs lists the ids of submissions that were not stored.
func (s Summary) RejectedIDs() []string {
	ids := make([]string, len(s.Rejected))
	for i, r := range s.Rejected {
		ids[i] = r.RecordID
	}
	return ids
}

// Importer writes payloads through the store repositories.
type Importer struct {
	tests   store.TestRepo
	classes store.ClassRepo
	subs    store.SubmissionRepo
	log     *slog.Logger
	now     func() time.Time
}

// NewImporter creates an Importer over s.
func NewImporter(s *store.Store) *Importer {
	return &Importer{
		tests:   s.Tests(),
		classes: s.Classes(),
		subs:    s.Submissions(),
		log:     logging.New("ingest"),
		now:     time.Now,
	}
}

// Import stores tests and rosters first so that raw submissions can be
// graded against keys from the same payload. Submissions that cannot be
// graded or that fail integrity checks are skipped and reported in the
// summary; they never abort the import.
func (im *Importer) Import(ctx context.Context, p *Payload) (Summary, error) {
	var sum Summary

	for _, key := range p.Tests {
		if err := im.tests.Save(ctx, key); err != nil {
			return sum, err
		}
		sum.Tests++
	}
	for _, c := range p.Classes {
		if err := im.classes.Enroll(ctx, c.ID, c.StudentIDs...); err != nil {
			return sum, err
		}
		sum.Classes++
	}

	keys := make(map[string]*grading.AnswerKey)
	records := make([]standards.SubmissionRecord, 0, len(p.Submissions))
	for _, sub := range p.Submissions {
		rec, err := im.resolve(ctx, sub, keys)
		if err == nil {
			err = standards.Validate(rec)
		}
		if err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			im.log.Warn("skipping submission", "id", rec.ID, "student_id", sub.StudentID, "test_id", sub.TestID, "error", err)
			sum.Rejected = append(sum.Rejected, aggregate.Rejected{RecordID: rec.ID, Err: err})
			continue
		}
		records = append(records, rec)
	}

	n, err := im.subs.Append(ctx, records...)
	if err != nil {
		return sum, err
	}
	sum.Submissions = n
	sum.Duplicates = len(records) - n

	im.log.Info("import complete",
		"tests", sum.Tests, "classes", sum.Classes,
		"submissions", sum.Submissions, "duplicates", sum.Duplicates, "rejected", len(sum.Rejected))
	return sum, nil
}

// resolve turns a payload submission into a record, grading raw answers.
// The returned record carries an id even on error so it can be reported.
func (im *Importer) resolve(ctx context.Context, sub Submission, keys map[string]*grading.AnswerKey) (standards.SubmissionRecord, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}

	if sub.Graded() {
		rec := standards.SubmissionRecord{
			ID:          sub.ID,
			StudentID:   sub.StudentID,
			TestID:      sub.TestID,
			SubmittedAt: sub.SubmittedAt.UTC(),
			Score:       *sub.Score,
			Standards:   sub.Standards,
		}
		if rec.SubmittedAt.IsZero() {
			rec.SubmittedAt = im.now().UTC()
		}
		return rec, nil
	}

	key, ok := keys[sub.TestID]
	if !ok {
		var err error
		key, err = im.tests.Get(ctx, sub.TestID)
		if err != nil {
			return standards.SubmissionRecord{ID: sub.ID}, fmt.Errorf("answer key for %s: %w", sub.TestID, err)
		}
		keys[sub.TestID] = key
	}

	rec, err := grading.Grade(*key, grading.AnswerSheet{
		SubmissionID: sub.ID,
		StudentID:    sub.StudentID,
		TestID:       sub.TestID,
		SubmittedAt:  sub.SubmittedAt,
		Answers:      sub.Answers,
	}, im.now())
	if err != nil {
		return standards.SubmissionRecord{ID: sub.ID}, err
	}
	return rec, nil
}
