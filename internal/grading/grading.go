package grading

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizmark/internal/standards"
)

// ErrEmptyTest is returned when grading against a test with no questions.
var ErrEmptyTest = errors.New("grading: test has no questions")

// Question is one multiple-choice item in an answer key.
type Question struct {
	ID            string                 `json:"id"`
	Standard      standards.StandardCode `json:"standard"`
	CorrectAnswer int                    `json:"correct_answer"`
}

// AnswerKey is the scoring view of a test.
type AnswerKey struct {
	TestID    string     `json:"id"`
	Title     string     `json:"title"`
	ClassID   string     `json:"class_id,omitempty"`
	Questions []Question `json:"questions"`
}

// Answer is a student's selected option for one question.
type Answer struct {
	QuestionID string `json:"question_id"`
	Selected   int    `json:"selected_answer"`
}

// AnswerSheet is an ungraded submission.
type AnswerSheet struct {
	SubmissionID string    `json:"id,omitempty"`
	StudentID    string    `json:"student_id"`
	TestID       string    `json:"test_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Answers      []Answer  `json:"answers"`
}

// Grade scores sheet against key. Each answered question counts toward its
// standard's total, and a matching selection counts as correct. Answers to
// unknown questions are ignored, and only the first answer to a question
// counts. The overall score is the rounded percentage of the test's
// questions answered correctly, so unanswered questions count as wrong.
//
// A sheet without a submission id is assigned a fresh UUID; a zero
// SubmittedAt is replaced by now.
func Grade(key AnswerKey, sheet AnswerSheet, now time.Time) (standards.SubmissionRecord, error) {
	if len(key.Questions) == 0 {
		return standards.SubmissionRecord{}, fmt.Errorf("grade test %q: %w", key.TestID, ErrEmptyTest)
	}
	if sheet.TestID != "" && sheet.TestID != key.TestID {
		return standards.SubmissionRecord{}, fmt.Errorf("grade: sheet is for test %q, key is for %q", sheet.TestID, key.TestID)
	}

	questions := make(map[string]Question, len(key.Questions))
	for _, q := range key.Questions {
		questions[q.ID] = q
	}

	breakdown := make(map[standards.StandardCode]standards.Tally)
	answered := make(map[string]bool, len(sheet.Answers))
	correct := 0
	for _, a := range sheet.Answers {
		q, ok := questions[a.QuestionID]
		if !ok || answered[a.QuestionID] {
			continue
		}
		answered[a.QuestionID] = true

		t := breakdown[q.Standard]
		t.Total++
		if a.Selected == q.CorrectAnswer {
			t.Correct++
			correct++
		}
		breakdown[q.Standard] = t
	}

	rec := standards.SubmissionRecord{
		ID:          sheet.SubmissionID,
		StudentID:   sheet.StudentID,
		TestID:      key.TestID,
		SubmittedAt: sheet.SubmittedAt,
		Score:       standards.Percent(correct, len(key.Questions)),
		Standards:   breakdown,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = now.UTC()
	}
	return rec, nil
}
