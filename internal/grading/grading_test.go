package grading

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizmark/internal/standards"
)

func fractionsKey() AnswerKey {
	return AnswerKey{
		TestID: "fractions-unit",
		Title:  "Fractions Unit Check",
		Questions: []Question{
			{ID: "q1", Standard: "3.NF.A.1", CorrectAnswer: 0},
			{ID: "q2", Standard: "3.NF.A.1", CorrectAnswer: 2},
			{ID: "q3", Standard: "3.NF.A.2", CorrectAnswer: 1},
			{ID: "q4", Standard: "3.NF.A.3", CorrectAnswer: 3},
		},
	}
}

func TestGrade(t *testing.T) {
	at := time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
	sheet := AnswerSheet{
		SubmissionID: "sub-1",
		StudentID:    "ana",
		TestID:       "fractions-unit",
		SubmittedAt:  at,
		Answers: []Answer{
			{QuestionID: "q1", Selected: 0},
			{QuestionID: "q2", Selected: 1},
			{QuestionID: "q3", Selected: 1},
			{QuestionID: "q3", Selected: 0}, // second answer ignored
			{QuestionID: "q9", Selected: 0}, // unknown question ignored
		},
	}

	rec, err := Grade(fractionsKey(), sheet, time.Now())
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}

	// 2 of 4 questions correct; q4 unanswered.
	if rec.Score != 50 {
		t.Errorf("Score = %d, want 50", rec.Score)
	}
	want := map[standards.StandardCode]standards.Tally{
		"3.NF.A.1": {Correct: 1, Total: 2},
		"3.NF.A.2": {Correct: 1, Total: 1},
	}
	if len(rec.Standards) != len(want) {
		t.Fatalf("Standards = %v, want %v", rec.Standards, want)
	}
	for code, tally := range want {
		if rec.Standards[code] != tally {
			t.Errorf("%s = %+v, want %+v", code, rec.Standards[code], tally)
		}
	}
	if err := standards.Validate(rec); err != nil {
		t.Errorf("graded record fails validation: %v", err)
	}
	if rec.ID != "sub-1" || !rec.SubmittedAt.Equal(at) {
		t.Errorf("ID/SubmittedAt not carried over: %q %v", rec.ID, rec.SubmittedAt)
	}
}

func TestGrade_AssignsIDAndTime(t *testing.T) {
	now := time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC)
	rec, err := Grade(fractionsKey(), AnswerSheet{StudentID: "ben"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", rec.ID, err)
	}
	if !rec.SubmittedAt.Equal(now) {
		t.Errorf("SubmittedAt = %v, want %v", rec.SubmittedAt, now)
	}
	if rec.Score != 0 || len(rec.Standards) != 0 {
		t.Errorf("blank sheet graded as %d with %v", rec.Score, rec.Standards)
	}
}

func TestGrade_Errors(t *testing.T) {
	_, err := Grade(AnswerKey{TestID: "empty"}, AnswerSheet{}, time.Now())
	if !errors.Is(err, ErrEmptyTest) {
		t.Errorf("err = %v, want ErrEmptyTest", err)
	}

	_, err = Grade(fractionsKey(), AnswerSheet{TestID: "other"}, time.Now())
	if err == nil {
		t.Error("expected mismatched test id error")
	}
}

func TestGrade_ScoreRounding(t *testing.T) {
	key := AnswerKey{TestID: "t", Questions: []Question{
		{ID: "a", Standard: "S", CorrectAnswer: 0},
		{ID: "b", Standard: "S", CorrectAnswer: 0},
		{ID: "c", Standard: "S", CorrectAnswer: 0},
	}}
	rec, err := Grade(key, AnswerSheet{Answers: []Answer{{"a", 0}, {"b", 0}, {"c", 1}}}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if rec.Score != 67 {
		t.Errorf("Score = %d, want 67", rec.Score)
	}
}
