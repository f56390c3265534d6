package report

import (
	"time"

	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/proficiency"
	"github.com/abhisek/quizmark/internal/standards"
)

// StandardResult is a student's result on one standard within one test.
type StandardResult struct {
	Standard   standards.StandardCode `json:"standard"`
	Correct    int                    `json:"correct"`
	Total      int                    `json:"total"`
	Percentage int                    `json:"percentage"`
}

// TestResult is one entry in a student's test history.
type TestResult struct {
	SubmissionID string           `json:"submission_id"`
	TestID       string           `json:"test_id"`
	Score        int              `json:"score"`
	Band         proficiency.Band `json:"band"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	Standards    []StandardResult `json:"standards_breakdown"`
}

// StudentReport is the lifetime report for one student.
type StudentReport struct {
	NoData                      bool              `json:"no_data"`
	StudentID                   string            `json:"student_id"`
	TotalTests                  int               `json:"total_tests"`
	AverageScore                int               `json:"average_score"`
	OverallStandardsPerformance []StandardSummary `json:"overall_standards_performance"`
	TestHistory                 []TestResult      `json:"test_history"`
	RejectedRecords             int               `json:"rejected_records"`

	Rejected []aggregate.Rejected `json:"-"`
}

// StudentReport builds the report for one student. Records for other
// students are ignored when studentID is non-empty. A student with no
// submissions yields a NoData report with zero totals.
func (a *Assembler) StudentReport(studentID string, records []standards.SubmissionRecord) *StudentReport {
	if studentID != "" {
		records = standards.Filter(records, func(r standards.SubmissionRecord) bool { return r.StudentID == studentID })
	}
	res := aggregate.Aggregate(records, aggregate.ByAttempts)

	rep := &StudentReport{
		NoData:                      len(res.Accepted) == 0,
		StudentID:                   studentID,
		TotalTests:                  len(res.Accepted),
		AverageScore:                standards.MeanRounded(scores(res.Accepted)),
		OverallStandardsPerformance: summarize(res.Aggregates),
		TestHistory:                 make([]TestResult, 0, len(res.Accepted)),
		RejectedRecords:             len(res.Rejected),
		Rejected:                    res.Rejected,
	}

	for _, r := range res.Accepted {
		tr := TestResult{
			SubmissionID: r.ID,
			TestID:       r.TestID,
			Score:        r.Score,
			Band:         proficiency.Classify(r.Score),
			SubmittedAt:  r.SubmittedAt,
			Standards:    make([]StandardResult, 0, len(r.Standards)),
		}
		for _, code := range r.Codes() {
			t := r.Standards[code]
			tr.Standards = append(tr.Standards, StandardResult{
				Standard:   code,
				Correct:    t.Correct,
				Total:      t.Total,
				Percentage: t.Percentage(),
			})
		}
		rep.TestHistory = append(rep.TestHistory, tr)
	}

	return rep
}
