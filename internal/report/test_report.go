package report

import (
	"time"

	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/proficiency"
	"github.com/abhisek/quizmark/internal/standards"
)

// StudentScore places one submission's overall score in a band group.
type StudentScore struct {
	SubmissionID string `json:"submission_id"`
	StudentID    string `json:"student_id"`
	Score        int    `json:"score"`
}

// StudentStandardScore places one submission's result on a single
// standard in a band group.
type StudentStandardScore struct {
	SubmissionID string `json:"submission_id"`
	StudentID    string `json:"student_id"`
	Correct      int    `json:"correct"`
	Total        int    `json:"total"`
	Percentage   int    `json:"percentage"`
}

// StudentResult is one row of the individual results list.
type StudentResult struct {
	SubmissionID string           `json:"submission_id"`
	StudentID    string           `json:"student_id"`
	Score        int              `json:"score"`
	Band         proficiency.Band `json:"band"`
	SubmittedAt  time.Time        `json:"submitted_at"`
}

// BandGroups buckets per-standard student results by proficiency band.
type BandGroups map[proficiency.Band][]StudentStandardScore

// TestReport is the per-test class report.
type TestReport struct {
	NoData                     bool                                  `json:"no_data"`
	TestID                     string                                `json:"test_id"`
	TestTitle                  string                                `json:"test_title,omitempty"`
	TotalSubmissions           int                                   `json:"total_submissions"`
	ClassAverage               int                                   `json:"class_average"`
	ProficiencyGroups          map[proficiency.Band][]StudentScore   `json:"proficiency_groups"`
	StandardsOverview          []StandardSummary                     `json:"standards_overview"`
	StandardsProficiencyGroups map[standards.StandardCode]BandGroups `json:"standards_proficiency_groups"`
	StudentResults             []StudentResult                       `json:"student_results"`
	RejectedRecords            int                                   `json:"rejected_records"`

	Rejected []aggregate.Rejected `json:"-"`
}

// TestReport builds the report for one test. Records for other tests are
// ignored when testID is non-empty.
func (a *Assembler) TestReport(testID string, records []standards.SubmissionRecord) *TestReport {
	if testID != "" {
		records = standards.Filter(records, func(r standards.SubmissionRecord) bool { return r.TestID == testID })
	}
	res := aggregate.Aggregate(records, aggregate.ByAttempts)
	accepted := res.Accepted

	rep := &TestReport{
		NoData:                     len(accepted) == 0,
		TestID:                     testID,
		TotalSubmissions:           len(accepted),
		ClassAverage:               standards.MeanRounded(scores(accepted)),
		StandardsOverview:          summarize(res.Aggregates),
		StandardsProficiencyGroups: make(map[standards.StandardCode]BandGroups, len(res.Aggregates)),
		StudentResults:             make([]StudentResult, 0, len(accepted)),
		RejectedRecords:            len(res.Rejected),
		Rejected:                   res.Rejected,
	}

	overall := make([]StudentScore, 0, len(accepted))
	for _, r := range accepted {
		overall = append(overall, StudentScore{SubmissionID: r.ID, StudentID: r.StudentID, Score: r.Score})
		rep.StudentResults = append(rep.StudentResults, StudentResult{
			SubmissionID: r.ID,
			StudentID:    r.StudentID,
			Score:        r.Score,
			Band:         proficiency.Classify(r.Score),
			SubmittedAt:  r.SubmittedAt,
		})
	}
	rep.ProficiencyGroups = proficiency.GroupByBand(overall, func(s StudentScore) int { return s.Score })

	for _, ag := range res.Aggregates {
		var perStudent []StudentStandardScore
		for _, r := range accepted {
			t, ok := r.Standards[ag.Standard]
			if !ok {
				continue
			}
			perStudent = append(perStudent, StudentStandardScore{
				SubmissionID: r.ID,
				StudentID:    r.StudentID,
				Correct:      t.Correct,
				Total:        t.Total,
				Percentage:   t.Percentage(),
			})
		}
		rep.StandardsProficiencyGroups[ag.Standard] = proficiency.GroupByBand(perStudent, func(s StudentStandardScore) int { return s.Percentage })
	}

	return rep
}
