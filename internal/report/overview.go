package report

import (
	"sort"

	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/standards"
	"github.com/abhisek/quizmark/internal/trend"
)

// StandardTrend is one row of the standards-over-time view.
type StandardTrend struct {
	Standard           standards.StandardCode `json:"standard"`
	TotalAttempts      int                    `json:"total_attempts"`
	Submissions        int                    `json:"submissions"`
	LatestPerformance  int                    `json:"latest_performance"`
	AveragePerformance int                    `json:"average_performance"`
	Trend              trend.Label            `json:"trend"`
	NeedsAttention     bool                   `json:"needs_attention"`
}

// OverviewSummary totals the standards-over-time view.
type OverviewSummary struct {
	TotalSubmissions      int `json:"total_submissions"`
	TotalStandardsTracked int `json:"total_standards_tracked"`
	// Flagged standard codes in row order.
	StandardsNeedingAttention []standards.StandardCode `json:"standards_needing_attention"`
	AttentionCount            int                      `json:"standards_needing_attention_count"`
	RejectedRecords           int                      `json:"rejected_records"`
}

// Overview is the class-wide standards-over-time report.
type Overview struct {
	NoData    bool            `json:"no_data"`
	Summary   OverviewSummary `json:"summary"`
	Standards []StandardTrend `json:"standards"`

	Rejected []aggregate.Rejected `json:"-"`
}

// StandardsOverview reports every standard with at least one attempt in
// records. A standard needs attention when its average performance is
// below the attention cut or its trend is declining.
//
// With aggregate.ByPercentage the rows are ordered by ascending average
// performance; otherwise the aggregate order is kept.
func (a *Assembler) StandardsOverview(records []standards.SubmissionRecord, order aggregate.Order) *Overview {
	res := aggregate.Aggregate(records, order)

	ov := &Overview{
		Standards: make([]StandardTrend, 0, len(res.Aggregates)),
		Rejected:  res.Rejected,
	}
	ov.Summary.TotalSubmissions = len(res.Accepted)
	ov.Summary.RejectedRecords = len(res.Rejected)

	for _, ag := range res.Aggregates {
		row := StandardTrend{
			Standard:           ag.Standard,
			TotalAttempts:      ag.Total,
			Submissions:        ag.Attempts,
			LatestPerformance:  ag.Latest(),
			AveragePerformance: ag.Average(),
			Trend:              a.cfg.Trend.Classify(ag.Percentages()),
		}
		row.NeedsAttention = row.AveragePerformance < a.cfg.AttentionCut || row.Trend == trend.Declining
		ov.Standards = append(ov.Standards, row)
	}
	ov.Summary.TotalStandardsTracked = len(ov.Standards)

	if order == aggregate.ByPercentage {
		sort.SliceStable(ov.Standards, func(i, j int) bool {
			return ov.Standards[i].AveragePerformance < ov.Standards[j].AveragePerformance
		})
	}

	ov.Summary.StandardsNeedingAttention = make([]standards.StandardCode, 0)
	for _, row := range ov.Standards {
		if row.NeedsAttention {
			ov.Summary.StandardsNeedingAttention = append(ov.Summary.StandardsNeedingAttention, row.Standard)
		}
	}
	ov.Summary.AttentionCount = len(ov.Summary.StandardsNeedingAttention)

	ov.NoData = len(ov.Standards) == 0
	return ov
}
