// Package report composes aggregation, proficiency, trend and prediction
// into the report shapes served to callers. Every function is a pure
// projection over the records it is given: no I/O, no shared state.
package report

import (
	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/predict"
	"github.com/abhisek/quizmark/internal/standards"
	"github.com/abhisek/quizmark/internal/trend"
)

// Config holds the policy thresholds used by the assembler.
type Config struct {
	Trend      trend.Config
	Prediction predict.Config
	// AttentionCut is the average performance below which a standard
	// needs attention.
	AttentionCut int
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		Trend:        trend.DefaultConfig(),
		Prediction:   predict.DefaultConfig(),
		AttentionCut: 70,
	}
}

// Assembler builds reports from already-fetched submission records.
// It is safe for concurrent use.
type Assembler struct {
	cfg       Config
	predictor *predict.Predictor
}

// New creates an Assembler.
func New(cfg Config) *Assembler {
	pcfg := cfg.Prediction
	pcfg.Trend = cfg.Trend
	return &Assembler{
		cfg:       cfg,
		predictor: predict.New(pcfg),
	}
}

// Config returns the assembler's thresholds.
func (a *Assembler) Config() Config {
	return a.cfg
}

// StandardSummary is the cumulative result on one standard.
type StandardSummary struct {
	Standard    standards.StandardCode `json:"standard"`
	Correct     int                    `json:"correct"`
	Total       int                    `json:"total"`
	Percentage  int                    `json:"percentage"`
	Submissions int                    `json:"submissions"`
}

func summarize(aggs []aggregate.StandardAggregate) []StandardSummary {
	out := make([]StandardSummary, len(aggs))
	for i, ag := range aggs {
		out[i] = StandardSummary{
			Standard:    ag.Standard,
			Correct:     ag.Correct,
			Total:       ag.Total,
			Percentage:  ag.Percentage,
			Submissions: ag.Attempts,
		}
	}
	return out
}

func scores(records []standards.SubmissionRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Score
	}
	return out
}
