package report

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/predict"
	"github.com/abhisek/quizmark/internal/standards"
	"github.com/abhisek/quizmark/internal/trend"
)

// PredictionReport wraps a prediction with an explicit no-data marker for
// standards that have no valid attempts in the record set.
type PredictionReport struct {
	NoData bool `json:"no_data"`
	predict.Prediction

	Rejected []aggregate.Rejected `json:"-"`
}

// Prediction forecasts the next attempt-level percentage on standard from
// the records that touch it.
func (a *Assembler) Prediction(standard standards.StandardCode, records []standards.SubmissionRecord) (*PredictionReport, error) {
	records = standards.Filter(records, func(r standards.SubmissionRecord) bool { return r.Touches(standard) })
	res := aggregate.Aggregate(records, aggregate.ByAttempts)

	ag, ok := res.Find(standard)
	if !ok {
		return &PredictionReport{
			NoData:     true,
			Prediction: predict.Prediction{Standard: standard, Trend: trend.InsufficientData, Confidence: predict.Low},
			Rejected:   res.Rejected,
		}, nil
	}

	label := a.cfg.Trend.Classify(ag.Percentages())
	pred, err := a.predictor.Predict(standard, ag.Series, label)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", standard, err)
	}
	return &PredictionReport{Prediction: pred, Rejected: res.Rejected}, nil
}

// Predictions forecasts every standard present in records, in the
// overview's default order. Standards are predicted concurrently; the
// records skipped by aggregation are returned alongside.
func (a *Assembler) Predictions(ctx context.Context, records []standards.SubmissionRecord) ([]*PredictionReport, []aggregate.Rejected, error) {
	res := aggregate.Aggregate(records, aggregate.ByAttempts)

	out := make([]*PredictionReport, len(res.Aggregates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ag := range res.Aggregates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			label := a.cfg.Trend.Classify(ag.Percentages())
			pred, err := a.predictor.Predict(ag.Standard, ag.Series, label)
			if err != nil {
				return fmt.Errorf("predict %s: %w", ag.Standard, err)
			}
			out[i] = &PredictionReport{Prediction: pred}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, res.Rejected, err
	}
	return out, res.Rejected, nil
}
