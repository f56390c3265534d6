package predict

import (
	"errors"
	"math"

	"github.com/abhisek/quizmark/internal/aggregate"
	"github.com/abhisek/quizmark/internal/standards"
	"github.com/abhisek/quizmark/internal/trend"
)

// ErrEmptySeries is returned when a prediction is requested for a series
// with no data points. Callers must filter to standards with at least one
// attempt.
var ErrEmptySeries = errors.New("predict: empty series")

// Confidence is a coarse qualifier on how many data points back a
// prediction. It reflects sample size only, not residual error.
type Confidence string

const (
	Low    Confidence = "low"
	Medium Confidence = "medium"
	High   Confidence = "high"
)

// Prediction is the forecast for one standard.
type Prediction struct {
	Standard       standards.StandardCode `json:"standard"`
	CurrentAverage int                    `json:"current_average"`
	PredictedScore int                    `json:"predicted_score"`
	Trend          trend.Label            `json:"trend"`
	Confidence     Confidence             `json:"confidence"`
	Recommendation string                 `json:"recommendation"`
	DataPoints     int                    `json:"data_points"`
}

// OnTrack reports whether the predicted score meets the proficiency cut.
func (p Prediction) OnTrack(cut int) bool {
	return p.PredictedScore >= cut
}

// Predictor forecasts the next attempt-level percentage of a standard.
type Predictor struct {
	cfg Config
}

// New creates a Predictor.
func New(cfg Config) *Predictor {
	return &Predictor{cfg: cfg}
}

// Config returns the predictor's thresholds.
func (p *Predictor) Config() Config {
	return p.cfg
}

// Predict forecasts the next percentage for standard from its
// chronological series. label is the series' trend; series shorter than
// the trend minimum are always reported as insufficient data.
//
// With insufficient data the prediction is the current average. Otherwise
// an ordinary least squares line of percentage against attempt index is
// evaluated one step past the last index and clamped to [0, 100].
func (p *Predictor) Predict(standard standards.StandardCode, series []aggregate.Point, label trend.Label) (Prediction, error) {
	if len(series) == 0 {
		return Prediction{}, ErrEmptySeries
	}

	values := make([]int, len(series))
	for i, pt := range series {
		values[i] = pt.Percentage
	}

	if len(values) < p.cfg.Trend.MinPoints || label == "" {
		label = trend.InsufficientData
	}

	current := standards.MeanRounded(values)
	predicted := current
	if label != trend.InsufficientData && len(values) >= 2 {
		predicted = standards.Clamp(roundHalfUp(forecastNext(values)), 0, 100)
	}

	pred := Prediction{
		Standard:       standard,
		CurrentAverage: current,
		PredictedScore: predicted,
		Trend:          label,
		Confidence:     p.confidence(len(values)),
		DataPoints:     len(values),
	}
	pred.Recommendation = Recommend(pred, p.cfg.ProficiencyCut)
	return pred, nil
}

func (p *Predictor) confidence(n int) Confidence {
	switch {
	case n >= p.cfg.HighConfidenceAt:
		return High
	case n >= p.cfg.MediumConfidenceAt:
		return Medium
	default:
		return Low
	}
}

// forecastNext fits y = a + b*x over x = 0..n-1 and returns the fit at x = n.
func forecastNext(values []int) float64 {
	n := float64(len(values))
	xMean := (n - 1) / 2

	yMean := 0.0
	for _, v := range values {
		yMean += float64(v)
	}
	yMean /= n

	var sxy, sxx float64
	for i, v := range values {
		dx := float64(i) - xMean
		sxy += dx * (float64(v) - yMean)
		sxx += dx * dx
	}
	if sxx == 0 {
		return yMean
	}
	slope := sxy / sxx
	intercept := yMean - slope*xMean
	return intercept + slope*n
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
