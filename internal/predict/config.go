package predict

import "github.com/abhisek/quizmark/internal/trend"

// Config holds predictor thresholds.
type Config struct {
	// MediumConfidenceAt is the number of data points at which confidence
	// rises from low to medium.
	MediumConfidenceAt int `yaml:"medium_confidence_at"`
	// HighConfidenceAt is the number of data points at which confidence
	// rises from medium to high.
	HighConfidenceAt int `yaml:"high_confidence_at"`
	// ProficiencyCut splits affirming from intervention recommendations.
	ProficiencyCut int `yaml:"proficiency_cut"`

	// Trend supplies the minimum series length below which no trend is
	// reported.
	Trend trend.Config `yaml:"-"`
}

// DefaultConfig returns the default predictor thresholds.
func DefaultConfig() Config {
	return Config{
		MediumConfidenceAt: 3,
		HighConfidenceAt:   6,
		ProficiencyCut:     70,
		Trend:              trend.DefaultConfig(),
	}
}
