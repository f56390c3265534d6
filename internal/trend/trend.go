package trend

// Label classifies the trajectory of a standard's attempt-level series.
type Label string

const (
	Improving        Label = "improving"
	Stable           Label = "stable"
	Declining        Label = "declining"
	InsufficientData Label = "insufficient_data"
)

const (
	// DefaultMinPoints is the shortest series that gets a trend label.
	// Two-point slopes are dominated by test-to-test difficulty noise.
	DefaultMinPoints = 3

	// DefaultDeadband is the percentage-point change between the earlier
	// and recent half means that must be exceeded to call a trend.
	DefaultDeadband = 5.0
)

// Config holds the trend classification thresholds.
type Config struct {
	MinPoints int     `yaml:"min_points"`
	Deadband  float64 `yaml:"deadband"`
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		MinPoints: DefaultMinPoints,
		Deadband:  DefaultDeadband,
	}
}

// Classify labels series using the default thresholds.
func Classify(series []int) Label {
	return DefaultConfig().Classify(series)
}

// Classify labels series. The series is split into an earlier and a recent
// half; with an odd count the middle point belongs to the recent half.
// The label follows the difference of the half means against the deadband.
func (c Config) Classify(series []int) Label {
	if len(series) < c.MinPoints || len(series) < 2 {
		return InsufficientData
	}

	delta := Delta(series)
	switch {
	case delta > c.Deadband:
		return Improving
	case delta < -c.Deadband:
		return Declining
	default:
		return Stable
	}
}

// Delta returns mean(recent half) - mean(earlier half), or 0 for series
// too short to split.
func Delta(series []int) float64 {
	if len(series) < 2 {
		return 0
	}
	split := len(series) / 2
	return mean(series[split:]) - mean(series[:split])
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
