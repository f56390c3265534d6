package predict

import (
	"fmt"

	"github.com/abhisek/quizmark/internal/trend"
)

// Recommend builds the guidance text for a prediction. The branch between
// affirming and intervention wording is p.OnTrack(cut).
func Recommend(p Prediction, cut int) string {
	if p.OnTrack(cut) {
		switch p.Trend {
		case trend.Improving:
			return fmt.Sprintf("Students are on track with %s and improving. Consider enrichment tasks that extend this standard.", p.Standard)
		case trend.Declining:
			return fmt.Sprintf("Students are on track with %s, but recent results are slipping. Revisit it in warm-ups to hold proficiency.", p.Standard)
		default:
			return fmt.Sprintf("Students are on track with %s. Continue regular practice to maintain proficiency.", p.Standard)
		}
	}

	switch p.Trend {
	case trend.Improving:
		return fmt.Sprintf("Students are improving on %s but are not yet proficient. Keep the current intervention and add guided practice.", p.Standard)
	case trend.Declining:
		return fmt.Sprintf("Performance on %s is declining. Plan targeted reteaching and small-group intervention before the next assessment.", p.Standard)
	default:
		return fmt.Sprintf("Students need additional support with %s. Schedule targeted review and practice before the next assessment.", p.Standard)
	}
}
