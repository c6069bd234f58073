package usecase

import "github.com/groceryai/backend/internal/domain"

// Coarse brightness/contrast heuristic standing in for a trained classifier
const (
	requiredChannels = 3

	freshBrightnessMin   = 150.0
	freshContrastMin     = 50.0
	averageBrightnessMin = 100.0
	averageContrastMin   = 30.0

	scoreFresh       = 85
	scoreAverage     = 65
	scoreNotFresh    = 30
	scoreUnsupported = 50
)

// Score bands for the grade and storage advice
const (
	excellentScoreMin = 80
	averageScoreMin   = 60
)

// FreshnessScorer maps image statistics to a freshness verdict
type FreshnessScorer struct{}

// NewFreshnessScorer creates a new freshness scorer
func NewFreshnessScorer() *FreshnessScorer {
	return &FreshnessScorer{}
}

// Score rates an image. Non-color images get a neutral fallback.
func (s *FreshnessScorer) Score(stats domain.ImageStats) domain.FreshnessAssessment {
	score, category := classifyFreshness(stats)
	grade, recommendations := freshnessAdvice(score)
	return domain.FreshnessAssessment{
		Score:           score,
		Category:        category,
		Grade:           grade,
		Recommendations: recommendations,
	}
}

func classifyFreshness(stats domain.ImageStats) (int, domain.FreshnessCategory) {
	switch {
	case stats.Channels != requiredChannels:
		return scoreUnsupported, domain.FreshnessAverage
	case stats.Brightness > freshBrightnessMin && stats.Contrast > freshContrastMin:
		return scoreFresh, domain.FreshnessFresh
	case stats.Brightness > averageBrightnessMin && stats.Contrast > averageContrastMin:
		return scoreAverage, domain.FreshnessAverage
	default:
		return scoreNotFresh, domain.FreshnessNotFresh
	}
}

func freshnessAdvice(score int) (string, []string) {
	switch {
	case score >= excellentScoreMin:
		return "Excellent", []string{
			"Perfect for salads and raw consumption",
			"Can be stored for 5-7 days",
		}
	case score >= averageScoreMin:
		return "Average", []string{
			"Best for cooking within 2-3 days",
			"Store in refrigerator",
		}
	default:
		return "Poor", []string{
			"Use immediately in cooked dishes",
			"Do not store for more than 1 day",
		}
	}
}
