package diff

import (
	"fmt"

	apperrors "github.com/anime-shed/screenshot-differ/internal/errors"
)

// Verdict is the three-way classification of one compared pair
type Verdict string

const (
	// VerdictMatch means the score is within rendering noise
	VerdictMatch Verdict = "MATCH"
	// VerdictMinorDiff means a possible change that needs human review
	VerdictMinorDiff Verdict = "MINOR_DIFF"
	// VerdictMajorDiff means the two sides show different content
	VerdictMajorDiff Verdict = "MAJOR_DIFF"
)

// Default thresholds, tuned empirically against known rendering-noise
// baselines such as font-smoothing differences between engines.
const (
	DefaultMatchThreshold  = 22.0
	DefaultReviewThreshold = 30.0
)

// Classifier maps an RMS score to a Verdict using two ordered thresholds
type Classifier struct {
	matchThreshold  float64
	reviewThreshold float64
}

// NewClassifier creates a classifier with explicit thresholds.
// matchThreshold must be positive and strictly below reviewThreshold.
func NewClassifier(matchThreshold, reviewThreshold float64) (*Classifier, error) {
	if matchThreshold <= 0 || reviewThreshold <= 0 {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("thresholds must be > 0 (got match=%.2f, review=%.2f)", matchThreshold, reviewThreshold), nil)
	}
	if matchThreshold >= reviewThreshold {
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("match threshold %.2f must be below review threshold %.2f", matchThreshold, reviewThreshold), nil)
	}
	return &Classifier{
		matchThreshold:  matchThreshold,
		reviewThreshold: reviewThreshold,
	}, nil
}

// Classify maps a score to a verdict. Total: every non-negative score
// lands in exactly one band. Scores exactly at a threshold belong to
// the band above it.
func (c *Classifier) Classify(rms float64) Verdict {
	switch {
	case rms < c.matchThreshold:
		return VerdictMatch
	case rms < c.reviewThreshold:
		return VerdictMinorDiff
	default:
		return VerdictMajorDiff
	}
}
