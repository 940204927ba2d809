// Package domain contains the opportunity score types for the scoring context.
package domain

import (
	"fmt"
	"math"

	"github.com/fd1az/seller-scout/internal/apperror"
)

// Recommendation thresholds on the composite score.
const (
	RecommendedMin = 70.0
	AvoidBelow     = 40.0
)

// Recommendation is the display label derived from a composite score.
type Recommendation string

const (
	Recommended Recommendation = "recommended"
	Moderate    Recommendation = "moderate"
	Avoid       Recommendation = "avoid"
)

// RecommendationFor maps a composite score to its label.
func RecommendationFor(composite float64) Recommendation {
	switch {
	case composite >= RecommendedMin:
		return Recommended
	case composite < AvoidBelow:
		return Avoid
	default:
		return Moderate
	}
}

// OpportunityScore holds the four sub-scores and their weighted composite, all in [0, 100].
type OpportunityScore struct {
	Demand      float64
	Competition float64
	Margin      float64
	Growth      float64
	Composite   float64
}

// Recommendation returns the label for the composite score.
func (s OpportunityScore) Recommendation() Recommendation {
	return RecommendationFor(s.Composite)
}

// Weights blend the sub-scores into the composite.
type Weights struct {
	Demand      float64
	Competition float64
	Margin      float64
	Growth      float64
}

const weightTolerance = 1e-9

// EqualWeights gives each sub-score a quarter of the composite.
func EqualWeights() Weights {
	return Weights{Demand: 0.25, Competition: 0.25, Margin: 0.25, Growth: 0.25}
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Demand + w.Competition + w.Margin + w.Growth
}

// Validate requires finite non-negative weights summing to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Demand, w.Competition, w.Margin, w.Growth} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return apperror.Validation(apperror.CodeInvalidWeights, fmt.Sprintf("weight %v", v))
		}
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		return apperror.Validation(apperror.CodeInvalidWeights, fmt.Sprintf("weights sum to %v", w.Sum()))
	}
	return nil
}

// Blend returns the weighted sum of s's sub-scores.
func (w Weights) Blend(s OpportunityScore) float64 {
	return w.Demand*s.Demand + w.Competition*s.Competition + w.Margin*s.Margin + w.Growth*s.Growth
}
