package domain

// MarginBand is the display tier of a margin fraction.
type MarginBand string

const (
	MarginLow    MarginBand = "low"
	MarginMedium MarginBand = "medium"
	MarginHigh   MarginBand = "high"
)

// BandForMargin uses the 20% and 30% breakpoints.
func BandForMargin(margin float64) MarginBand {
	switch {
	case margin >= 0.30:
		return MarginHigh
	case margin >= 0.20:
		return MarginMedium
	default:
		return MarginLow
	}
}

// KeywordDifficulty is the display tier of a 0-100 keyword difficulty score.
type KeywordDifficulty string

const (
	DifficultyEasy   KeywordDifficulty = "easy"
	DifficultyMedium KeywordDifficulty = "medium"
	DifficultyHard   KeywordDifficulty = "hard"
)

func DifficultyFor(score float64) KeywordDifficulty {
	switch {
	case score < 30:
		return DifficultyEasy
	case score < 70:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// ScoreTier is the colour tier used when rendering a composite score.
type ScoreTier string

const (
	TierGreen  ScoreTier = "green"
	TierYellow ScoreTier = "yellow"
	TierRed    ScoreTier = "red"
)

func TierFor(composite float64) ScoreTier {
	switch {
	case composite >= RecommendedMin:
		return TierGreen
	case composite >= AvoidBelow:
		return TierYellow
	default:
		return TierRed
	}
}
