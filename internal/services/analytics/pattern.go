package analytics

import "CoinFunnel/internal/services/indicator"

// Pattern classification labels.
const (
	PatternStable       = "Stable Pattern"
	PatternModerate     = "Moderate Pattern"
	PatternErratic      = "Erratic Pattern"
	PatternInsufficient = "Insufficient Data"
	PatternFailed       = "Analysis Failed"
)

const (
	patternMinPoints      = 20
	stableVolatilityMax   = 3.5
	erraticVolatilityMin  = 8.5
	patternStableScore    = 80
	patternModerateScore  = 50
	patternErraticScore   = 20
	patternFallbackScore  = 50
	patternFailureScore   = 30
)

// PatternResult holds a price-behavior classification.
type PatternResult struct {
	Score      int
	Status     string
	Volatility float64
}

// ClassifyPattern scores the day-over-day stability of a close series.
// Short series fall back to a neutral score instead of an error.
func ClassifyPattern(closes []float64) PatternResult {
	if len(closes) < patternMinPoints {
		return PatternResult{Score: patternFallbackScore, Status: PatternInsufficient}
	}

	changes := indicator.PercentChanges(closes)
	if len(changes) < 2 {
		return PatternResult{Score: patternFailureScore, Status: PatternFailed}
	}

	vol := indicator.SampleStdDev(changes)
	switch {
	case vol < stableVolatilityMax:
		return PatternResult{Score: patternStableScore, Status: PatternStable, Volatility: vol}
	case vol > erraticVolatilityMin:
		return PatternResult{Score: patternErraticScore, Status: PatternErratic, Volatility: vol}
	default:
		return PatternResult{Score: patternModerateScore, Status: PatternModerate, Volatility: vol}
	}
}
