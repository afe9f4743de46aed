package analytics

import (
	"CoinFunnel/internal/domain/models"
	"CoinFunnel/internal/services/indicator"
)

const (
	regimeMinHistory   = 200
	bandWindow         = 20
	widthLookback      = 50
	squeezeWidthFactor = 0.8
	smaFast            = 50
	smaSlow            = 200
)

// ClassifyRegime derives the structural market regime from a daily close
// series. Series shorter than 200 points classify as transitional.
func ClassifyRegime(closes []float64) models.Regime {
	if len(closes) < regimeMinHistory {
		return models.RegimeTransitional
	}

	price := closes[len(closes)-1]
	sma50, ok50 := indicator.SMA(closes, smaFast)
	sma200, ok200 := indicator.SMA(closes, smaSlow)
	if !ok50 || !ok200 {
		return models.RegimeTransitional
	}

	widths := indicator.BandWidthSeries(closes, bandWindow)
	if len(widths) == 0 {
		return models.RegimeTransitional
	}
	curWidth := widths[len(widths)-1]

	lookback := widths
	if len(lookback) > widthLookback {
		lookback = lookback[len(lookback)-widthLookback:]
	}
	meanWidth := indicator.Mean(lookback)

	trending := curWidth > meanWidth
	squeeze := curWidth < squeezeWidthFactor*meanWidth

	if price > sma200 {
		switch {
		case sma50 > sma200 && trending:
			return models.RegimeConfirmedBullish
		case price > sma50 && !trending:
			return models.RegimeSafeFlat
		case price > sma50 && squeeze:
			return models.RegimeSqueeze
		default:
			return models.RegimePullback
		}
	}

	switch {
	case price > sma50:
		return models.RegimeYoungUptrend
	case trending:
		return models.RegimeBearish
	default:
		return models.RegimeDangerousFlat
	}
}
