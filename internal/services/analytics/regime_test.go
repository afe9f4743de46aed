package analytics

import (
	"math"
	"testing"

	"CoinFunnel/internal/domain/models"
)

func TestClassifyRegimeShortSeries(t *testing.T) {
	closes := make([]float64, 150)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	if got := ClassifyRegime(closes); got != models.RegimeTransitional {
		t.Fatalf("expected transitional for short history, got %q", got)
	}
}

func TestClassifyRegimeFlatMarket(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100
	}

	if got := ClassifyRegime(closes); got != models.RegimeDangerousFlat {
		t.Fatalf("expected dangerous flat market, got %q", got)
	}
}

func TestClassifyRegimeConfirmedBullish(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		// Long flat base, then a strong expansion at the end so the
		// current band width sits above its recent average.
		if i < 230 {
			closes[i] = 100
		} else {
			closes[i] = 100 * math.Pow(1.03, float64(i-229))
		}
	}

	if got := ClassifyRegime(closes); got != models.RegimeConfirmedBullish {
		t.Fatalf("expected confirmed bullish trend, got %q", got)
	}
}

func TestClassifyRegimeBearish(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		if i < 230 {
			closes[i] = 100
		} else {
			closes[i] = 100 * math.Pow(0.97, float64(i-229))
		}
	}

	if got := ClassifyRegime(closes); got != models.RegimeBearish {
		t.Fatalf("expected bearish trend, got %q", got)
	}
}

func TestClassifyRegimeDeterministic(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/7)
	}

	first := ClassifyRegime(closes)
	for i := 0; i < 5; i++ {
		if got := ClassifyRegime(closes); got != first {
			t.Fatalf("classification changed between runs: %q then %q", first, got)
		}
	}
}
