package indicator

import "math"

// Clamp bounds v to [0, 100].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// SMA returns the simple moving average of the last period values.
// Returns false when there is not enough data.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev returns the sample standard deviation (n-1 denominator).
// Returns 0 for fewer than two values.
func SampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// Bands holds one Bollinger band reading.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes 20-period Bollinger bands (±2 sample standard
// deviations) over the tail of the series. Returns false when the series
// is shorter than the window.
func Bollinger(values []float64, period int) (Bands, bool) {
	if len(values) < period {
		return Bands{}, false
	}
	window := values[len(values)-period:]
	mid := Mean(window)
	sd := SampleStdDev(window)
	return Bands{
		Upper:  mid + 2*sd,
		Middle: mid,
		Lower:  mid - 2*sd,
	}, true
}

// BandWidth returns the band width as a percentage of the middle band,
// or 0 when the middle band is not positive.
func BandWidth(b Bands) float64 {
	if b.Middle <= 0 {
		return 0
	}
	return (b.Upper - b.Lower) / b.Middle * 100
}

// BandWidthSeries computes the trailing band width for each index where a
// full window is available. The result has len(values)-period+1 entries.
func BandWidthSeries(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}
	out := make([]float64, 0, len(values)-period+1)
	for i := period; i <= len(values); i++ {
		window := values[i-period : i]
		mid := Mean(window)
		sd := SampleStdDev(window)
		b := Bands{Upper: mid + 2*sd, Middle: mid, Lower: mid - 2*sd}
		out = append(out, BandWidth(b))
	}
	return out
}

// RSI computes the Wilder relative strength index over the given period.
// Requires at least period+1 values; returns false otherwise.
func RSI(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) <= period {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// EMA computes an exponential moving average series seeded with the SMA of
// the first period values. The result is aligned to the input: entries
// before index period-1 are not meaningful and the returned slice starts
// at that index, with length len(values)-period+1.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, 0, len(values)-period+1)

	seed, _ := SMA(values[:period], period)
	out = append(out, seed)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = values[i]*k + prev*(1-k)
		out = append(out, prev)
	}
	return out
}

// MACD computes the MACD line and its signal line using the standard
// 12/26/9 configuration. Returns false when the series is too short to
// produce a signal value.
func MACD(values []float64, fast, slow, signal int) (macd, sig float64, ok bool) {
	if len(values) < slow+signal {
		return 0, 0, false
	}

	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	// Align the two EMA series on their common tail.
	offset := len(fastEMA) - len(slowEMA)
	line := make([]float64, len(slowEMA))
	for i := range slowEMA {
		line[i] = fastEMA[i+offset] - slowEMA[i]
	}

	sigSeries := EMA(line, signal)
	if len(sigSeries) == 0 {
		return 0, 0, false
	}
	return line[len(line)-1], sigSeries[len(sigSeries)-1], true
}

// PercentChanges returns day-over-day percentage changes, skipping steps
// where the prior value is not positive.
func PercentChanges(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] <= 0 {
			continue
		}
		out = append(out, (values[i]-values[i-1])/values[i-1]*100)
	}
	return out
}

// Min returns the minimum of values, or 0 for an empty slice.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the maximum of values, or 0 for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
