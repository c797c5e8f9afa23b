// Package trend extracts statistical trend metrics from weather series.
// Every function absorbs degenerate input (short series, zero variance,
// non-finite samples) into zero-valued results; none of them returns an
// error.
package trend

import (
	"math"

	"github.com/emberline/wildfire-risk-service/internal/models"
)

// DefaultWindow is the moving-average and seasonality lag window used
// when the caller does not choose one.
const DefaultWindow = 7

// Analyze computes trend metrics for a chronological sample series.
// Fewer than 2 samples yields the zero record. window defaults to
// DefaultWindow when non-positive.
func Analyze(samples []float64, window int) models.TrendMetrics {
	if window <= 0 {
		window = DefaultWindow
	}

	zero := models.TrendMetrics{MovingAverage: []float64{}}
	if len(samples) < 2 || !allFinite(samples) {
		return zero
	}

	slope, r2 := linearFit(samples)
	return models.TrendMetrics{
		LinearTrend:   slope,
		RSquared:      r2,
		MovingAverage: movingAverage(samples, window),
		Volatility:    populationStd(samples),
		Seasonality:   seasonality(samples, window),
	}
}

// linearFit returns the OLS slope of value against sample index and the
// squared Pearson correlation of the fit. A flat or degenerate series
// yields (0, 0).
func linearFit(samples []float64) (slope, r2 float64) {
	n := float64(len(samples))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i, y := range samples {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		sumYY += y * y
	}

	varX := sumXX - sumX*sumX/n
	varY := sumYY - sumY*sumY/n
	cov := sumXY - sumX*sumY/n

	if varX == 0 {
		return 0, 0
	}
	slope = cov / varX
	if !isFinite(slope) {
		return 0, 0
	}
	if varY == 0 {
		return slope, 0
	}
	r := cov / math.Sqrt(varX*varY)
	r2 = r * r
	if !isFinite(r2) {
		return slope, 0
	}
	if r2 > 1 {
		r2 = 1
	}
	return slope, r2
}

// movingAverage returns the simple moving average over full windows
// only: length len(samples)-window+1, or empty when the series is
// shorter than the window.
func movingAverage(samples []float64, window int) []float64 {
	if len(samples) < window {
		return []float64{}
	}
	out := make([]float64, 0, len(samples)-window+1)
	var sum float64
	for i, v := range samples {
		sum += v
		if i >= window {
			sum -= samples[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// populationStd is the population standard deviation of the series.
func populationStd(samples []float64) float64 {
	n := float64(len(samples))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	mean := sum / n
	var ss float64
	for _, v := range samples {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / n)
	if !isFinite(std) {
		return 0
	}
	return std
}

// seasonality is the Pearson correlation between the series and itself
// shifted by the lag window, over the overlapping tail. Undefined
// correlations (short overlap, zero variance) resolve to 0.
func seasonality(samples []float64, window int) float64 {
	if len(samples) <= window {
		return 0
	}
	head := samples[window:]
	tail := samples[:len(samples)-window]
	if len(head) < 2 {
		return 0
	}
	r, ok := pearson(head, tail)
	if !ok {
		return 0
	}
	return r
}

// pearson returns the correlation coefficient of two equal-length
// series. ok is false when the correlation is numerically undefined.
func pearson(a, b []float64) (float64, bool) {
	n := float64(len(a))
	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	meanA := sumA / n
	meanB := sumB / n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0, false
	}
	r := cov / math.Sqrt(varA*varB)
	if !isFinite(r) {
		return 0, false
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(samples []float64) bool {
	for _, v := range samples {
		if !isFinite(v) {
			return false
		}
	}
	return true
}
