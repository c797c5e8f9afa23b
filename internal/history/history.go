// Package history aggregates a region's recent weather observations
// into the statistical pattern consumed by the risk scorer.
package history

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/emberline/wildfire-risk-service/internal/models"
	"github.com/emberline/wildfire-risk-service/internal/trend"
)

// Extreme-event thresholds. These are part of the pattern contract and
// are not tunable per call.
const (
	HighTempThreshold    = 35.0 // °C
	LowHumidityThreshold = 30.0 // %
	HighWindThreshold    = 20.0 // m/s
	DroughtThreshold     = 1.0  // mm
)

// DefaultLookbackDays is the canonical analysis window.
const DefaultLookbackDays = 90

// ObservationSource supplies ordered historical observations for a
// region within a time range, ascending by timestamp.
type ObservationSource interface {
	ObservationsInRange(ctx context.Context, regionID int64, from, to time.Time) ([]models.WeatherObservation, error)
}

// Aggregator computes historical weather patterns over a lookback
// window ending at the current time.
type Aggregator struct {
	source       ObservationSource
	lookbackDays int
	window       int
	clock        clockwork.Clock
	logger       *zap.Logger
}

// NewAggregator creates an Aggregator. lookbackDays defaults to
// DefaultLookbackDays and window to trend.DefaultWindow when
// non-positive. A nil clock falls back to the real clock.
func NewAggregator(source ObservationSource, lookbackDays, window int, clock clockwork.Clock, logger *zap.Logger) *Aggregator {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if window <= 0 {
		window = trend.DefaultWindow
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		source:       source,
		lookbackDays: lookbackDays,
		window:       window,
		clock:        clock,
		logger:       logger,
	}
}

// Analyze builds the historical pattern for a region. A region with no
// observations in the window returns (nil, nil): absence, not an error.
// Only a failed store query surfaces as an error.
func (a *Aggregator) Analyze(ctx context.Context, regionID int64) (*models.HistoricalPattern, error) {
	now := a.clock.Now()
	from := now.AddDate(0, 0, -a.lookbackDays)

	observations, err := a.source.ObservationsInRange(ctx, regionID, from, now)
	if err != nil {
		return nil, fmt.Errorf("fetch observations for region %d: %w", regionID, err)
	}
	if len(observations) == 0 {
		a.logger.Debug("no historical observations", zap.Int64("region_id", regionID))
		return nil, nil
	}

	temperatures := make([]float64, len(observations))
	humidities := make([]float64, len(observations))
	windSpeeds := make([]float64, len(observations))
	precipitations := make([]float64, len(observations))
	for i, obs := range observations {
		temperatures[i] = obs.Temperature
		humidities[i] = obs.Humidity
		windSpeeds[i] = obs.WindSpeed
		precipitations[i] = obs.Precipitation
	}

	pattern := &models.HistoricalPattern{
		Temperature:   a.variablePattern(temperatures, countAbove(temperatures, HighTempThreshold)),
		Humidity:      a.variablePattern(humidities, countBelow(humidities, LowHumidityThreshold)),
		WindSpeed:     a.variablePattern(windSpeeds, countAbove(windSpeeds, HighWindThreshold)),
		Precipitation: a.variablePattern(precipitations, countBelow(precipitations, DroughtThreshold)),
		Season:        SeasonOf(now.Month()),
		SampleCount:   len(observations),
	}
	return pattern, nil
}

// variablePattern computes the stats and trend blocks for one series.
// The trend analyzer absorbs its own degeneracies, so a malformed
// series degrades to zero blocks without aborting the aggregation.
func (a *Aggregator) variablePattern(samples []float64, extremeEvents int) models.VariablePattern {
	return models.VariablePattern{
		Stats:         seriesStats(samples),
		Trends:        trend.Analyze(samples, a.window),
		ExtremeEvents: extremeEvents,
	}
}

// seriesStats computes mean, population std, min, max, and range. An
// empty series yields all zeros.
func seriesStats(samples []float64) models.VariableStats {
	if len(samples) == 0 {
		return models.VariableStats{}
	}

	minV, maxV := samples[0], samples[0]
	var sum float64
	for _, v := range samples {
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	mean := sum / float64(len(samples))

	var ss float64
	for _, v := range samples {
		d := v - mean
		ss += d * d
	}
	std := 0.0
	if len(samples) > 1 {
		std = math.Sqrt(ss / float64(len(samples)))
	}

	return models.VariableStats{
		Mean:  mean,
		Std:   std,
		Min:   minV,
		Max:   maxV,
		Range: maxV - minV,
	}
}

// SeasonOf maps a calendar month to its meteorological season label.
func SeasonOf(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

func countAbove(samples []float64, threshold float64) int {
	n := 0
	for _, v := range samples {
		if v > threshold {
			n++
		}
	}
	return n
}

func countBelow(samples []float64, threshold float64) int {
	n := 0
	for _, v := range samples {
		if v < threshold {
			n++
		}
	}
	return n
}
