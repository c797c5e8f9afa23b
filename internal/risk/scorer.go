// Package risk maps current weather, region metadata, and historical
// patterns into a bounded wildfire risk assessment. Every input
// degeneracy resolves to a neutral default; Score always returns a
// complete assessment.
package risk

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/emberline/wildfire-risk-service/internal/history"
	"github.com/emberline/wildfire-risk-service/internal/models"
)

// ModelVersion tags predictions produced by this heuristic.
const ModelVersion = "heuristic-v1"

// Risk level classification thresholds on the 0-100 score scale.
const (
	ExtremeThreshold = 80.0
	HighThreshold    = 60.0
	MediumThreshold  = 40.0
)

// Environmental sub-factor weights; they sum to 1.0.
const (
	temperatureWeight   = 0.25
	humidityWeight      = 0.25
	windWeight          = 0.20
	precipitationWeight = 0.20
	historicalWeight    = 0.10
)

// neutralHistoricalRisk is used when no historical pattern is available.
const neutralHistoricalRisk = 0.5

// Input bundles everything a single scoring pass consumes. Pattern may
// be nil when no history exists; missing weather fields are treated as
// zero-valued.
type Input struct {
	Region  models.Region
	Weather models.WeatherObservation
	Pattern *models.HistoricalPattern
}

// Scorer computes risk assessments from injected factor tables. It is
// stateless between calls and safe for concurrent use.
type Scorer struct {
	factors      Factors
	droughtIndex float64
	clock        clockwork.Clock
}

// NewScorer creates a Scorer. droughtIndex above 1 enables the drought
// soil modifier; pass 0 when no drought index is supplied. A nil clock
// falls back to the real clock.
func NewScorer(factors Factors, droughtIndex float64, clock clockwork.Clock) *Scorer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scorer{
		factors:      factors,
		droughtIndex: droughtIndex,
		clock:        clock,
	}
}

// Score produces the assessment for one region at the current time.
func (s *Scorer) Score(in Input) models.RiskAssessment {
	now := s.clock.Now()
	season := history.SeasonOf(now.Month())
	if in.Pattern != nil && in.Pattern.Season != "" {
		season = in.Pattern.Season
	}

	tempRisk := temperatureRisk(in.Weather.Temperature)
	humRisk := humidityRisk(in.Weather.Humidity)
	windRisk := windRisk(in.Weather.WindSpeed)
	precipRisk := precipitationRisk(in.Weather.Precipitation, in.Weather.Temperature)
	histRisk := historicalRisk(in.Pattern)

	environmental := temperatureWeight*tempRisk +
		humidityWeight*humRisk +
		windWeight*windRisk +
		precipitationWeight*precipRisk +
		historicalWeight*histRisk

	soilFactor := s.soilFactor(in.Region.Soil, season)
	vegetationFactor := s.vegetationFactor(in.Region.VegetationDensity)
	climateFactor := s.climateFactor(in.Region.ClimateZone, now.Month())

	score := environmental * 100 * soilFactor * vegetationFactor * climateFactor
	if score > 100 {
		score = 100
	}
	if score < 0 || math.IsNaN(score) {
		score = 0
	}

	return models.RiskAssessment{
		Score:      score,
		Level:      Classify(score),
		Confidence: confidence(in.Pattern, tempRisk, humRisk, windRisk, precipRisk),
		Factors: models.FactorBreakdown{
			Temperature:   tempRisk,
			Humidity:      humRisk,
			Wind:          windRisk,
			Precipitation: precipRisk,
			Historical:    histRisk,
			Soil:          soilFactor,
			Vegetation:    vegetationFactor,
			Climate:       climateFactor,
		},
	}
}

// Classify maps a 0-100 score to its risk level. Boundaries are
// inclusive on the upper band.
func Classify(score float64) models.RiskLevel {
	switch {
	case score >= ExtremeThreshold:
		return models.RiskExtreme
	case score >= HighThreshold:
		return models.RiskHigh
	case score >= MediumThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// temperatureRisk is non-decreasing in temperature (°C).
func temperatureRisk(temp float64) float64 {
	switch {
	case temp > 35:
		return 1.0
	case temp > 30:
		return 0.8
	case temp > 25:
		return 0.6
	case temp > 20:
		return 0.4
	default:
		return 0.2
	}
}

// humidityRisk is non-increasing in relative humidity (%).
func humidityRisk(humidity float64) float64 {
	switch {
	case humidity < 20:
		return 1.0
	case humidity < 30:
		return 0.8
	case humidity < 40:
		return 0.6
	case humidity < 50:
		return 0.4
	default:
		return 0.2
	}
}

// windRisk is non-decreasing in wind speed (m/s).
func windRisk(speed float64) float64 {
	switch {
	case speed > 40:
		return 1.0
	case speed > 30:
		return 0.8
	case speed > 20:
		return 0.6
	case speed > 10:
		return 0.4
	default:
		return 0.2
	}
}

// precipitationRisk is non-increasing in precipitation (mm); a dry spell
// under hot conditions carries the maximum weight.
func precipitationRisk(precip, temp float64) float64 {
	switch {
	case precip == 0 && temp > 30:
		return 1.0
	case precip == 0:
		return 0.8
	case precip < 2:
		return 0.6
	case precip < 5:
		return 0.4
	default:
		return 0.2
	}
}

// historicalRisk derives a sub-risk from the temperature trend block.
// Absent history yields the neutral moderate default.
func historicalRisk(pattern *models.HistoricalPattern) float64 {
	if pattern == nil {
		return neutralHistoricalRisk
	}

	trends := pattern.Temperature.Trends
	trendScore := 0.4*math.Abs(trends.LinearTrend) +
		0.3*trends.RSquared +
		0.2*math.Min(trends.Volatility, 1.0) +
		0.1*math.Abs(trends.Seasonality)
	if trendScore > 1 {
		trendScore = 1
	}
	if trendScore < 0 || math.IsNaN(trendScore) {
		trendScore = 0
	}

	switch {
	case trendScore > 0.7:
		return 0.8
	case trendScore > 0.4:
		return 0.6
	case trendScore > 0.2:
		return 0.4
	default:
		return 0.2
	}
}

// soilFactor applies the soil base risk, its seasonal variation, the
// moisture-retention discount, and the drought multiplier when a
// drought index was configured. Unknown soil types are neutral.
func (s *Scorer) soilFactor(soil models.SoilType, season string) float64 {
	data, ok := s.factors.Soil[soil.Name]
	if !ok {
		return 1.0
	}

	factor := data.BaseRisk
	if seasonal, ok := data.SeasonalVariation[season]; ok {
		factor *= seasonal
	}

	// Higher retention lowers risk.
	factor *= 2 - data.MoistureRetentionImpact*soil.MoistureRetention

	if s.droughtIndex > 1 {
		droughtImpact := math.Min(s.droughtIndex-1, 1) * (data.DroughtMultiplier - 1)
		factor *= 1 + droughtImpact
	}
	return factor
}

// vegetationFactor maps fuel-load density to its band factor.
func (s *Scorer) vegetationFactor(density float64) float64 {
	for _, band := range s.factors.Vegetation {
		if density <= band.UpperBound {
			return band.Factor
		}
	}
	if len(s.factors.Vegetation) > 0 {
		return s.factors.Vegetation[len(s.factors.Vegetation)-1].Factor
	}
	return 1.0
}

// climateFactor returns the zone multiplier during peak fire season and
// 1.0 otherwise. Unknown zones are neutral.
func (s *Scorer) climateFactor(zone string, month time.Month) float64 {
	pattern, ok := s.factors.Climate[zone]
	if !ok {
		return 1.0
	}
	for _, peak := range pattern.PeakMonths {
		if peak == month {
			return pattern.RiskMultiplier
		}
	}
	return 1.0
}

// confidence is deterministic: 50 base, up to 30 for history depth (60
// observations saturate), and 5 per strongly triggered sub-risk capped
// at 20. Result is in [50,100].
func confidence(pattern *models.HistoricalPattern, subRisks ...float64) float64 {
	c := 50.0

	if pattern != nil {
		n := math.Min(float64(pattern.SampleCount), 60)
		c += n / 60 * 30
	}

	triggered := 0
	for _, r := range subRisks {
		if r >= 0.8 {
			triggered++
		}
	}
	c += math.Min(float64(triggered)*5, 20)

	if c > 100 {
		c = 100
	}
	return c
}
