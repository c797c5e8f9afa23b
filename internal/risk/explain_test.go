package risk

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/emberline/wildfire-risk-service/internal/models"
)

func explainInput() (models.RiskAssessment, Input) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC))
	scorer := NewScorer(DefaultFactors(), 0, clock)

	pattern := &models.HistoricalPattern{Season: "summer", SampleCount: 42}
	pattern.Temperature.Trends = models.TrendMetrics{LinearTrend: 0.12, RSquared: 0.6, Volatility: 1.1}
	pattern.Temperature.ExtremeEvents = 6
	pattern.Precipitation.ExtremeEvents = 20

	in := Input{
		Region: models.Region{
			Name:              "Rif Mountains",
			Soil:              models.SoilType{Name: "Sandy", MoistureRetention: 0.2},
			VegetationDensity: 0.8,
			ClimateZone:       "mediterranean",
		},
		Weather: models.WeatherObservation{
			Temperature:   37.2,
			Humidity:      18,
			WindSpeed:     22,
			Precipitation: 0,
		},
		Pattern: pattern,
	}
	return scorer.Score(in), in
}

// TestExplain_Idempotent verifies that identical frozen inputs produce
// byte-identical narratives.
func TestExplain_Idempotent(t *testing.T) {
	assessment, in := explainInput()

	first := Explain(assessment, in)
	second := Explain(assessment, in)
	assert.Equal(t, first, second)
}

func TestExplain_MentionsBandsAndContext(t *testing.T) {
	assessment, in := explainInput()
	text := Explain(assessment, in)

	assert.Contains(t, text, "Rif Mountains")
	assert.Contains(t, text, strings.ToUpper(assessment.Level.String()))
	assert.Contains(t, text, "Extreme heat")
	assert.Contains(t, text, "Critically dry air")
	assert.Contains(t, text, "Fresh winds")
	assert.Contains(t, text, "parched")
	assert.Contains(t, text, "Sandy soil")
	assert.Contains(t, text, "Dense vegetation")
	assert.Contains(t, text, "Mediterranean climate zone")
	assert.Contains(t, text, "42 recent observations")
	assert.Contains(t, text, "warming temperature trend")
	assert.Contains(t, text, "6 day(s) above 35°C")
	assert.Contains(t, text, "20 drought day(s)")
}

func TestExplain_NoHistory(t *testing.T) {
	_, in := explainInput()
	in.Pattern = nil
	clock := clockwork.NewFakeClockAt(time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC))
	assessment := NewScorer(DefaultFactors(), 0, clock).Score(in)

	text := Explain(assessment, in)
	assert.Contains(t, text, "No historical weather data")
}

// TestExplain_DoesNotMutateAssessment guards the presentation-only
// contract.
func TestExplain_DoesNotMutateAssessment(t *testing.T) {
	assessment, in := explainInput()
	before := assessment
	_ = Explain(assessment, in)
	assert.Equal(t, before, assessment)
}
