package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SoilType describes the fire behavior of a soil classification.
type SoilType struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	FireRiskFactor    float64 `json:"fireRiskFactor"`
	MoistureRetention float64 `json:"moistureRetention"`
	OrganicMatter     float64 `json:"organicMatter"`
}

// Region is a named geographic area with static environmental metadata.
// VegetationDensity is a fraction in [0,1]; ClimateZone is one of
// "mediterranean", "semi_arid", "temperate".
type Region struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	Elevation         float64  `json:"elevation"`
	Soil              SoilType `json:"soil"`
	VegetationDensity float64  `json:"vegetationDensity"`
	ClimateZone       string   `json:"climateZone"`
}

// WeatherObservation is one timestamped weather reading for a region.
// Temperature is °C, humidity is relative %, wind speed is m/s,
// precipitation is mm, pressure is hPa.
type WeatherObservation struct {
	ID            int64     `json:"id,omitempty"`
	RegionID      int64     `json:"regionId"`
	Timestamp     time.Time `json:"timestamp"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	WindSpeed     float64   `json:"windSpeed"`
	Precipitation float64   `json:"precipitation"`
	Pressure      float64   `json:"pressure"`
}

// TrendMetrics holds the statistical trend profile of one weather series.
// Seasonality is a lag-window autocorrelation, not calendar seasonality.
type TrendMetrics struct {
	LinearTrend   float64   `json:"linear_trend"`
	RSquared      float64   `json:"r_squared"`
	MovingAverage []float64 `json:"moving_average"`
	Volatility    float64   `json:"volatility"`
	Seasonality   float64   `json:"seasonality"`
}

// VariableStats is the basic statistics block for one weather variable.
type VariableStats struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Range float64 `json:"range"`
}

// VariablePattern combines statistics, trend metrics, and the count of
// extreme events for one tracked weather variable.
type VariablePattern struct {
	Stats         VariableStats `json:"stats"`
	Trends        TrendMetrics  `json:"trends"`
	ExtremeEvents int           `json:"extreme_events"`
}

// HistoricalPattern aggregates a region's recent observation window.
// Recomputed per assessment; never persisted on its own, only embedded
// inside a Prediction's feature snapshot.
type HistoricalPattern struct {
	Temperature   VariablePattern `json:"temperature"`
	Humidity      VariablePattern `json:"humidity"`
	WindSpeed     VariablePattern `json:"wind_speed"`
	Precipitation VariablePattern `json:"precipitation"`
	Season        string          `json:"season"`
	SampleCount   int             `json:"sample_count"`
}

// RiskLevel is the ordered wildfire risk classification.
type RiskLevel int

const (
	RiskLow RiskLevel = iota + 1
	RiskMedium
	RiskHigh
	RiskExtreme
)

func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskExtreme:
		return "extreme"
	default:
		return "unknown"
	}
}

// Color returns the dashboard badge class for the level.
func (l RiskLevel) Color() string {
	switch l {
	case RiskLow:
		return "success"
	case RiskMedium:
		return "warning"
	case RiskHigh:
		return "danger"
	case RiskExtreme:
		return "dark"
	default:
		return "secondary"
	}
}

// ParseRiskLevel maps a stored level string back to its RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, nil
	case "medium":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	case "extreme":
		return RiskExtreme, nil
	}
	return 0, fmt.Errorf("unknown risk level %q", s)
}

// MarshalJSON renders the level as its string form.
func (l RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON parses the string form of a risk level.
func (l *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// FactorBreakdown records every contribution to a risk score.
// Temperature through Historical are sub-risks in [0,1]; Soil,
// Vegetation, and Climate are the multiplicative context factors.
type FactorBreakdown struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	Wind          float64 `json:"wind"`
	Precipitation float64 `json:"precipitation"`
	Historical    float64 `json:"historical"`
	Soil          float64 `json:"soil"`
	Vegetation    float64 `json:"vegetation"`
	Climate       float64 `json:"climate"`
}

// RiskAssessment is the scored, classified output of one evaluation.
// Score is on a 0-100 scale; Confidence is in [50,100].
type RiskAssessment struct {
	Score      float64         `json:"score"`
	Level      RiskLevel       `json:"level"`
	Confidence float64         `json:"confidence"`
	Factors    FactorBreakdown `json:"factors"`
}

// CurrentWeatherFeatures is the current-conditions half of a feature
// snapshot.
type CurrentWeatherFeatures struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	Precipitation float64 `json:"precipitation"`
	Pressure      float64 `json:"pressure"`
}

// FeatureSnapshot is the durable record of the inputs behind a
// prediction. The two top-level keys are a stable contract with
// downstream consumers: fields may be added, never repurposed.
type FeatureSnapshot struct {
	CurrentWeather     CurrentWeatherFeatures `json:"current_weather"`
	HistoricalPatterns *HistoricalPattern     `json:"historical_patterns"`
}

// Prediction is the persisted audit record of one assessment.
// Immutable once created; rows are appended, never updated.
type Prediction struct {
	ID             string          `json:"id"`
	RegionID       int64           `json:"regionId"`
	PredictionDate time.Time       `json:"predictionDate"`
	RiskLevel      RiskLevel       `json:"riskLevel"`
	RiskScore      float64         `json:"riskScore"`
	Confidence     float64         `json:"confidence"`
	FeaturesUsed   FeatureSnapshot `json:"featuresUsed"`
	ModelVersion   string          `json:"modelVersion"`
	CreatedAt      time.Time       `json:"createdAt"`
}
