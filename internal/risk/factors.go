package risk

import "time"

// SoilFactors describes how a soil type modulates wildfire risk across
// seasons and drought conditions.
type SoilFactors struct {
	BaseRisk                float64
	MoistureRetentionImpact float64
	SeasonalVariation       map[string]float64
	DroughtMultiplier       float64
}

// VegetationBand maps a density interval to its fuel-load factor.
type VegetationBand struct {
	UpperBound float64
	Factor     float64
}

// ClimatePattern describes a climate zone's peak fire season and its
// risk multiplier during peak months.
type ClimatePattern struct {
	PeakMonths         []time.Month
	RiskMultiplier     float64
	DroughtSensitivity float64
}

// Factors is the immutable lookup configuration injected into a Scorer.
// Unknown soil types and climate zones resolve to a neutral 1.0.
type Factors struct {
	Soil       map[string]SoilFactors
	Vegetation []VegetationBand
	Climate    map[string]ClimatePattern
}

// DefaultFactors returns the canonical factor tables.
func DefaultFactors() Factors {
	return Factors{
		Soil: map[string]SoilFactors{
			"Clay": {
				BaseRisk:                0.7,
				MoistureRetentionImpact: 0.8,
				SeasonalVariation: map[string]float64{
					"summer": 1.2, // cracking exposes organic matter
					"winter": 0.6,
					"spring": 0.8,
					"autumn": 0.7,
				},
				DroughtMultiplier: 1.3,
			},
			"Sandy": {
				BaseRisk:                1.3,
				MoistureRetentionImpact: 0.3,
				SeasonalVariation: map[string]float64{
					"summer": 1.5, // dries quickly
					"winter": 0.8,
					"spring": 1.1,
					"autumn": 1.0,
				},
				DroughtMultiplier: 1.6,
			},
			"Loam": {
				BaseRisk:                1.0,
				MoistureRetentionImpact: 0.6,
				SeasonalVariation: map[string]float64{
					"summer": 1.3,
					"winter": 0.7,
					"spring": 0.9,
					"autumn": 0.8,
				},
				DroughtMultiplier: 1.4,
			},
		},
		Vegetation: []VegetationBand{
			{UpperBound: 0.3, Factor: 0.8}, // sparse: low fuel load
			{UpperBound: 0.6, Factor: 1.2}, // moderate
			{UpperBound: 1.0, Factor: 1.5}, // dense: high fuel load
		},
		Climate: map[string]ClimatePattern{
			"mediterranean": {
				PeakMonths:         []time.Month{time.July, time.August},
				RiskMultiplier:     1.4,
				DroughtSensitivity: 1.5,
			},
			"semi_arid": {
				PeakMonths:         []time.Month{time.June, time.July, time.August, time.September},
				RiskMultiplier:     1.3,
				DroughtSensitivity: 1.6,
			},
			"temperate": {
				PeakMonths:         []time.Month{time.August, time.September},
				RiskMultiplier:     1.1,
				DroughtSensitivity: 1.2,
			},
		},
	}
}
