package store

import (
	"context"
	"fmt"

	"github.com/emberline/wildfire-risk-service/internal/models"
)

// Seed populates soil types and an initial region set when the regions
// table is empty. Idempotent: a populated database is left untouched.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM regions`).Scan(&count); err != nil {
		return fmt.Errorf("count regions: %w", err)
	}
	if count > 0 {
		return nil
	}

	soils := []models.SoilType{
		{Name: "Sandy", Description: "Sandy soil common in desert regions", FireRiskFactor: 1.5, MoistureRetention: 0.2, OrganicMatter: 0.8},
		{Name: "Clay", Description: "Clay soil found in agricultural regions", FireRiskFactor: 0.7, MoistureRetention: 0.8, OrganicMatter: 2.0},
		{Name: "Loam", Description: "Mixed soil ideal for vegetation", FireRiskFactor: 1.0, MoistureRetention: 0.6, OrganicMatter: 3.0},
	}
	soilIDs := make(map[string]int64, len(soils))
	for _, soil := range soils {
		id, err := s.InsertSoilType(ctx, soil)
		if err != nil {
			return err
		}
		soilIDs[soil.Name] = id
	}

	regions := []struct {
		name              string
		lat, lon, elev    float64
		soil              string
		vegetationDensity float64
		climateZone       string
	}{
		{"Atlas Mountains", 31.2128, -7.2622, 2500, "Loam", 0.6, "mediterranean"},
		{"Middle Atlas", 33.2333, -5.0000, 2000, "Loam", 0.7, "mediterranean"},
		{"Rif Mountains", 35.0000, -4.0000, 1500, "Clay", 0.8, "mediterranean"},
		{"Souss Valley", 30.3500, -9.2000, 400, "Sandy", 0.3, "semi_arid"},
		{"Eastern High Plateaus", 34.0000, -2.5000, 1100, "Sandy", 0.1, "semi_arid"},
		{"Mamora Forest", 34.1000, -6.6000, 200, "Loam", 0.5, "mediterranean"},
	}
	for _, r := range regions {
		_, err := s.InsertRegion(ctx, models.Region{
			Name:              r.name,
			Latitude:          r.lat,
			Longitude:         r.lon,
			Elevation:         r.elev,
			Soil:              models.SoilType{ID: soilIDs[r.soil]},
			VegetationDensity: r.vegetationDensity,
			ClimateZone:       r.climateZone,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
