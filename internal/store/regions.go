package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emberline/wildfire-risk-service/internal/models"
)

const regionColumns = `
	r.id, r.name, r.latitude, r.longitude, r.elevation,
	r.vegetation_density, r.climate_zone,
	s.id, s.name, s.description, s.fire_risk_factor, s.moisture_retention, s.organic_matter`

// Region looks up one region by id. Returns (zero, false, nil) when the
// region does not exist.
func (s *Store) Region(ctx context.Context, id int64) (models.Region, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+regionColumns+`
		FROM regions r JOIN soil_types s ON s.id = r.soil_type_id
		WHERE r.id = ?`, id)

	region, err := scanRegion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Region{}, false, nil
	}
	if err != nil {
		return models.Region{}, false, fmt.Errorf("query region %d: %w", id, err)
	}
	return region, true, nil
}

// Regions lists all regions ordered by name.
func (s *Store) Regions(ctx context.Context) ([]models.Region, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+regionColumns+`
		FROM regions r JOIN soil_types s ON s.id = r.soil_type_id
		ORDER BY r.name`)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	var regions []models.Region
	for rows.Next() {
		region, err := scanRegion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		regions = append(regions, region)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}
	return regions, nil
}

// InsertRegion stores a region and returns its assigned id. The soil
// type must already exist.
func (s *Store) InsertRegion(ctx context.Context, region models.Region) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO regions (name, latitude, longitude, elevation, soil_type_id, vegetation_density, climate_zone)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		region.Name, region.Latitude, region.Longitude, region.Elevation,
		region.Soil.ID, region.VegetationDensity, region.ClimateZone)
	if err != nil {
		return 0, fmt.Errorf("insert region %q: %w", region.Name, err)
	}
	return res.LastInsertId()
}

// InsertSoilType stores a soil type and returns its assigned id.
func (s *Store) InsertSoilType(ctx context.Context, soil models.SoilType) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO soil_types (name, description, fire_risk_factor, moisture_retention, organic_matter)
		VALUES (?, ?, ?, ?, ?)`,
		soil.Name, soil.Description, soil.FireRiskFactor, soil.MoistureRetention, soil.OrganicMatter)
	if err != nil {
		return 0, fmt.Errorf("insert soil type %q: %w", soil.Name, err)
	}
	return res.LastInsertId()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegion(row rowScanner) (models.Region, error) {
	var r models.Region
	err := row.Scan(
		&r.ID, &r.Name, &r.Latitude, &r.Longitude, &r.Elevation,
		&r.VegetationDensity, &r.ClimateZone,
		&r.Soil.ID, &r.Soil.Name, &r.Soil.Description,
		&r.Soil.FireRiskFactor, &r.Soil.MoistureRetention, &r.Soil.OrganicMatter,
	)
	return r, err
}
