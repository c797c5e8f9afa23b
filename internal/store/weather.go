package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emberline/wildfire-risk-service/internal/models"
)

// InsertObservation appends one weather observation row.
func (s *Store) InsertObservation(ctx context.Context, obs models.WeatherObservation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weather_observations (region_id, timestamp, temperature, humidity, wind_speed, precipitation, pressure)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		obs.RegionID, obs.Timestamp.UTC(), obs.Temperature, obs.Humidity,
		obs.WindSpeed, obs.Precipitation, obs.Pressure)
	if err != nil {
		return fmt.Errorf("insert observation for region %d: %w", obs.RegionID, err)
	}
	return nil
}

// ObservationsInRange returns a region's observations within [from, to],
// ascending by timestamp.
func (s *Store) ObservationsInRange(ctx context.Context, regionID int64, from, to time.Time) ([]models.WeatherObservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, region_id, timestamp, temperature, humidity, wind_speed, precipitation, pressure
		FROM weather_observations
		WHERE region_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC`,
		regionID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query observations for region %d: %w", regionID, err)
	}
	defer rows.Close()

	var observations []models.WeatherObservation
	for rows.Next() {
		var obs models.WeatherObservation
		if err := rows.Scan(&obs.ID, &obs.RegionID, &obs.Timestamp, &obs.Temperature,
			&obs.Humidity, &obs.WindSpeed, &obs.Precipitation, &obs.Pressure); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return observations, nil
}

// LatestObservation returns the most recent observation for a region.
// Returns (zero, false, nil) when the region has no observations.
func (s *Store) LatestObservation(ctx context.Context, regionID int64) (models.WeatherObservation, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, region_id, timestamp, temperature, humidity, wind_speed, precipitation, pressure
		FROM weather_observations
		WHERE region_id = ?
		ORDER BY timestamp DESC
		LIMIT 1`, regionID)

	var obs models.WeatherObservation
	err := row.Scan(&obs.ID, &obs.RegionID, &obs.Timestamp, &obs.Temperature,
		&obs.Humidity, &obs.WindSpeed, &obs.Precipitation, &obs.Pressure)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WeatherObservation{}, false, nil
	}
	if err != nil {
		return models.WeatherObservation{}, false, fmt.Errorf("query latest observation for region %d: %w", regionID, err)
	}
	return obs, true, nil
}
