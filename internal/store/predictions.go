package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/emberline/wildfire-risk-service/internal/models"
)

// InsertPrediction appends one immutable prediction row. The feature
// snapshot is serialized as JSON; its two top-level keys
// (current_weather, historical_patterns) are stable across model
// versions.
func (s *Store) InsertPrediction(ctx context.Context, p models.Prediction) error {
	features, err := json.Marshal(p.FeaturesUsed)
	if err != nil {
		return fmt.Errorf("marshal feature snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO predictions (id, region_id, prediction_date, risk_level, risk_score, confidence, features_used, model_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.RegionID, p.PredictionDate.UTC(), p.RiskLevel.String(),
		p.RiskScore, p.Confidence, string(features), p.ModelVersion)
	if err != nil {
		return fmt.Errorf("insert prediction for region %d: %w", p.RegionID, err)
	}
	return nil
}

// RecentPredictions returns up to limit predictions for a region,
// descending by prediction date.
func (s *Store) RecentPredictions(ctx context.Context, regionID int64, limit int) ([]models.Prediction, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, region_id, prediction_date, risk_level, risk_score, confidence, features_used, model_version, created_at
		FROM predictions
		WHERE region_id = ?
		ORDER BY prediction_date DESC
		LIMIT ?`, regionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions for region %d: %w", regionID, err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		var level, features string
		if err := rows.Scan(&p.ID, &p.RegionID, &p.PredictionDate, &level,
			&p.RiskScore, &p.Confidence, &features, &p.ModelVersion, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		if p.RiskLevel, err = models.ParseRiskLevel(level); err != nil {
			return nil, fmt.Errorf("prediction %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(features), &p.FeaturesUsed); err != nil {
			return nil, fmt.Errorf("unmarshal feature snapshot for %s: %w", p.ID, err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return predictions, nil
}
