// Package service orchestrates wildfire risk assessment: it resolves
// current weather for a region, folds in aggregated history, scores the
// risk, and persists an audit prediction.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/emberline/wildfire-risk-service/internal/cache"
	"github.com/emberline/wildfire-risk-service/internal/client"
	"github.com/emberline/wildfire-risk-service/internal/history"
	"github.com/emberline/wildfire-risk-service/internal/models"
	"github.com/emberline/wildfire-risk-service/internal/observability"
	"github.com/emberline/wildfire-risk-service/internal/risk"
)

// ErrRegionNotFound is returned when the requested region id does not exist.
var ErrRegionNotFound = errors.New("region not found")

// ErrNoWeatherData is returned when no current weather could be resolved
// from any source (cache, live API, stored observations).
var ErrNoWeatherData = errors.New("no weather data available")

// Store is the persistence surface the service needs. *store.Store
// satisfies it.
type Store interface {
	Region(ctx context.Context, id int64) (models.Region, bool, error)
	Regions(ctx context.Context) ([]models.Region, error)
	InsertObservation(ctx context.Context, obs models.WeatherObservation) error
	LatestObservation(ctx context.Context, regionID int64) (models.WeatherObservation, bool, error)
	InsertPrediction(ctx context.Context, p models.Prediction) error
	RecentPredictions(ctx context.Context, regionID int64, limit int) ([]models.Prediction, error)
}

// Result is one completed assessment: the scored risk, its narrative
// explanation, and the prediction row that was persisted for it.
type Result struct {
	Region        models.Region         `json:"region"`
	Assessment    models.RiskAssessment `json:"assessment"`
	LevelColor    string                `json:"levelColor"`
	Explanation   string                `json:"explanation"`
	Prediction    models.Prediction     `json:"prediction"`
	WeatherSource string                `json:"weatherSource"`
}

// BatchItem is the per-region outcome of a batch assessment. Failed
// regions carry an error message instead of a result.
type BatchItem struct {
	RegionID int64   `json:"regionId"`
	Name     string  `json:"name"`
	Result   *Result `json:"result,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// RiskService coordinates weather resolution, history aggregation,
// scoring, and prediction persistence. Safe for concurrent use.
type RiskService struct {
	store      Store
	fetcher    client.WeatherFetcher // nil when live fetching is disabled
	cache      cache.Cache
	cacheType  string // metric label: "memory" or "memcached"
	cacheTTL   time.Duration
	aggregator *history.Aggregator
	scorer     *risk.Scorer
	clock      clockwork.Clock
	logger     *zap.Logger
}

// NewRiskService creates a RiskService. fetcher may be nil, in which
// case assessments rely on cached and stored observations only. A nil
// clock falls back to the real clock; a nil logger falls back to a nop.
func NewRiskService(
	st Store,
	fetcher client.WeatherFetcher,
	c cache.Cache,
	cacheType string,
	cacheTTL time.Duration,
	aggregator *history.Aggregator,
	scorer *risk.Scorer,
	clock clockwork.Clock,
	logger *zap.Logger,
) *RiskService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskService{
		store:      st,
		fetcher:    fetcher,
		cache:      c,
		cacheType:  cacheType,
		cacheTTL:   cacheTTL,
		aggregator: aggregator,
		scorer:     scorer,
		clock:      clock,
		logger:     logger,
	}
}

// Regions lists all known regions.
func (s *RiskService) Regions(ctx context.Context) ([]models.Region, error) {
	return s.store.Regions(ctx)
}

// Region returns one region, or ErrRegionNotFound.
func (s *RiskService) Region(ctx context.Context, id int64) (models.Region, error) {
	region, ok, err := s.store.Region(ctx, id)
	if err != nil {
		return models.Region{}, fmt.Errorf("load region %d: %w", id, err)
	}
	if !ok {
		return models.Region{}, ErrRegionNotFound
	}
	return region, nil
}

// RecentPredictions returns the newest predictions for a region,
// newest first. The region must exist.
func (s *RiskService) RecentPredictions(ctx context.Context, regionID int64, limit int) ([]models.Prediction, error) {
	if _, err := s.Region(ctx, regionID); err != nil {
		return nil, err
	}
	preds, err := s.store.RecentPredictions(ctx, regionID, limit)
	if err != nil {
		return nil, fmt.Errorf("load predictions for region %d: %w", regionID, err)
	}
	return preds, nil
}

// AssessRegion runs a full risk assessment for one region and persists
// the resulting prediction. Missing history degrades the assessment
// (lower confidence, neutral historical factor) rather than failing it;
// missing weather from every source fails with ErrNoWeatherData.
func (s *RiskService) AssessRegion(ctx context.Context, regionID int64) (*Result, error) {
	start := s.clock.Now()

	region, err := s.Region(ctx, regionID)
	if err != nil {
		return nil, err
	}

	weather, source, ok := s.resolveWeather(ctx, region)
	observability.WeatherSourceTotal.WithLabelValues(source).Inc()
	if !ok {
		return nil, fmt.Errorf("assess region %d: %w", regionID, ErrNoWeatherData)
	}

	pattern, err := s.aggregator.Analyze(ctx, regionID)
	if err != nil {
		// History is an enrichment; a store failure here degrades the
		// assessment instead of failing it.
		s.logger.Warn("history aggregation failed, scoring without pattern",
			zap.Int64("regionId", regionID), zap.Error(err))
		pattern = nil
	}
	if pattern == nil {
		observability.InsufficientDataTotal.Inc()
	}

	in := risk.Input{Region: region, Weather: weather, Pattern: pattern}
	assessment := s.scorer.Score(in)
	explanation := risk.Explain(assessment, in)

	now := s.clock.Now()
	prediction := models.Prediction{
		ID:             uuid.NewString(),
		RegionID:       regionID,
		PredictionDate: now,
		RiskLevel:      assessment.Level,
		RiskScore:      assessment.Score,
		Confidence:     assessment.Confidence,
		FeaturesUsed: models.FeatureSnapshot{
			CurrentWeather: models.CurrentWeatherFeatures{
				Temperature:   weather.Temperature,
				Humidity:      weather.Humidity,
				WindSpeed:     weather.WindSpeed,
				Precipitation: weather.Precipitation,
				Pressure:      weather.Pressure,
			},
			HistoricalPatterns: pattern,
		},
		ModelVersion: risk.ModelVersion,
		CreatedAt:    now,
	}
	if err := s.store.InsertPrediction(ctx, prediction); err != nil {
		return nil, fmt.Errorf("persist prediction for region %d: %w", regionID, err)
	}
	observability.PredictionWritesTotal.Inc()

	observability.AssessmentsTotal.WithLabelValues(assessment.Level.String()).Inc()
	observability.AssessmentDuration.Observe(s.clock.Now().Sub(start).Seconds())

	s.logger.Info("region assessed",
		zap.Int64("regionId", regionID),
		zap.String("riskLevel", assessment.Level.String()),
		zap.Float64("riskScore", assessment.Score),
		zap.String("weatherSource", source))

	return &Result{
		Region:        region,
		Assessment:    assessment,
		LevelColor:    assessment.Level.Color(),
		Explanation:   explanation,
		Prediction:    prediction,
		WeatherSource: source,
	}, nil
}

// AssessAll assesses every known region concurrently. Per-region
// failures are isolated into their BatchItem; only listing regions can
// fail the whole batch. Items come back in region-list order.
func (s *RiskService) AssessAll(ctx context.Context) ([]BatchItem, error) {
	regions, err := s.store.Regions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}

	items := make([]BatchItem, len(regions))
	done := make(chan int, len(regions))
	for i, region := range regions {
		go func(i int, region models.Region) {
			defer func() { done <- i }()
			items[i] = BatchItem{RegionID: region.ID, Name: region.Name}
			result, err := s.AssessRegion(ctx, region.ID)
			if err != nil {
				items[i].Error = err.Error()
				return
			}
			items[i].Result = result
		}(i, region)
	}
	for range regions {
		<-done
	}
	return items, nil
}

// resolveWeather finds the freshest available observation for a region:
// cache first, then a live API fetch (persisted and cached on success),
// then the newest stored observation. Returns the source label used for
// metrics and false when every source came up empty.
func (s *RiskService) resolveWeather(ctx context.Context, region models.Region) (models.WeatherObservation, string, bool) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, region.ID)
		if err != nil {
			observability.CacheErrorsTotal.WithLabelValues(s.cacheType).Inc()
			s.logger.Warn("observation cache get failed", zap.Int64("regionId", region.ID), zap.Error(err))
		} else if ok {
			observability.CacheHitsTotal.WithLabelValues(s.cacheType).Inc()
			return cached, "cache", true
		}
	}

	if s.fetcher != nil {
		obs, err := s.fetcher.CurrentWeather(ctx, region)
		if err == nil {
			obs.RegionID = region.ID
			if obs.Timestamp.IsZero() {
				obs.Timestamp = s.clock.Now()
			}
			if err := s.store.InsertObservation(ctx, obs); err != nil {
				s.logger.Warn("persist live observation failed", zap.Int64("regionId", region.ID), zap.Error(err))
			}
			if s.cache != nil {
				if err := s.cache.Set(ctx, region.ID, obs, s.cacheTTL); err != nil {
					observability.CacheErrorsTotal.WithLabelValues(s.cacheType).Inc()
					s.logger.Warn("observation cache set failed", zap.Int64("regionId", region.ID), zap.Error(err))
				}
			}
			return obs, "live", true
		}
		s.logger.Warn("live weather fetch failed, falling back to stored observations",
			zap.Int64("regionId", region.ID), zap.Error(err))
	}

	obs, ok, err := s.store.LatestObservation(ctx, region.ID)
	if err != nil {
		s.logger.Warn("latest stored observation lookup failed", zap.Int64("regionId", region.ID), zap.Error(err))
		return models.WeatherObservation{}, "none", false
	}
	if !ok {
		return models.WeatherObservation{}, "none", false
	}
	return obs, "stored", true
}
