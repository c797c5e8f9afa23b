package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 latency increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// OpenWeatherMap API call rate. Watch for: error vs success ratio.
	WeatherAPICallsTotal *prometheus.CounterVec

	// External API latency per request. Watch for: p95 > 2s (upstream degradation), p99 > 5s (timeout risk).
	WeatherAPIDuration *prometheus.HistogramVec

	// Retry attempts for weather API. Watch for: high retries = unstable upstream.
	WeatherAPIRetriesTotal prometheus.Counter

	// Cache hits by backend.
	CacheHitsTotal *prometheus.CounterVec

	// Cache backend errors. Watch for: memcached connectivity problems.
	CacheErrorsTotal *prometheus.CounterVec

	// Where current weather came from per assessment: cache, live, stored, none.
	WeatherSourceTotal *prometheus.CounterVec

	// Completed risk assessments by resulting level. Watch for: EXTREME rate.
	AssessmentsTotal *prometheus.CounterVec

	// End-to-end assessment latency (weather resolution + history + scoring + persist).
	AssessmentDuration prometheus.Histogram

	// Prediction rows written. Should track assessmentsTotal; divergence means persist failures.
	PredictionWritesTotal prometheus.Counter

	// Assessments scored without a historical pattern (no observations in
	// the lookback window, or the aggregation failed).
	InsufficientDataTotal prometheus.Counter

	// Rate limit denials. Watch for: overload, capacity exceeded.
	RateLimitDeniedTotal prometheus.Counter

	// Weather API circuit breaker state: 0 closed, 1 half-open, 2 open.
	CircuitBreakerState prometheus.Gauge
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of OpenWeatherMap API calls",
		},
		[]string{"status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "OpenWeatherMap API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	WeatherAPIRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherApiRetriesTotal",
			Help: "Total number of retry attempts for weather API calls",
		},
	)
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheHitsTotal",
			Help: "Total number of observation cache hits",
		},
		[]string{"cacheType"},
	)
	CacheErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cacheErrorsTotal",
			Help: "Total number of observation cache errors",
		},
		[]string{"cacheType"},
	)
	WeatherSourceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherSourceTotal",
			Help: "Current-weather resolution outcome per assessment (cache, live, stored, none)",
		},
		[]string{"source"},
	)
	AssessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessmentsTotal",
			Help: "Completed wildfire risk assessments by risk level",
		},
		[]string{"riskLevel"},
	)
	AssessmentDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessmentDurationSeconds",
			Help:    "End-to-end risk assessment latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	PredictionWritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "predictionWritesTotal",
			Help: "Total number of prediction rows persisted",
		},
	)
	InsufficientDataTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "insufficientDataTotal",
			Help: "Assessments scored without a historical pattern",
		},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)
	CircuitBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "weatherApiCircuitBreakerState",
			Help: "Weather API circuit breaker state: 0 closed, 1 half-open, 2 open",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		WeatherAPICallsTotal, WeatherAPIDuration, WeatherAPIRetriesTotal,
		CacheHitsTotal, CacheErrorsTotal, WeatherSourceTotal,
		AssessmentsTotal, AssessmentDuration, PredictionWritesTotal,
		InsufficientDataTotal, RateLimitDeniedTotal, CircuitBreakerState,
	)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
