package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "wildfire-risk-service"

// NewLogger builds the service's production JSON logger. The level comes
// from LOG_LEVEL (debug/warn/error, anything else means info) and every
// entry carries a "service" field so replica logs can be told apart once
// aggregated.
func NewLogger() (*zap.Logger, error) {
	cfg := loggerConfig()
	return cfg.Build(zap.Fields(zap.String("service", serviceName)))
}

func loggerConfig() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = parseLogLevel(os.Getenv("LOG_LEVEL"))
	return cfg
}

func parseLogLevel(s string) zap.AtomicLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
