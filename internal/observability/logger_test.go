package observability

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		env    string
		expect zapcore.Level
	}{
		{"", zap.InfoLevel},
		{"info", zap.InfoLevel},
		{"debug", zap.DebugLevel},
		{"warn", zap.WarnLevel},
		{"error", zap.ErrorLevel},
		{"DEBUG", zap.DebugLevel},
		{"  Warn  ", zap.WarnLevel},
		{"verbose", zap.InfoLevel},
	}
	for _, tt := range tests {
		level := parseLogLevel(tt.env)
		if got := level.Level(); got != tt.expect {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.env, got, tt.expect)
		}
	}
}

func TestLoggerConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	cfg := loggerConfig()
	if cfg.EncoderConfig.TimeKey != "timestamp" {
		t.Errorf("TimeKey = %q, want %q", cfg.EncoderConfig.TimeKey, "timestamp")
	}
	if got := cfg.Level.Level(); got != zap.DebugLevel {
		t.Errorf("Level = %v, want %v", got, zap.DebugLevel)
	}
}

func TestNewLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if logger == nil {
		t.Fatal("NewLogger() returned nil logger")
	}
	if !logger.Core().Enabled(zap.InfoLevel) {
		t.Error("default logger should log at info level")
	}

	logger.Info("startup check")
	_ = logger.Sync() // best-effort; can fail on /dev/stderr in test env
}
