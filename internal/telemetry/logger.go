// Package telemetry builds the process-wide zap logger: JSON encoding
// in production, human-readable console encoding in development,
// matching the environment-driven construction spec §6's
// configuration section calls for. Every component receives a
// *zap.Logger field from here rather than reaching for a global.
package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the root logger for the given environment tag
// ("development" unlocks console encoding and debug level; anything
// else gets JSON at info level).
func NewLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Fields builds the small set of structured keys components attach
// consistently: component name and operation.
func Fields(component, operation string) []zap.Field {
	return []zap.Field{
		zap.String("component", component),
		zap.String("operation", operation),
	}
}
