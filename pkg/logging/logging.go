// Package logging provides the shared zap logger for both binaries.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
)

// NewLogger returns a new zap.SugaredLogger writing to stdout. Set
// TRIP_PIPELINE_DEBUG=true for development output.
func NewLogger() *zap.SugaredLogger {
	var config zap.Config
	if debug, ok := os.LookupEnv("TRIP_PIPELINE_DEBUG"); ok && debug == "true" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.OutputPaths = []string{"stdout"}
	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return logger.Named("trip-pipeline").Sugar()
}

type loggerKey struct{}

// WithLogger returns a copy of parent context carrying the supplied logger.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a fresh one.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return logger
	}
	return NewLogger()
}
