package utils

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger creates the process-wide logger. loggerType selects the zap
// preset: "development" for console-friendly output, "production" for JSON.
func NewLogger(loggerType string) (*zap.SugaredLogger, error) {
	cfg, err := loggerConfig(loggerType)
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// NewLoggerWithFile creates a logger that writes to both the console and a
// log file. The directory for the log file is created if needed.
func NewLoggerWithFile(loggerType, logFilePath string) (*zap.SugaredLogger, error) {
	if err := EnsureDirForFile(logFilePath); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", logFilePath, err)
	}

	cfg, err := loggerConfig(loggerType)
	if err != nil {
		return nil, err
	}
	cfg.OutputPaths = append(cfg.OutputPaths, logFilePath)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}

func loggerConfig(loggerType string) (zap.Config, error) {
	switch loggerType {
	case "development":
		return zap.NewDevelopmentConfig(), nil
	case "production":
		return zap.NewProductionConfig(), nil
	default:
		return zap.Config{}, fmt.Errorf("%s is not a valid logger type", loggerType)
	}
}

// NopLogger returns a logger that discards everything. Useful in tests.
func NopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
