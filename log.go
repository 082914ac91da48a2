package gametree

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a production logger at level ("debug", "info", ...).
func NewLogger(level string) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("gametree: log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("gametree: build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// Logger builds the production logger at the configured LOG_LEVEL.
func (c Config) Logger() (*zap.SugaredLogger, error) {
	return NewLogger(c.LogLevel)
}
