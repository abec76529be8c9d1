package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide zap logger. Non-local environments log JSON at
// Info, local logs human-readable output at Debug. FARMOPS_LOG_LEVEL
// semantics are handled by the caller through levelStr.
func New(env, levelStr string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if levelStr != "" {
		level, err := zapcore.ParseLevel(levelStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse log level %q: %w", levelStr, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
