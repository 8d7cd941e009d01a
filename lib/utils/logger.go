package utils

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func SetupLogger(level string) *zap.SugaredLogger {
	var cfg = zap.NewDevelopmentConfig()
	if parsed, err := zapcore.ParseLevel(strings.ToLower(level)); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	logger := zap.Must(cfg.Build())

	return logger.Sugar()
}
