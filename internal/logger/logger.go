// Package logger bootstraps the process-wide zap logger. Production mode
// emits structured JSON; development mode emits colored console output.
package logger

import (
	"ilimi/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Init builds the global logger. Call once from main before anything logs.
func Init() {
	var cfg zap.Config
	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(config.GetEnv("LOG_LEVEL", "info"))); err != nil {
		level = zapcore.InfoLevel
	}
	cfg.Level.SetLevel(level)

	l, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log = l
}

// Get returns the global logger, building a production fallback when Init
// was never called (keeps tests and tools working without setup).
func Get() *zap.Logger {
	if log == nil {
		l, err := zap.NewProduction()
		if err != nil {
			panic("failed to create fallback logger: " + err.Error())
		}
		log = l
	}
	return log
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
