// Package logx is the process-wide logger. It wraps a zap SugaredLogger
// behind package-level helpers so call sites stay one-liners.
package logx

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var (
	mu    sync.RWMutex
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

func init() {
	if err := Configure("production"); err != nil {
		base = zap.NewNop()
		sugar = base.Sugar()
	}
}

// Configure rebuilds the logger for the given environment. "development"
// gets a console encoder with ISO8601 times; everything else gets JSON.
func Configure(env string) error {
	cfg := zap.NewProductionConfig()
	if env == "development" || env == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = level
	cfg.DisableStacktrace = true

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Replace(logger)
	return nil
}

// Replace swaps the underlying logger, e.g. for zap.NewNop in tests.
func Replace(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = logger
	sugar = logger.Sugar()
}

func SetLevel(l Level) {
	level.SetLevel(zapcore.Level(l))
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// L returns the structured logger for call sites that want typed fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// With returns a sugared logger carrying the given key/value pairs.
func With(keysAndValues ...any) *zap.SugaredLogger {
	return s().With(keysAndValues...)
}

func Sync() error { return L().Sync() }

func s() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Debug(args ...any)                 { s().Debug(args...) }
func Debugf(format string, args ...any) { s().Debugf(format, args...) }
func Info(args ...any)                  { s().Info(args...) }
func Infof(format string, args ...any)  { s().Infof(format, args...) }
func Warn(args ...any)                  { s().Warn(args...) }
func Warnf(format string, args ...any)  { s().Warnf(format, args...) }
func Error(args ...any)                 { s().Error(args...) }
func Errorf(format string, args ...any) { s().Errorf(format, args...) }
func Fatal(args ...any)                 { s().Fatal(args...) }
func Fatalf(format string, args ...any) { s().Fatalf(format, args...) }
