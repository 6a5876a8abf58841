// Package logging builds the zap logger used across the module.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level and sinks.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Debug lowers an info Level to debug. Warn and error are left alone.
	Debug bool
	// Dir, when set, also writes JSON logs to a daily file in that directory.
	Dir string
}

// New builds a logger with a JSON core on stderr, an optional file sink and,
// at debug level, a console core for debug messages.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("logging: invalid level %q: %w", opts.Level, err)
		}
	}
	if opts.Debug && level == zapcore.InfoLevel {
		level = zapcore.DebugLevel
	}

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}
	if opts.Dir != "" {
		f, err := openDailyFile(opts.Dir, time.Now())
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, zapcore.AddSync(f))
	}

	infoCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.NewMultiWriteSyncer(sinks...),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= level && l > zapcore.DebugLevel
		}),
	)
	cores := []zapcore.Core{infoCore}
	if level <= zapcore.DebugLevel {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stderr),
			zap.LevelEnablerFunc(func(l zapcore.Level) bool {
				return l == zapcore.DebugLevel
			}),
		))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func openDailyFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create log directory: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("bilidown_%s.log", now.Format("2006-01-02")))
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return f, nil
}
