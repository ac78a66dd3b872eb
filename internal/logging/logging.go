// Package logging builds the zap logger shared by the Lambda and the dev
// server.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 5
	maxLogAgeDays = 14
)

type Options struct {
	Level string
	// Format is "json" (default) or "console".
	Format string
	// File, when set, also writes JSON logs to a rotating file.
	File string
}

// New returns a logger writing to stdout and, optionally, a rotating file.
// The returned func flushes and closes the outputs.
func New(opts Options) (*zap.Logger, func(), error) {
	return build(opts, zapcore.Lock(os.Stdout))
}

func build(opts Options, stdout zapcore.WriteSyncer) (*zap.Logger, func(), error) {
	level := zap.NewAtomicLevelAt(ParseLevel(opts.Level))

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(opts.Format), stdout, level),
	}

	var file *lumberjack.Logger
	if path := strings.TrimSpace(opts.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(newEncoder("json"), zapcore.AddSync(file), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	cleanup := func() {
		_ = logger.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
	return logger, cleanup, nil
}

// ParseLevel maps a level name to a zap level. Unknown names mean info.
func ParseLevel(s string) zapcore.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func newEncoder(format string) zapcore.Encoder {
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}
