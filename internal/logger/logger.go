// Package logger builds the process logger. Output always goes to stderr so
// stdout stays free for the preview.
package logger

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config returns a console config at the given level. An empty level means
// info.
func Config(level string) (zap.Config, error) {
	lvl := zapcore.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		var err error
		if lvl, err = zapcore.ParseLevel(strings.ToLower(s)); err != nil {
			return zap.Config{}, errors.Wrapf(err, "log level %q", level)
		}
	}
	return zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "msg",
			LevelKey:       "level",
			TimeKey:        "ts",
			NameKey:        "name",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}, nil
}

// New builds a logger at the given level.
func New(level string) (*zap.Logger, error) {
	cfg, err := Config(level)
	if err != nil {
		return nil, err
	}
	return cfg.Build()
}
