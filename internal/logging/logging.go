// Package logging builds the kiosk's zap logger. Output goes to a file as
// JSON lines because the terminal belongs to the UI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field keys shared with readers of the log file.
const (
	TimeKey    = "ts"
	LevelKey   = "level"
	MessageKey = "msg"
)

// New returns a production JSON logger appending to path at the given
// level. An empty level means info.
func New(path, level string) (*zap.Logger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("log path is empty")
	}
	lvl := zap.NewAtomicLevelAt(zap.InfoLevel)
	if trimmed := strings.TrimSpace(level); trimmed != "" {
		parsed, err := zap.ParseAtomicLevel(strings.ToLower(trimmed))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Sampling = nil
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = TimeKey
	cfg.EncoderConfig.LevelKey = LevelKey
	cfg.EncoderConfig.MessageKey = MessageKey
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Named("darsamo"), nil
}
