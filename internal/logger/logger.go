package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/personal-finance-ledger/internal/config"
)

// NewLogger creates the process logger writing to stdout
func NewLogger(cfg *config.Config) *slog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Logging.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Logging.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler).With("app", cfg.Application.Name)
	logger.Info("logger initialized", "level", level)

	return logger
}

// ParseLevel maps a configured level name to a slog level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
