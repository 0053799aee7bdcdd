package logger

import (
	"log/slog"
	"os"

	"omnichat/backend/internal/config"
)

// New builds the process-wide slog logger from config and installs it
// as the slog default.
func New(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	log := slog.New(handler).With(
		slog.String("service", "omnichat"),
		slog.Int("pid", os.Getpid()),
	)
	slog.SetDefault(log)
	return log
}
