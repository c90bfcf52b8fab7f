package logger

import (
	"io"
	"log/slog"
	"os"

	"churchdirectory/internal/config"
)

// New creates the application logger and installs it as the slog default.
func New(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.Server.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		})
	} else {
		// In development, use text format for better readability
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	logger := slog.New(handler).With(
		"service", "churchdirectory",
		"environment", cfg.Server.Environment,
	)

	slog.SetDefault(logger)
	return logger
}

// Silence redirects the default logger to w at error level (useful for testing).
func Silence(w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelError,
	})
	slog.SetDefault(slog.New(handler))
}
