package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates the JSON stdout logger used across the notification packages.
// Extractors stamp every record with values carried in context, typically
// ServiceIDExtractor and NotificationIDExtractor.
func New(extractors ...ContextExtractor) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(NewLogHandlerDecorator(handler, extractors...))
}

// NewNope creates a no-op logger that discards all output.
// Packages taking an optional logger use this as their default.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
