// Package logger provides structured logging with context extraction and Sentry integration.
//
// This package extends the standard library's log/slog with automatic
// context-based attribute injection and optional Sentry error reporting. The
// notification pipeline passes service and notification IDs through context,
// and the extractors here stamp every log line with them.
//
// # Basic Usage
//
// Create a logger with the notification-domain extractors:
//
//	log := logger.New(
//		logger.ServiceIDExtractor,
//		logger.NotificationIDExtractor,
//	)
//
//	ctx := logger.WithServiceID(context.Background(), "svc-123")
//	ctx = logger.WithNotificationID(ctx, "ntf-456")
//
//	log.InfoContext(ctx, "message rendered", slog.Int("fragments", 2))
//	// Output: {"level":"INFO","msg":"message rendered","fragments":2,"service_id":"svc-123","notification_id":"ntf-456"}
//
// # Sentry Integration
//
// For production error tracking, use NewWithSentry:
//
//	cfg := logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn, // Send warnings and errors to Sentry
//	}
//
//	log := logger.NewWithSentry(cfg, logger.ServiceIDExtractor)
//
//	// Errors create Issues in Sentry, warnings are stored for context
//	log.ErrorContext(ctx, "recipient file rejected", slog.Int("errors", 12))
//
// If SENTRY_DSN is empty, the logger gracefully falls back to stdout-only
// logging, making it safe to use the same code path in development and
// production.
//
// # Context Extractors
//
// A ContextExtractor is a function that extracts a log attribute from context:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extractors run on every log call, so request-scoped values stay fresh.
// Return false to skip the attribute for that entry. Custom extractors
// compose freely with the built-in ones:
//
//	batchExtractor := func(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value(batchKey).(string); ok && id != "" {
//			return slog.String("batch_id", id), true
//		}
//		return slog.Attr{}, false
//	}
//
//	log := logger.New(logger.ServiceIDExtractor, batchExtractor)
//
// # Handler Decoration
//
// LogHandlerDecorator wraps any slog.Handler to add context extraction, and
// the internal multi-handler fans records out to several destinations at
// once (stdout plus Sentry). Sentry failures degrade gracefully: if the DSN
// is missing or initialization fails, logging continues to stdout.
package logger
