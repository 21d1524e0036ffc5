package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	newCapturingLogger := func(buf *bytes.Buffer, extractors ...logger.ContextExtractor) *slog.Logger {
		handler := slog.NewJSONHandler(buf, nil)
		return slog.New(logger.NewLogHandlerDecorator(handler, extractors...))
	}

	t.Run("injects ids stored in context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := newCapturingLogger(&buf,
			logger.ServiceIDExtractor,
			logger.NotificationIDExtractor,
			logger.TemplateIDExtractor,
		)

		ctx := logger.WithServiceID(context.Background(), "svc-123")
		ctx = logger.WithNotificationID(ctx, "ntf-456")
		ctx = logger.WithTemplateID(ctx, "tpl-789")

		log.InfoContext(ctx, "message rendered")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "svc-123", entry["service_id"])
		require.Equal(t, "ntf-456", entry["notification_id"])
		require.Equal(t, "tpl-789", entry["template_id"])
	})

	t.Run("skips attributes missing from context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := newCapturingLogger(&buf, logger.ServiceIDExtractor, logger.NotificationIDExtractor)

		ctx := logger.WithServiceID(context.Background(), "svc-123")
		log.InfoContext(ctx, "partial context")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "svc-123", entry["service_id"])
		require.NotContains(t, entry, "notification_id")
	})

	t.Run("empty id is skipped", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := newCapturingLogger(&buf, logger.ServiceIDExtractor)

		ctx := logger.WithServiceID(context.Background(), "")
		log.InfoContext(ctx, "blank id")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.NotContains(t, entry, "service_id")
	})

	t.Run("nil extractors are ignored", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := newCapturingLogger(&buf, nil, logger.ServiceIDExtractor)

		ctx := logger.WithServiceID(context.Background(), "svc-123")
		log.InfoContext(ctx, "nil extractor present")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "svc-123", entry["service_id"])
	})
}
