package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandler(t *testing.T) {
	t.Parallel()

	t.Run("fans records out to every handler", func(t *testing.T) {
		t.Parallel()

		var first, second bytes.Buffer
		log := slog.New(newMultiHandler(
			slog.NewJSONHandler(&first, nil),
			slog.NewJSONHandler(&second, nil),
		))

		log.Info("delivered", slog.String("channel", "sms"))

		for _, buf := range []*bytes.Buffer{&first, &second} {
			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "delivered", entry["msg"])
			assert.Equal(t, "sms", entry["channel"])
		}
	})

	t.Run("enabled when any handler is enabled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := newMultiHandler(
			slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}),
			slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)

		ctx := context.Background()
		assert.True(t, h.Enabled(ctx, slog.LevelDebug))
	})

	t.Run("skips handlers below their level", func(t *testing.T) {
		t.Parallel()

		var quiet, chatty bytes.Buffer
		log := slog.New(newMultiHandler(
			slog.NewJSONHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelError}),
			slog.NewJSONHandler(&chatty, nil),
		))

		log.Info("rendered")

		assert.Zero(t, quiet.Len())
		assert.Contains(t, chatty.String(), "rendered")
	})

	t.Run("with attrs propagates to every handler", func(t *testing.T) {
		t.Parallel()

		var first, second bytes.Buffer
		log := slog.New(newMultiHandler(
			slog.NewJSONHandler(&first, nil),
			slog.NewJSONHandler(&second, nil),
		).WithAttrs([]slog.Attr{slog.String("service_id", "svc-9")}))

		log.Info("queued")

		for _, buf := range []*bytes.Buffer{&first, &second} {
			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "svc-9", entry["service_id"])
		}
	})
}
