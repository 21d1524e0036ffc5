package logger

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	serviceIDKey contextKey = iota
	notificationIDKey
	templateIDKey
)

// WithServiceID returns a context carrying the sending service's ID.
func WithServiceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, serviceIDKey, id)
}

// WithNotificationID returns a context carrying the notification's ID.
func WithNotificationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, notificationIDKey, id)
}

// WithTemplateID returns a context carrying the template's ID.
func WithTemplateID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, templateIDKey, id)
}

// ServiceIDExtractor injects the service ID stored by WithServiceID.
func ServiceIDExtractor(ctx context.Context) (slog.Attr, bool) {
	return extractString(ctx, serviceIDKey, "service_id")
}

// NotificationIDExtractor injects the notification ID stored by WithNotificationID.
func NotificationIDExtractor(ctx context.Context) (slog.Attr, bool) {
	return extractString(ctx, notificationIDKey, "notification_id")
}

// TemplateIDExtractor injects the template ID stored by WithTemplateID.
func TemplateIDExtractor(ctx context.Context) (slog.Attr, bool) {
	return extractString(ctx, templateIDKey, "template_id")
}

func extractString(ctx context.Context, key contextKey, attr string) (slog.Attr, bool) {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return slog.String(attr, v), true
	}
	return slog.Attr{}, false
}
