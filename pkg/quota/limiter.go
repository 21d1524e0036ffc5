package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Notification count fields tracked per service in the annual-limit hash.
const (
	SMSDelivered   = "sms_delivered"
	SMSFailed      = "sms_failed"
	EmailDelivered = "email_delivered"
	EmailFailed    = "email_failed"
)

// Annual limit status fields. Each holds the date (YYYY-MM-DD) the
// corresponding threshold email was sent, so downstream services avoid
// notifying the same service twice in one day.
const (
	NearSMSLimit   = "near_sms_limit"
	NearEmailLimit = "near_email_limit"
	OverSMSLimit   = "over_sms_limit"
	OverEmailLimit = "over_email_limit"
)

const seededAtField = "seeded_at"

// statusDateFormat is the wire format for status and seeded_at dates.
const statusDateFormat = "2006-01-02"

var notificationCountFields = map[string]bool{
	SMSDelivered:   true,
	SMSFailed:      true,
	EmailDelivered: true,
	EmailFailed:    true,
}

var annualLimitStatusFields = map[string]bool{
	NearSMSLimit:   true,
	NearEmailLimit: true,
	OverSMSLimit:   true,
	OverEmailLimit: true,
	seededAtField:  true,
}

func notificationsKey(serviceID string) string {
	return "annual-limit:" + serviceID + ":notifications"
}

func statusKey(serviceID string) string {
	return "annual-limit:" + serviceID + ":status"
}

// Limiter tracks per-service notification counts and annual limit statuses
// in Redis hashes. Counts accumulate via IncrementNotificationCount as
// notifications are delivered or failed, and are reset in bulk at the start
// of each fiscal year.
type Limiter struct {
	client redis.UniversalClient
	log    *slog.Logger
	now    func() time.Time
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithLimiterLogger attaches a logger for debug-level command tracing.
func WithLimiterLogger(log *slog.Logger) LimiterOption {
	return func(l *Limiter) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLimiter creates a Limiter over the given client.
// The client should be obtained from Open or MustOpen.
func NewLimiter(client redis.UniversalClient, opts ...LimiterOption) *Limiter {
	l := &Limiter{
		client: client,
		log:    logger.NewNope(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IncrementNotificationCount adds one to the given count field for a service.
func (l *Limiter) IncrementNotificationCount(ctx context.Context, serviceID, field string) error {
	if !notificationCountFields[field] {
		return fmt.Errorf("%w: %s", ErrUnknownCountField, field)
	}

	if err := l.client.HIncrBy(ctx, notificationsKey(serviceID), field, 1).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}

	l.log.DebugContext(ctx, "incremented notification count",
		slog.String("service_id", serviceID),
		slog.String("field", field))
	return nil
}

// GetNotificationCount returns the current value of a single count field.
// Unset fields read as zero.
func (l *Limiter) GetNotificationCount(ctx context.Context, serviceID, field string) (int64, error) {
	if !notificationCountFields[field] {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCountField, field)
	}

	val, err := l.client.HGet(ctx, notificationsKey(serviceID), field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, errors.Join(ErrCommandFailed, err)
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, errors.Join(ErrCommandFailed, err)
	}
	return n, nil
}

// GetAllNotificationCounts returns all four count fields for a service.
// Unset fields read as zero.
func (l *Limiter) GetAllNotificationCounts(ctx context.Context, serviceID string) (map[string]int64, error) {
	stored, err := l.client.HGetAll(ctx, notificationsKey(serviceID)).Result()
	if err != nil {
		return nil, errors.Join(ErrCommandFailed, err)
	}

	counts := make(map[string]int64, len(notificationCountFields))
	for field := range notificationCountFields {
		counts[field] = 0
		if val, ok := stored[field]; ok {
			n, parseErr := strconv.ParseInt(val, 10, 64)
			if parseErr != nil {
				return nil, errors.Join(ErrCommandFailed, parseErr)
			}
			counts[field] = n
		}
	}
	return counts, nil
}

// SeedNotificationCounts bulk-sets count fields for a service, typically from
// the database at the start of the day before live increments take over.
func (l *Limiter) SeedNotificationCounts(ctx context.Context, serviceID string, counts map[string]int64) error {
	if len(counts) == 0 {
		return nil
	}

	pairs := make([]any, 0, len(counts)*2)
	for field, n := range counts {
		if !notificationCountFields[field] {
			return fmt.Errorf("%w: %s", ErrUnknownCountField, field)
		}
		pairs = append(pairs, field, n)
	}

	if err := l.client.HSet(ctx, notificationsKey(serviceID), pairs...).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}

	l.log.DebugContext(ctx, "seeded notification counts",
		slog.String("service_id", serviceID),
		slog.Int("fields", len(counts)))
	return nil
}

// SetSeededAt records today's date on the status hash, marking the service's
// counts as seeded for the current day.
func (l *Limiter) SetSeededAt(ctx context.Context, serviceID string) error {
	today := l.now().UTC().Format(statusDateFormat)
	if err := l.client.HSet(ctx, statusKey(serviceID), seededAtField, today).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}
	return nil
}

// GetSeededAt returns the date (YYYY-MM-DD) the service's counts were last
// seeded, or "" if never.
func (l *Limiter) GetSeededAt(ctx context.Context, serviceID string) (string, error) {
	val, err := l.client.HGet(ctx, statusKey(serviceID), seededAtField).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errors.Join(ErrCommandFailed, err)
	}
	return val, nil
}

// WasSeededToday reports whether the service's counts were seeded today.
func (l *Limiter) WasSeededToday(ctx context.Context, serviceID string) (bool, error) {
	seededAt, err := l.GetSeededAt(ctx, serviceID)
	if err != nil {
		return false, err
	}
	return seededAt == l.now().UTC().Format(statusDateFormat), nil
}

// SetAnnualLimitStatus records the date a near/over limit email was sent.
func (l *Limiter) SetAnnualLimitStatus(ctx context.Context, serviceID, field string, sentAt time.Time) error {
	if !annualLimitStatusFields[field] {
		return fmt.Errorf("%w: %s", ErrUnknownStatusField, field)
	}

	if err := l.client.HSet(ctx, statusKey(serviceID), field, sentAt.UTC().Format(statusDateFormat)).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}

	l.log.DebugContext(ctx, "set annual limit status",
		slog.String("service_id", serviceID),
		slog.String("field", field))
	return nil
}

// GetAnnualLimitStatus returns the recorded date (YYYY-MM-DD) for a status
// field, or "" if unset.
func (l *Limiter) GetAnnualLimitStatus(ctx context.Context, serviceID, field string) (string, error) {
	if !annualLimitStatusFields[field] {
		return "", fmt.Errorf("%w: %s", ErrUnknownStatusField, field)
	}

	val, err := l.client.HGet(ctx, statusKey(serviceID), field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errors.Join(ErrCommandFailed, err)
	}
	return val, nil
}

// GetAllAnnualLimitStatuses returns every status field currently set for a
// service. The map is empty when no statuses are recorded.
func (l *Limiter) GetAllAnnualLimitStatuses(ctx context.Context, serviceID string) (map[string]string, error) {
	statuses, err := l.client.HGetAll(ctx, statusKey(serviceID)).Result()
	if err != nil {
		return nil, errors.Join(ErrCommandFailed, err)
	}
	return statuses, nil
}

// ClearNotificationCounts removes a service's count hash entirely.
func (l *Limiter) ClearNotificationCounts(ctx context.Context, serviceID string) error {
	if err := l.client.Del(ctx, notificationsKey(serviceID)).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}
	return nil
}

// ClearAnnualLimitStatuses removes a service's status hash entirely,
// including the seeded_at marker.
func (l *Limiter) ClearAnnualLimitStatuses(ctx context.Context, serviceID string) error {
	if err := l.client.Del(ctx, statusKey(serviceID)).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}
	return nil
}

// ResetAllNotificationCounts deletes count hashes for the given services, or
// for every service when none are given. The scan-based bulk path is meant
// for the annual fiscal-year rollover.
func (l *Limiter) ResetAllNotificationCounts(ctx context.Context, serviceIDs ...string) error {
	if len(serviceIDs) > 0 {
		keys := make([]string, len(serviceIDs))
		for i, id := range serviceIDs {
			keys[i] = notificationsKey(id)
		}
		if err := l.client.Del(ctx, keys...).Err(); err != nil {
			return errors.Join(ErrCommandFailed, err)
		}
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := l.client.Scan(ctx, cursor, "annual-limit:*:notifications", 100).Result()
		if err != nil {
			return errors.Join(ErrCommandFailed, err)
		}
		if len(keys) > 0 {
			if err := l.client.Del(ctx, keys...).Err(); err != nil {
				return errors.Join(ErrCommandFailed, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
