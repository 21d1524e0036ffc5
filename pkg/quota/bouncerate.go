package quota

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// bounceWindow is the sliding window over which the bounce rate is computed.
const bounceWindow = 24 * time.Hour

// DefaultMinimumVolume is the notification count below which the bounce rate
// reads as zero. Small senders produce too much variance for the rate to be
// actionable.
const DefaultMinimumVolume = 1000

func hardBounceKey(serviceID string) string {
	return "sliding_hard_bounce:" + serviceID
}

func totalNotificationsKey(serviceID string) string {
	return "sliding_total_notifications:" + serviceID
}

// BounceRate tracks per-service email hard bounces against total
// notifications over a 24 hour sliding window. Events live in sorted sets
// scored by their millisecond timestamp, so expiry is a range removal rather
// than per-key TTL bookkeeping.
type BounceRate struct {
	client        redis.UniversalClient
	minimumVolume int64
	log           *slog.Logger
	now           func() time.Time
}

// BounceRateOption configures a BounceRate.
type BounceRateOption func(*BounceRate)

// WithMinimumVolume overrides the volume floor below which GetBounceRate
// returns zero. Default: DefaultMinimumVolume.
func WithMinimumVolume(n int64) BounceRateOption {
	return func(b *BounceRate) {
		b.minimumVolume = n
	}
}

// WithBounceRateLogger attaches a logger for debug-level command tracing.
func WithBounceRateLogger(log *slog.Logger) BounceRateOption {
	return func(b *BounceRate) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBounceRate creates a BounceRate over the given client.
// The client should be obtained from Open or MustOpen.
func NewBounceRate(client redis.UniversalClient, opts ...BounceRateOption) *BounceRate {
	b := &BounceRate{
		client:        client,
		minimumVolume: DefaultMinimumVolume,
		log:           logger.NewNope(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetSlidingNotifications records one sent notification at the current time.
func (b *BounceRate) SetSlidingNotifications(ctx context.Context, serviceID string) error {
	return b.addEvent(ctx, totalNotificationsKey(serviceID), b.now())
}

// SetSlidingHardBounce records one hard bounce at the current time.
func (b *BounceRate) SetSlidingHardBounce(ctx context.Context, serviceID string) error {
	return b.addEvent(ctx, hardBounceKey(serviceID), b.now())
}

// SeedNotifications backfills notification events at explicit timestamps,
// typically from the database when a fresh Redis instance comes up.
func (b *BounceRate) SeedNotifications(ctx context.Context, serviceID string, at []time.Time) error {
	return b.seedEvents(ctx, totalNotificationsKey(serviceID), at)
}

// SeedHardBounces backfills hard bounce events at explicit timestamps.
func (b *BounceRate) SeedHardBounces(ctx context.Context, serviceID string, at []time.Time) error {
	return b.seedEvents(ctx, hardBounceKey(serviceID), at)
}

func (b *BounceRate) addEvent(ctx context.Context, key string, at time.Time) error {
	ms := at.UnixMilli()
	member := redis.Z{Score: float64(ms), Member: ms}
	if err := b.client.ZAdd(ctx, key, member).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}
	return nil
}

func (b *BounceRate) seedEvents(ctx context.Context, key string, at []time.Time) error {
	if len(at) == 0 {
		return nil
	}

	members := make([]redis.Z, len(at))
	for i, t := range at {
		ms := t.UnixMilli()
		members[i] = redis.Z{Score: float64(ms), Member: ms}
	}

	if err := b.client.ZAdd(ctx, key, members...).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}
	return nil
}

// GetBounceRate returns the share of hard bounces among notifications sent in
// the last 24 hours, rounded to 2 decimal places. Services below the minimum
// volume read as 0. Events older than the window are pruned as a side effect.
func (b *BounceRate) GetBounceRate(ctx context.Context, serviceID string) (float64, error) {
	now := b.now()
	windowStartMs := now.Add(-bounceWindow).UnixMilli()
	nowMs := now.UnixMilli()

	bounceKey := hardBounceKey(serviceID)
	totalKey := totalNotificationsKey(serviceID)

	expired := "(" + strconv.FormatInt(windowStartMs, 10)
	for _, key := range []string{bounceKey, totalKey} {
		if err := b.client.ZRemRangeByScore(ctx, key, "-inf", expired).Err(); err != nil {
			return 0, errors.Join(ErrCommandFailed, err)
		}
	}

	from := strconv.FormatInt(windowStartMs, 10)
	to := strconv.FormatInt(nowMs, 10)

	total, err := b.client.ZCount(ctx, totalKey, from, to).Result()
	if err != nil {
		return 0, errors.Join(ErrCommandFailed, err)
	}
	if total < b.minimumVolume {
		return 0, nil
	}

	bounces, err := b.client.ZCount(ctx, bounceKey, from, to).Result()
	if err != nil {
		return 0, errors.Join(ErrCommandFailed, err)
	}

	rate := math.Round(float64(bounces)/float64(total)*100) / 100

	b.log.DebugContext(ctx, "computed bounce rate",
		slog.String("service_id", serviceID),
		slog.Int64("total", total),
		slog.Int64("bounces", bounces),
		slog.Float64("rate", rate))
	return rate, nil
}

// ClearBounceRate removes all bounce rate data for a service.
func (b *BounceRate) ClearBounceRate(ctx context.Context, serviceID string) error {
	if err := b.client.Del(ctx, hardBounceKey(serviceID), totalNotificationsKey(serviceID)).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}
	return nil
}
