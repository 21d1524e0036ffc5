// Package quota provides Redis-backed notification quota tracking and email
// bounce rate monitoring for notification services.
//
// This package wraps [github.com/redis/go-redis/v9] with two small clients:
// Limiter tracks per-service delivered/failed counts against annual sending
// limits, and BounceRate measures hard bounces over a 24 hour sliding window.
//
// # Features
//
//   - Per-service notification counts in Redis hashes (sms/email, delivered/failed)
//   - Annual limit statuses recording when near/over limit warnings were sent
//   - Daily seeding markers so counts are backfilled from the database at most once a day
//   - Sliding-window bounce rate over sorted sets scored by millisecond timestamp
//   - Connection helper with retry, exponential backoff, and redis:///rediss:// URLs
//
// # Usage
//
// Counting notifications against the annual limit:
//
//	import (
//		"context"
//		"log"
//		"os"
//
//		"github.com/dmitrymomot/notifykit/pkg/quota"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		client, err := quota.Open(ctx, os.Getenv("REDIS_URL"))
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer client.Close()
//
//		limiter := quota.NewLimiter(client)
//
//		if err := limiter.IncrementNotificationCount(ctx, serviceID, quota.SMSDelivered); err != nil {
//			log.Fatal(err)
//		}
//
//		counts, err := limiter.GetAllNotificationCounts(ctx, serviceID)
//		if err != nil {
//			log.Fatal(err)
//		}
//		sent := counts[quota.SMSDelivered] + counts[quota.SMSFailed]
//		_ = sent
//	}
//
// Tracking the bounce rate:
//
//	rate := quota.NewBounceRate(client)
//
//	_ = rate.SetSlidingNotifications(ctx, serviceID)
//	_ = rate.SetSlidingHardBounce(ctx, serviceID)
//
//	r, err := rate.GetBounceRate(ctx, serviceID)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if r > 0.1 {
//		// suspend sending for the service
//	}
//
// # Seeding
//
// On a fresh Redis instance, counts and events are backfilled from the
// database. SetSeededAt and WasSeededToday keep the backfill to once per day:
//
//	seeded, _ := limiter.WasSeededToday(ctx, serviceID)
//	if !seeded {
//		_ = limiter.SeedNotificationCounts(ctx, serviceID, countsFromDB)
//		_ = limiter.SetSeededAt(ctx, serviceID)
//	}
//
// # Error Handling
//
// Validation failures return ErrUnknownCountField or ErrUnknownStatusField
// before any Redis command runs. Redis failures are wrapped with
// ErrCommandFailed, so callers can distinguish bad input from infrastructure
// trouble with errors.Is.
package quota
