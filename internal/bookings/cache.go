package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"plana-backend/internal/common/logger"
)

const (
	cacheKeyPrefix  = "booking:"
	DefaultCacheTTL = 5 * time.Minute
)

// CachedRepository is a read-through Redis cache in front of a Lookup.
// Redis failures are logged and bypassed.
type CachedRepository struct {
	next   Lookup
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(next Lookup, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedRepository{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "booking-cache"}),
	}
}

func (c *CachedRepository) GetBookingDetails(ctx context.Context, bookingID string) (*BookingDetails, error) {
	key := cacheKeyPrefix + bookingID

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var d BookingDetails
		if jsonErr := json.Unmarshal([]byte(val), &d); jsonErr == nil {
			return &d, nil
		}
		c.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("booking cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	d, err := c.next.GetBookingDetails(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(d)
	if err == nil {
		if setErr := c.redis.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			c.logger.Warn("booking cache write failed", map[string]interface{}{
				"key":   key,
				"error": setErr.Error(),
			})
		}
	}
	return d, nil
}
