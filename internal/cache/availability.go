package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/smartclinic/booking-api/internal/model"
)

const availabilityTTL = time.Minute

// AvailabilityCache memoizes computed slot grids per (doctor, day).
// Entries are invalidated whenever a booking mutates that day.
type AvailabilityCache interface {
	Get(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]model.Slot, bool)
	Set(ctx context.Context, doctorID uuid.UUID, day time.Time, slots []model.Slot)
	Invalidate(ctx context.Context, doctorID uuid.UUID, day time.Time)
}

type redisCache struct {
	client *redis.Client
	logger *zerolog.Logger
}

func NewRedisAvailabilityCache(url string, logger *zerolog.Logger) (AvailabilityCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCache{client: client, logger: logger}, nil
}

func availabilityKey(doctorID uuid.UUID, day time.Time) string {
	return "availability:" + doctorID.String() + ":" + day.Format("2006-01-02")
}

func (c *redisCache) Get(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]model.Slot, bool) {
	payload, err := c.client.Get(ctx, availabilityKey(doctorID, day)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("availability cache read failed")
		}
		return nil, false
	}

	var slots []model.Slot
	if err := json.Unmarshal(payload, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *redisCache) Set(ctx context.Context, doctorID uuid.UUID, day time.Time, slots []model.Slot) {
	payload, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, availabilityKey(doctorID, day), payload, availabilityTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("availability cache write failed")
	}
}

func (c *redisCache) Invalidate(ctx context.Context, doctorID uuid.UUID, day time.Time) {
	if err := c.client.Del(ctx, availabilityKey(doctorID, day)).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("availability cache invalidation failed")
	}
}

// NoopCache is used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, uuid.UUID, time.Time) ([]model.Slot, bool) { return nil, false }
func (NoopCache) Set(context.Context, uuid.UUID, time.Time, []model.Slot)        {}
func (NoopCache) Invalidate(context.Context, uuid.UUID, time.Time)               {}
