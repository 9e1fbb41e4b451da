package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"bistro-backend/models"
)

const (
	scheduleKey = "booking:weekly_schedule"
	scheduleTTL = 5 * time.Minute
)

// ScheduleCache keeps the weekly opening-hours schedule in Redis so the
// booking endpoints don't hit the database on every date selection. A nil
// cache (Redis not configured) falls straight through to the loader.
type ScheduleCache struct {
	rdb *redis.Client
}

func NewScheduleCache(rdb *redis.Client) *ScheduleCache {
	return &ScheduleCache{rdb: rdb}
}

// Get returns the cached weekly schedule, loading and caching it on a miss.
func (c *ScheduleCache) Get(ctx context.Context, load func() ([]models.OpeningHours, error)) ([]models.OpeningHours, error) {
	if c == nil || c.rdb == nil {
		return load()
	}

	if data, err := c.rdb.Get(ctx, scheduleKey).Bytes(); err == nil {
		var schedule []models.OpeningHours
		if json.Unmarshal(data, &schedule) == nil && len(schedule) > 0 {
			return schedule, nil
		}
	}

	schedule, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(schedule); err == nil {
		if err := c.rdb.Set(ctx, scheduleKey, data, scheduleTTL).Err(); err != nil {
			log.Printf("Warning: failed to cache weekly schedule: %v", err)
		}
	}

	return schedule, nil
}

// Invalidate drops the cached schedule. Called after an admin changes
// opening hours.
func (c *ScheduleCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, scheduleKey).Err(); err != nil {
		log.Printf("Warning: failed to invalidate schedule cache: %v", err)
	}
}
