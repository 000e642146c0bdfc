package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTickMarkTTL = 72 * time.Hour

// TickMarker records per-bank tick completion in redis so a replayed tick
// request is recognized across engine instances.
type TickMarker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTickMarker(rdb *redis.Client, ttl time.Duration) *TickMarker {
	if ttl <= 0 {
		ttl = defaultTickMarkTTL
	}
	return &TickMarker{rdb: rdb, ttl: ttl}
}

func tickMarkKey(bankID string, tick int64) string {
	return "tickmark:" + bankID + ":" + strconv.FormatInt(tick, 10)
}

func (m *TickMarker) AlreadyProcessed(ctx context.Context, bankID string, tick int64) (bool, error) {
	_, err := m.rdb.Get(ctx, tickMarkKey(bankID, tick)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *TickMarker) MarkProcessed(ctx context.Context, bankID string, tick int64) error {
	return m.rdb.SetNX(ctx, tickMarkKey(bankID, tick), "1", m.ttl).Err()
}
