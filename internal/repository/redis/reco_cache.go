package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cardPilot/domain"

	"github.com/redis/go-redis/v9"
)

// BestCardsCache caches the per-user best-card-per-category aggregate.
// Entries expire on their own; wallet or rule changes simply wait out the
// TTL rather than invalidating eagerly.
type BestCardsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBestCardsCache(client *redis.Client, ttl time.Duration) *BestCardsCache {
	return &BestCardsCache{
		client: client,
		ttl:    ttl,
	}
}

func bestCardsKey(userID uint) string {
	return fmt.Sprintf("reco:bestcards:user:%d", userID)
}

func (c *BestCardsCache) Get(ctx context.Context, userID uint) (map[uint64]domain.BestCardSummary, bool, error) {
	val, err := c.client.Get(ctx, bestCardsKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read best-cards cache: %w", err)
	}

	var result map[uint64]domain.BestCardSummary
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode best-cards cache: %w", err)
	}

	return result, true, nil
}

func (c *BestCardsCache) Set(ctx context.Context, userID uint, result map[uint64]domain.BestCardSummary) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode best-cards cache: %w", err)
	}

	if err := c.client.Set(ctx, bestCardsKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write best-cards cache: %w", err)
	}

	return nil
}
