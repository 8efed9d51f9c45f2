package stash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis backs the store with a shared Redis instance so prefills survive
// gateway restarts and reach every replica.
type Redis struct {
	rdb *redis.Client
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func stashKey(branchID string) string {
	return "stash:intake:" + branchID
}

func (r *Redis) Put(ctx context.Context, branchID string, p Prefill) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefill: %w", err)
	}
	if err := r.rdb.Set(ctx, stashKey(branchID), raw, TTL).Err(); err != nil {
		return fmt.Errorf("stash prefill: %w", err)
	}
	return nil
}

func (r *Redis) Take(ctx context.Context, branchID string) (Prefill, bool, error) {
	raw, err := r.rdb.GetDel(ctx, stashKey(branchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Prefill{}, false, nil
	}
	if err != nil {
		return Prefill{}, false, fmt.Errorf("take prefill: %w", err)
	}
	var p Prefill
	if err := json.Unmarshal(raw, &p); err != nil {
		return Prefill{}, false, fmt.Errorf("decode prefill: %w", err)
	}
	return p, true, nil
}
