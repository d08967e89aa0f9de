package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis окно в sorted set: score это время запроса в миллисекундах.
// Несколько реплик сервиса делят одну квоту.
type Redis struct {
	client *redis.Client
	rule   Rule
	prefix string
	now    func() time.Time
}

func NewRedis(client *redis.Client, rule Rule) *Redis {
	return &Redis{client: client, rule: rule, prefix: "ratelimit:email:", now: time.Now}
}

var _ Limiter = (*Redis)(nil)

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	now := r.now()
	k := r.prefix + key
	nowMs := now.UnixMilli()
	cutoff := now.Add(-r.rule.Window).UnixMilli()
	member := uuid.NewString()

	var card *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(cutoff, 10))
		pipe.ZAdd(ctx, k, redis.Z{Score: float64(nowMs), Member: member})
		card = pipe.ZCard(ctx, k)
		pipe.PExpire(ctx, k, r.rule.Window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit window: %w", err)
	}
	if card.Val() > int64(r.rule.Max) {
		// rejected hits do not consume quota
		if err := r.client.ZRem(ctx, k, member).Err(); err != nil {
			return false, fmt.Errorf("rate limit rollback: %w", err)
		}
		return false, nil
	}
	return true, nil
}
