package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// RedisLimiter keeps sliding windows in Redis sorted sets so every instance
// of the service shares the same counters.
type RedisLimiter struct {
	rdb    goredis.UniversalClient
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter builds a limiter on an existing client.
func NewRedisLimiter(rdb goredis.UniversalClient, prefix string, limit int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	if limit <= 0 {
		limit = 1
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: normalizeWindow(window), now: time.Now}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, eris.Wrapf(err, "pinging redis at %s", addr)
	}
	return rdb, nil
}

// Allow records a hit for key if the key is under its limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := l.prefix + ":" + normalizeKey(key)
	now := l.now()
	cutoff := now.Add(-l.window)
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()

	var card *goredis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(cutoff.UnixNano(), 10))
		pipe.ZAdd(ctx, redisKey, goredis.Z{Score: float64(now.UnixNano()), Member: member})
		card = pipe.ZCard(ctx, redisKey)
		pipe.PExpire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return Decision{}, eris.Wrapf(err, "updating rate limit window for %s", redisKey)
	}

	count := int(card.Val())
	if count <= l.limit {
		return Decision{Allowed: true, Remaining: l.limit - count}, nil
	}

	if err := l.rdb.ZRem(ctx, redisKey, member).Err(); err != nil {
		return Decision{}, eris.Wrapf(err, "rolling back rate limit hit for %s", redisKey)
	}

	retryAfter := l.window
	oldest, err := l.rdb.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
	if err == nil && len(oldest) > 0 {
		retryAfter = time.Unix(0, int64(oldest[0].Score)).Add(l.window).Sub(now)
	}
	return Decision{Allowed: false, Remaining: 0, RetryAfter: retryAfter}, nil
}
