package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"

	"techsphere/cmd/api/metrics"
	"techsphere/cmd/api/trace"
	"techsphere/cmd/internal/logger"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

// RequestRateLimiter is satisfied by RedisLimiter and MemoryLimiter.
type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// NewLimit allows requests per client in each window. Windows are fixed:
// a client's count resets one window after its first request.
func NewLimit(requests int, window time.Duration) redis_rate.Limit {
	return redis_rate.Limit{Rate: requests, Burst: requests, Period: window}
}

// RateLimit 는 클라이언트 IP 단위로 요청 수를 제한한다.
// 리미터 백엔드 오류 시에는 요청을 통과시키고 경고 로그만 남긴다.
func RateLimit(limiter RequestRateLimiter, limit redis_rate.Limit, m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), "ratelimit:"+c.ClientIP(), limit)
		if err != nil {
			logger.WarnWithFields("rate limiter unavailable", trace.LogFields(c.Request.Context(), logger.Fields{
				"error": err.Error(),
			}))
			c.Next()
			return
		}

		c.Header("RateLimit-Limit", strconv.Itoa(limit.Rate))
		c.Header("RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))

		if res.Allowed > 0 {
			c.Next()
			return
		}

		if m != nil {
			m.CounterRateLimited.Inc()
		}
		retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": rateLimitMessage})
	}
}

// MemoryLimiter counts requests per key in fixed windows, used when no Redis
// is configured. Limits are per instance.
type MemoryLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now, limit.Period)

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= limit.Period {
		w = &window{start: now}
		l.windows[key] = w
	}
	w.count++

	return windowResult(limit, w.count, w.start.Add(limit.Period).Sub(now)), nil
}

// sweep drops windows that have already ended.
func (l *MemoryLimiter) sweep(now time.Time, period time.Duration) {
	if now.Sub(l.lastSweep) < period {
		return
	}
	for key, w := range l.windows {
		if now.Sub(w.start) >= period {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}

// fixedWindowScript increments the per-key counter and starts its expiry on the
// first hit, returning {count, ttl_ms}.
var fixedWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {n, ttl}
`)

// RedisLimiter shares fixed-window counters across instances through Redis.
type RedisLimiter struct {
	rdb redis.UniversalClient
}

func NewRedisLimiter(rdb redis.UniversalClient) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, limit.Period.Milliseconds()).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return nil, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}
	count, _ := vals[0].(int64)
	ttl, _ := vals[1].(int64)
	if ttl < 0 {
		ttl = limit.Period.Milliseconds()
	}
	return windowResult(limit, int(count), time.Duration(ttl)*time.Millisecond), nil
}

func windowResult(limit redis_rate.Limit, count int, resetAfter time.Duration) *redis_rate.Result {
	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  max(limit.Rate-count, 0),
		ResetAfter: resetAfter,
		RetryAfter: -1,
	}
	if count <= limit.Rate {
		res.Allowed = 1
		return res
	}
	res.RetryAfter = resetAfter
	return res
}
