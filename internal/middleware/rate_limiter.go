package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/FedyaB/restapi-server-spbstu/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Limiter counts hits per key inside a fixed window.
type Limiter interface {
	// Hit records one request for key and returns the count within the
	// current window plus the time the window resets.
	Hit(ctx context.Context, key string) (int64, time.Time, error)
}

// ── In-memory limiter ─────────────────────────────────────────────────────────

// windowEntry tracks hits for one key within a window.
type windowEntry struct {
	count     int64
	windowEnd time.Time
}

// MemoryLimiter keeps counters in process memory. Expired entries are purged
// at most once per purgeInterval, on the request path.
type MemoryLimiter struct {
	window    time.Duration
	mu        sync.Mutex
	entries   map[string]*windowEntry
	nextPurge time.Time
	now       func() time.Time
}

const purgeInterval = 5 * time.Minute

func NewMemoryLimiter(window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		window:  window,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Hit(_ context.Context, key string) (int64, time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextPurge) {
		l.purge(now)
		l.nextPurge = now.Add(purgeInterval)
	}

	entry, ok := l.entries[key]
	if !ok || now.After(entry.windowEnd) {
		entry = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = entry
	}
	entry.count++
	return entry.count, entry.windowEnd, nil
}

func (l *MemoryLimiter) purge(now time.Time) {
	purged := 0
	for key, entry := range l.entries {
		if now.After(entry.windowEnd) {
			delete(l.entries, key)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().
			Int("entries_purged", purged).
			Int("entries_remaining", len(l.entries)).
			Msg("rate limiter entries purged")
	}
}

// ── Redis limiter ─────────────────────────────────────────────────────────────

// RedisLimiter shares counters between replicas through INCR + EXPIRE.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, prefix string, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, window: window}
}

func (l *RedisLimiter) Hit(ctx context.Context, key string) (int64, time.Time, error) {
	k := l.prefix + ":" + key
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}
	reset := time.Now().Add(l.window)
	if d := ttl.Val(); d > 0 {
		reset = time.Now().Add(d)
	}
	return incr.Val(), reset, nil
}

// NewLimiter picks the redis limiter when a client is configured.
func NewLimiter(rdb *redis.Client, prefix string, window time.Duration) Limiter {
	if rdb == nil {
		return NewMemoryLimiter(window)
	}
	return NewRedisLimiter(rdb, prefix, window)
}

// ── Middleware ────────────────────────────────────────────────────────────────

// RateLimiter rejects a client IP with 429 once it exceeds limit hits per
// window. A failing limiter backend lets the request through.
func RateLimiter(l Limiter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, reset, err := l.Hit(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if count > int64(limit) {
			secs := int(time.Until(reset).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(http.StatusTooManyRequests))
			return
		}
		c.Next()
	}
}
