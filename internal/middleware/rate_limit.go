package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/hms-backend/internal/errs"
	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	rateLimitWindow    = time.Minute
	rateLimitKeyPrefix = "hms:ratelimit:"
	redisCallTimeout   = 500 * time.Millisecond
)

// RateLimitMiddleware throttles form submissions per client ip. Counters
// live in Redis when it is configured, otherwise in process memory.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{server: s}
}

// Limit returns the submission limiter, or a pass-through middleware when
// rate limiting is disabled.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: r.store(),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewInternalServerError()
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("identifier", identifier).Msg("submission rate limit hit")

			retryAfter := int(rateLimitWindow / time.Second)
			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			return errs.NewTooManyRequestsError("Too many submissions, please try again later", retryAfter)
		},
	})
}

func (r *RateLimitMiddleware) store() middleware.RateLimiterStore {
	cfg := r.server.Config.RateLimit
	if r.server.Redis != nil {
		return NewRedisRateLimiterStore(r.server.Redis, cfg.RequestsPerMinute, r.server.Logger)
	}

	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.RequestsPerMinute) / rateLimitWindow.Seconds()),
		Burst:     cfg.Burst,
		ExpiresIn: 3 * rateLimitWindow,
	})
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService == nil || r.server.LoggerService.GetApplication() == nil {
		return
	}
	r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
		"endpoint": endpoint,
	})
}

// RedisRateLimiterStore counts requests per identifier in fixed one-minute
// windows. Redis failures let the request through.
type RedisRateLimiterStore struct {
	client *redis.Client
	limit  int64
	log    *zerolog.Logger
	now    func() time.Time
}

func NewRedisRateLimiterStore(client *redis.Client, perMinute int, log *zerolog.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client: client,
		limit:  int64(perMinute),
		log:    log,
		now:    time.Now,
	}
}

func (s *RedisRateLimiterStore) key(identifier string) string {
	window := s.now().Truncate(rateLimitWindow).Unix()
	return fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, identifier, window)
}

// Allow implements middleware.RateLimiterStore.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCallTimeout)
	defer cancel()

	key := s.key(identifier)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rateLimitWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("rate limit store unavailable, allowing request")
		return true, nil
	}

	return incr.Val() <= s.limit, nil
}

var _ middleware.RateLimiterStore = (*RedisRateLimiterStore)(nil)
