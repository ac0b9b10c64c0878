package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"feedback360-go/internal/config"
	"feedback360-go/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewRateLimit limits requests per tenant header value, falling back to the
// client IP for tenant-less routes. client may be nil unless cfg.Storage is redis.
func NewRateLimit(cfg config.RateLimitConfig, tenantHeader string, client goredis.UniversalClient, log logger.Logger) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit %q: %w", cfg.Rate, err)
	}

	var store limiter.Store
	switch cfg.Storage {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("rate limit storage redis requires a redis client")
		}
		store, err = redisstore.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "feedback360:ratelimit"})
		if err != nil {
			return nil, fmt.Errorf("create redis rate limit store: %w", err)
		}
	default:
		store = memory.NewStore()
	}

	instance := limiter.New(store, rate)
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithKeyGetter(func(r *http.Request) string {
			if tenantID := strings.TrimSpace(r.Header.Get(tenantHeader)); tenantID != "" {
				return "tenant:" + tenantID
			}
			return "ip:" + instance.GetIPKey(r)
		}),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			log.InternalError("ratelimit: limiter failed", err, "path", r.URL.Path)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}),
	)
	return mw.Handler, nil
}
