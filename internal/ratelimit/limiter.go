// Package ratelimit throttles SenseBoard's HTTP and websocket surfaces
// using ulule/limiter's in-memory fixed-window counter store. SenseBoard has no authentication
// layer, so every limit is keyed by client IP rather than by user identity.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"github.com/PiyushDatta/senseboard/internal/logging"
	"github.com/PiyushDatta/senseboard/internal/metrics"
)

// Default rates, expressed in ulule/limiter's formatted-rate syntax
// ("<limit>-<period>": S, M, H, D).
const (
	DefaultAPIGlobalRate = "1000-M"
	DefaultAPIRoomsRate  = "100-M"
	DefaultWsConnectRate = "30-M"
)

// RateLimiter holds SenseBoard's rate limiter instances, all backed by a
// single in-memory store.
type RateLimiter struct {
	apiGlobal *limiter.Limiter
	apiRooms  *limiter.Limiter
	wsConnect *limiter.Limiter
}

// New builds a RateLimiter from formatted rate strings; an empty string
// falls back to the package default for that limit.
func New(apiGlobalRate, apiRoomsRate, wsConnectRate string) (*RateLimiter, error) {
	if apiGlobalRate == "" {
		apiGlobalRate = DefaultAPIGlobalRate
	}
	if apiRoomsRate == "" {
		apiRoomsRate = DefaultAPIRoomsRate
	}
	if wsConnectRate == "" {
		wsConnectRate = DefaultWsConnectRate
	}

	global, err := limiter.NewRateFromFormatted(apiGlobalRate)
	if err != nil {
		return nil, fmt.Errorf("invalid API global rate: %w", err)
	}
	rooms, err := limiter.NewRateFromFormatted(apiRoomsRate)
	if err != nil {
		return nil, fmt.Errorf("invalid API rooms rate: %w", err)
	}
	ws, err := limiter.NewRateFromFormatted(wsConnectRate)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket connect rate: %w", err)
	}

	store := memory.NewStore()
	return &RateLimiter{
		apiGlobal: limiter.New(store, global),
		apiRooms:  limiter.New(store, rooms),
		wsConnect: limiter.New(store, ws),
	}, nil
}

// Middleware enforces a named limit, keyed by client IP, on every request
// it wraps. endpointType selects which limiter instance applies; unknown
// values fall back to the global limit.
func (rl *RateLimiter) Middleware(endpointType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		inst := rl.apiGlobal
		if endpointType == "rooms" {
			inst = rl.apiRooms
		}

		ctx := c.Request.Context()
		lctx, err := inst.Get(ctx, c.ClientIP())
		if err != nil {
			logging.Error(ctx, "rate limiter store failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			metrics.RateLimitExceeded.WithLabelValues(c.FullPath(), endpointType).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": lctx.Reset,
			})
			return
		}

		metrics.RateLimitRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// CheckWebSocketConnect applies the websocket-connect limit to ip, outside
// the normal gin middleware chain (the /ws upgrade path needs the result
// before it commits to an upgrade). Returns true if the connection may
// proceed.
func (rl *RateLimiter) CheckWebSocketConnect(ctx context.Context, ip string) bool {
	lctx, err := rl.wsConnect.Get(ctx, ip)
	if err != nil {
		logging.Error(ctx, "websocket rate limiter store failed", zap.Error(err))
		return true
	}
	if lctx.Reached {
		metrics.RateLimitExceeded.WithLabelValues("websocket_connect", "ip").Inc()
		return false
	}
	metrics.RateLimitRequests.WithLabelValues("websocket_connect").Inc()
	return true
}
