package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pickboard/pickboard-backend/internal/common"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	RequestsPerMinute int
	// Window defaults to one minute
	Window    time.Duration
	KeyPrefix string
	Message   string
	// PerUser keys signed-in callers by user id instead of client IP
	PerUser bool
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		Window:            time.Minute,
		KeyPrefix:         "pickboard:ratelimit:",
		Message:           "Too many requests. Please try again shortly.",
	}
}

// slidingWindow keeps one sorted-set member per accepted request, scored by its time in ms.
// Returns {allowed, remaining, retry_after_ms}.
var slidingWindow = redis.NewScript(`
local now = tonumber(ARGV[3])
local window = tonumber(ARGV[2])
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, now - window)

local used = redis.call('ZCARD', KEYS[1])
local limit = tonumber(ARGV[1])
if used >= limit then
    local first = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
    local wait = window
    if first[2] then
        wait = tonumber(first[2]) + window - now
    end
    return {0, 0, wait}
end

redis.call('ZADD', KEYS[1], now, ARGV[4])
redis.call('PEXPIRE', KEYS[1], window)
return {1, limit - used - 1, 0}
`)

func rateLimitKey(c *gin.Context, cfg RateLimitConfig) string {
	if cfg.PerUser {
		if id := GetUserID(c); id != 0 {
			return cfg.KeyPrefix + "user:" + strconv.FormatUint(id, 10)
		}
	}
	return cfg.KeyPrefix + "ip:" + c.ClientIP()
}

// RateLimit returns a sliding-window limiter. Without redis, or on a redis error, requests pass.
func RateLimit(redisClient *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}

	return func(c *gin.Context) {
		if redisClient == nil || cfg.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		res, err := slidingWindow.Run(c.Request.Context(), redisClient,
			[]string{rateLimitKey(c, cfg)},
			cfg.RequestsPerMinute, window.Milliseconds(), time.Now().UnixMilli(), uuid.NewString(),
		).Int64Slice()
		if err != nil || len(res) != 3 {
			c.Next()
			return
		}

		if applyLimit(c, cfg, res) {
			c.Next()
		}
	}
}

// applyLimit writes the limit headers for a script result and rejects the request
// when it was not allowed. It reports whether the request may continue.
func applyLimit(c *gin.Context, cfg RateLimitConfig, res []int64) bool {
	c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
	if res[0] == 1 {
		return true
	}

	seconds := int64(time.Duration(res[2]) * time.Millisecond / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.FormatInt(seconds, 10))
	common.ErrorResponse(c, http.StatusTooManyRequests, cfg.Message, nil)
	c.Abort()
	return false
}
