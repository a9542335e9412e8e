package httpx

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/aussiebroadwan/voucher/pkg/slogx"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// Common rate limit profiles. Overridable via environment variables
// (RATELIMIT_{PROFILE}_REQUESTS / _WINDOW_SEC / _BURST), which the e2e
// suite relies on.
var (
	// StrictLimit for mutating endpoints (issue/redeem).
	StrictLimit = RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		Burst:             10,
	}

	// LenientLimit for read-only dashboard endpoints.
	LenientLimit = RateLimitConfig{
		RequestsPerWindow: 100,
		Window:            time.Minute,
		Burst:             100,
	}

	// PublicLimit for health endpoints polled by monitoring.
	PublicLimit = RateLimitConfig{
		RequestsPerWindow: 1000,
		Window:            time.Minute,
		Burst:             1000,
	}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
	LenientLimit = ParseRateLimitFromEnv("LENIENT", LenientLimit)
	PublicLimit = ParseRateLimitFromEnv("PUBLIC", PublicLimit)
}

// ParseRateLimitFromEnv reads rate limit overrides from environment
// variables named RATELIMIT_{prefix}_{field}.
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.RequestsPerWindow = requests
		}
	}
	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}
	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if burst, err := strconv.Atoi(val); err == nil && burst > 0 {
			config.Burst = burst
		}
	}

	return config
}

// KeyExtractor extracts the grouping key for rate limiting from a request
// (IP address, client name, form field and so on).
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address, honouring X-Forwarded-For
// and X-Real-IP for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// ClientKeyExtractor extracts the authenticated client name from the request
// context. Returns "" when unauthenticated.
func ClientKeyExtractor(r *http.Request) string {
	return ClientFromContext(r.Context())
}

// CompositeKeyExtractor combines multiple extractors with a separator,
// skipping empty parts.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// rateLimiter holds one token bucket per key. Buckets live in a go-cache
// store with TTL eviction, so limiters for ephemeral keys age out on their
// own instead of accumulating forever.
type rateLimiter struct {
	limiters *gocache.Cache
	rate     rate.Limit
	burst    int
}

func newRateLimiter(config RateLimitConfig) *rateLimiter {
	// A bucket idle for several windows carries no useful state; let the
	// janitor collect it.
	idleTTL := 10 * config.Window

	return &rateLimiter{
		limiters: gocache.New(idleTTL, config.Window),
		rate:     rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:    config.Burst,
	}
}

// getLimiter retrieves or creates the bucket for key, refreshing its TTL on
// access so active keys stay resident.
func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := rl.limiters.Get(key); ok {
		rl.limiters.SetDefault(key, v)
		return v.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	if err := rl.limiters.Add(key, limiter, gocache.DefaultExpiration); err != nil {
		// Lost the insert race; use the winner's bucket.
		if v, ok := rl.limiters.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// RateLimitMiddleware creates a rate limiting middleware with the given
// configuration and key extractor.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	rl := newRateLimiter(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				// No key to group by; allow the request but note it.
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := rl.getLimiter(key)
			if !limiter.Allow() {
				reservation := limiter.Reserve()
				delay := reservation.Delay()
				reservation.Cancel() // Don't actually consume the reservation

				retryAfter := max(int(delay.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", config.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", config.Window.String())

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)

				WriteJSON(w, http.StatusTooManyRequests, ErrorResponse{
					Error:            "rate_limit_exceeded",
					ErrorDescription: "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits by IP address only.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor)
}

// RateLimitByClient limits by authenticated client name, falling back to IP
// for unauthenticated requests.
func RateLimitByClient(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":",
		ClientKeyExtractor,
		IPKeyExtractor,
	))
}
