package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

const (
	defaultRateLimitGroup = "DEFAULT"
	// Keys whose newest hit has left its window are dropped at most this often.
	rateLimitSweepInterval = time.Minute
)

// RateLimitRule allows Limit requests per principal within any trailing Window.
type RateLimitRule struct {
	Limit  int
	Window time.Duration
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	// PrincipalFor overrides the caller key. Defaults to user ID, then client IP.
	PrincipalFor func(*gin.Context) string
	Limiter      *RateLimiter
	// OnLimited is called with the group of every rejected request.
	OnLimited func(group string)
}

// RateLimiter keeps a sliding log of request times per key.
type RateLimiter struct {
	mu        sync.Mutex
	hits      map[string]*hitLog
	clock     clockwork.Clock
	lastSweep time.Time
}

type hitLog struct {
	times  []time.Time
	window time.Duration
}

func NewRateLimiter(clock clockwork.Clock) *RateLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RateLimiter{
		hits:  make(map[string]*hitLog),
		clock: clock,
	}
}

func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = defaultRateLimitGroup
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := ""
		if cfg.PrincipalFor != nil {
			principal = strings.TrimSpace(cfg.PrincipalFor(c))
		}
		if principal == "" {
			principal = strings.TrimSpace(UserIDFromContext(c))
		}
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}
		key := principal + "|" + group
		allowed, retryAfter := cfg.Limiter.Allow(key, rule)
		if allowed {
			c.Next()
			return
		}
		if cfg.OnLimited != nil {
			cfg.OnLimited(group)
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":        "rate_limited",
			"retryAfterMs": retryAfterMs,
		})
		c.Abort()
	}
}

// Allow records a hit for key when the rule permits it. A rejected hit is not
// recorded; retryAfter is the time until the oldest hit leaves the window.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, 0
	}
	now := l.clock.Now()
	cutoff := now.Add(-rule.Window)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(now)

	h := l.hits[key]
	if h == nil {
		h = &hitLog{}
		l.hits[key] = h
	}
	h.window = rule.Window
	kept := h.times[:0]
	for _, ts := range h.times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	h.times = kept

	if len(kept) >= rule.Limit {
		retryAfter := kept[0].Add(rule.Window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return false, retryAfter
	}

	h.times = append(kept, now)
	return true, 0
}

// sweepLocked drops keys with no hit inside their window. l.mu must be held.
func (l *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < rateLimitSweepInterval {
		return
	}
	l.lastSweep = now
	for key, h := range l.hits {
		if len(h.times) == 0 || !h.times[len(h.times)-1].After(now.Add(-h.window)) {
			delete(l.hits, key)
		}
	}
}

// Len reports how many keys are currently tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// Remaining reports how many requests key may still make under rule.
func (l *RateLimiter) Remaining(key string, rule RateLimitRule) int {
	if l == nil || rule.Limit <= 0 {
		return 0
	}
	cutoff := l.clock.Now().Add(-rule.Window)
	l.mu.Lock()
	defer l.mu.Unlock()
	h := l.hits[key]
	if h == nil {
		return rule.Limit
	}
	n := 0
	for _, ts := range h.times {
		if ts.After(cutoff) {
			n++
		}
	}
	if n >= rule.Limit {
		return 0
	}
	return rule.Limit - n
}
