package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// SearchLimiter throttles catalog searches per user with a sliding
// window, protecting the upstream catalog quota from rapid-fire typing.
type SearchLimiter struct {
	mu          sync.Mutex
	requests    map[uint][]time.Time
	maxRequests int
	window      time.Duration
}

// NewSearchLimiter creates a limiter allowing maxRequests searches per
// user within any window.
func NewSearchLimiter(maxRequests int, window time.Duration) *SearchLimiter {
	return &SearchLimiter{
		requests:    make(map[uint][]time.Time),
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow records a search attempt and reports whether it is within the
// user's budget.
func (sl *SearchLimiter) Allow(userID uint) bool {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-sl.window)

	recent := sl.requests[userID][:0]
	for _, t := range sl.requests[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= sl.maxRequests {
		sl.requests[userID] = recent
		return false
	}

	sl.requests[userID] = append(recent, now)
	return true
}

// Middleware rejects over-budget searches with 429.
func (sl *SearchLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sl.Allow(GetUserID(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Too many searches, please wait a moment.",
			})
			return
		}
		c.Next()
	}
}
