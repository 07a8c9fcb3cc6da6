package http

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/booktracker/booktracker/internal/stats"
)

// StatsController serves the aggregate dashboard views derived from a
// user's saved books.
type StatsController struct {
	store BookStore
	now   func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStatsController creates a stats controller with wall-clock time and
// a time-seeded random source.
func NewStatsController(store BookStore) *StatsController {
	return &StatsController{
		store: store,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetStats returns simple library totals.
// GET /api/stats
func (sc *StatsController) GetStats(c *gin.Context) {
	userID := GetUserID(c)

	saved, err := sc.store.GetBooksByUser(userID)
	if err != nil {
		respondInternalError(c, err, "stats")
		return
	}

	c.JSON(http.StatusOK, stats.Compute(saved, sc.now()))
}

// GetAnalytics returns the derived-metrics dashboard view. The genre
// section is drawn at random per request; see stats.ComputeGenreDistribution.
// GET /api/analytics
func (sc *StatsController) GetAnalytics(c *gin.Context) {
	userID := GetUserID(c)

	saved, err := sc.store.GetBooksByUser(userID)
	if err != nil {
		respondInternalError(c, err, "analytics")
		return
	}

	sc.mu.Lock()
	analytics := stats.ComputeAnalytics(saved, sc.now(), sc.rng)
	sc.mu.Unlock()

	c.JSON(http.StatusOK, analytics)
}
