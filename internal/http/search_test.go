package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booktracker/booktracker/internal/catalog"
)

type fakeCatalog struct {
	volumes []catalog.Volume
	err     error
	queries []string
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]catalog.Volume, error) {
	f.queries = append(f.queries, query)
	return f.volumes, f.err
}

func TestSearchController_Search(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("requires a query parameter", func(t *testing.T) {
		router := newTestRouter(1)
		router.GET("/api/search", NewSearchController(&fakeCatalog{}).Search)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/search", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Query parameter is required", response.Error)
	})

	t.Run("returns catalog items", func(t *testing.T) {
		fake := &fakeCatalog{volumes: []catalog.Volume{
			{ID: "vol-1", VolumeInfo: catalog.VolumeInfo{Title: "Golang Patterns"}},
			{ID: "vol-2", VolumeInfo: catalog.VolumeInfo{Title: "Golang Practice"}},
		}}
		router := newTestRouter(1)
		router.GET("/api/search", NewSearchController(fake).Search)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/search?q=golang", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"golang"}, fake.queries)

		var response struct {
			Items []catalog.Volume `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Items, 2)
		assert.Equal(t, "vol-1", response.Items[0].ID)
	})

	t.Run("returns empty items for a nil result", func(t *testing.T) {
		router := newTestRouter(1)
		router.GET("/api/search", NewSearchController(&fakeCatalog{}).Search)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/search?q=obscure", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items": []}`, w.Body.String())
	})

	t.Run("hides upstream failures behind a generic message", func(t *testing.T) {
		fake := &fakeCatalog{err: errors.New("quota exceeded")}
		router := newTestRouter(1)
		router.GET("/api/search", NewSearchController(fake).Search)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/search?q=golang", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Books cannot be fetched now, please try again.", response.Error)
		assert.NotContains(t, w.Body.String(), "quota")
	})
}

func TestSearchLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("allows up to the budget then rejects", func(t *testing.T) {
		limiter := NewSearchLimiter(5, 12*time.Second)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow(1), "request %d should pass", i+1)
		}
		assert.False(t, limiter.Allow(1))
	})

	t.Run("tracks users independently", func(t *testing.T) {
		limiter := NewSearchLimiter(1, 12*time.Second)

		assert.True(t, limiter.Allow(1))
		assert.False(t, limiter.Allow(1))
		assert.True(t, limiter.Allow(2))
	})

	t.Run("frees budget once the window passes", func(t *testing.T) {
		limiter := NewSearchLimiter(1, 10*time.Millisecond)

		assert.True(t, limiter.Allow(1))
		assert.False(t, limiter.Allow(1))
		time.Sleep(20 * time.Millisecond)
		assert.True(t, limiter.Allow(1))
	})

	t.Run("middleware responds 429 when over budget", func(t *testing.T) {
		limiter := NewSearchLimiter(1, 12*time.Second)

		router := newTestRouter(1)
		router.GET("/api/search", limiter.Middleware(), NewSearchController(&fakeCatalog{}).Search)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/search?q=one", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/api/search?q=two", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Too many searches, please wait a moment.", response.Error)
	})
}
