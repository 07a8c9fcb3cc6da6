package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booktracker/booktracker/internal/catalog"
)

// CatalogSearcher abstracts the external book catalog for the search
// proxy. Implemented by catalog.Client.
type CatalogSearcher interface {
	Search(ctx context.Context, query string) ([]catalog.Volume, error)
}

// SearchController proxies catalog searches so the API key never
// reaches the browser.
type SearchController struct {
	catalog CatalogSearcher
}

// NewSearchController creates a search controller.
func NewSearchController(searcher CatalogSearcher) *SearchController {
	return &SearchController{catalog: searcher}
}

// Search proxies a query to the catalog and returns normalized volumes.
// Upstream failures are logged but the client only sees a generic error.
// GET /api/search?q=...
func (sc *SearchController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "Query parameter is required")
		return
	}

	items, err := sc.catalog.Search(c.Request.Context(), query)
	if err != nil {
		log.Printf("Catalog search failed: %v", err)
		respondError(c, http.StatusInternalServerError, "Books cannot be fetched now, please try again.")
		return
	}
	if items == nil {
		items = []catalog.Volume{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
