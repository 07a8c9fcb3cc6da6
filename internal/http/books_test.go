package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booktracker/booktracker/internal/auth"
	"github.com/booktracker/booktracker/internal/database"
	"github.com/booktracker/booktracker/internal/database/books"
	"github.com/booktracker/booktracker/internal/entities"
)

func setupBooksTestDB(t *testing.T) (*database.Database, *books.Repository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	repo := books.NewRepository(db.DB)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, repo, cleanup
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// newTestRouter builds a bare router with a fixed authenticated user.
func newTestRouter(userID uint) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, userID)
		c.Next()
	})
	return router
}

func saveTestBook(t *testing.T, repo *books.Repository, userID uint, bookID string) *entities.Book {
	t.Helper()
	book := &entities.Book{
		UserID:    userID,
		BookID:    bookID,
		Title:     "Saved Book " + bookID,
		Authors:   []string{"Some Author"},
		PageCount: 150,
		Shelf:     entities.ShelfCurrentlyReading,
	}
	require.NoError(t, repo.SaveBook(book))
	return book
}

func TestBooksController_ListBooks(t *testing.T) {
	t.Run("returns empty list when shelf is empty", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		router := newTestRouter(1)
		router.GET("/api/books", NewBooksController(repo, nil).ListBooks)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("returns only the user's books", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		saveTestBook(t, repo, 1, "vol-1")
		saveTestBook(t, repo, 2, "vol-2")

		router := newTestRouter(1)
		router.GET("/api/books", NewBooksController(repo, nil).ListBooks)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response, 1)
		assert.Equal(t, "vol-1", response[0]["bookId"])
	})
}

func TestBooksController_SaveBook(t *testing.T) {
	t.Run("creates a record and secures the thumbnail", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		router := newTestRouter(1)
		router.POST("/api/books", NewBooksController(repo, nil).SaveBook)

		body, _ := json.Marshal(SaveBookRequest{
			BookID:    "vol-1",
			Title:     "Some Title",
			Authors:   []string{"A. Author"},
			Thumbnail: "http://books.google.com/cover.jpg",
			PageCount: 300,
			Shelf:     "want-to-read",
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "https://books.google.com/cover.jpg", response["thumbnail"])
		assert.Equal(t, float64(0), response["progress"])
	})

	t.Run("rejects a duplicate with 409", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		saveTestBook(t, repo, 1, "vol-1")

		router := newTestRouter(1)
		router.POST("/api/books", NewBooksController(repo, nil).SaveBook)

		body, _ := json.Marshal(SaveBookRequest{
			BookID: "vol-1",
			Title:  "Some Title",
			Shelf:  "finished",
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Book already in library", response.Error)
	})

	t.Run("rejects an unknown shelf", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		router := newTestRouter(1)
		router.POST("/api/books", NewBooksController(repo, nil).SaveBook)

		body, _ := json.Marshal(SaveBookRequest{
			BookID: "vol-1",
			Title:  "Some Title",
			Shelf:  "favourites",
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/books", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooksController_GetBook(t *testing.T) {
	t.Run("returns an owner-scoped record", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		book := saveTestBook(t, repo, 1, "vol-1")

		router := newTestRouter(1)
		router.GET("/api/books/:id", NewBooksController(repo, nil).GetBook)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/"+itoa(book.ID), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("hides other users' records behind 404", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		book := saveTestBook(t, repo, 2, "vol-1")

		router := newTestRouter(1)
		router.GET("/api/books/:id", NewBooksController(repo, nil).GetBook)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/"+itoa(book.ID), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Book not found", response.Error)
	})
}

func TestBooksController_UpdateBook(t *testing.T) {
	t.Run("applies a partial update", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		book := saveTestBook(t, repo, 1, "vol-1")

		router := newTestRouter(1)
		router.PATCH("/api/books/:id", NewBooksController(repo, nil).UpdateBook)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/books/"+itoa(book.ID),
			strings.NewReader(`{"progress": 60, "notes": "good so far"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		updated, err := repo.GetBookForUser(book.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 60, updated.Progress)
		assert.Equal(t, "good so far", updated.Notes)
		assert.Equal(t, entities.ShelfCurrentlyReading, updated.Shelf)
	})

	t.Run("moves a book between shelves", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		book := saveTestBook(t, repo, 1, "vol-1")

		router := newTestRouter(1)
		router.PATCH("/api/books/:id", NewBooksController(repo, nil).UpdateBook)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/books/"+itoa(book.ID),
			strings.NewReader(`{"shelf": "finished"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		updated, err := repo.GetBookForUser(book.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, entities.ShelfFinished, updated.Shelf)
	})

	t.Run("stores out-of-range progress as sent", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		book := saveTestBook(t, repo, 1, "vol-1")

		router := newTestRouter(1)
		router.PATCH("/api/books/:id", NewBooksController(repo, nil).UpdateBook)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/books/"+itoa(book.ID),
			strings.NewReader(`{"progress": 150}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		updated, err := repo.GetBookForUser(book.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 150, updated.Progress)
	})

	t.Run("404 for a record owned by someone else", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		book := saveTestBook(t, repo, 2, "vol-1")

		router := newTestRouter(1)
		router.PATCH("/api/books/:id", NewBooksController(repo, nil).UpdateBook)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/books/"+itoa(book.ID),
			strings.NewReader(`{"progress": 10}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_DeleteBook(t *testing.T) {
	_, repo, cleanup := setupBooksTestDB(t)
	defer cleanup()

	book := saveTestBook(t, repo, 1, "vol-1")

	router := newTestRouter(1)
	router.DELETE("/api/books/:id", NewBooksController(repo, nil).DeleteBook)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/books/"+itoa(book.ID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	_, err := repo.GetBookForUser(book.ID, 1)
	assert.Error(t, err)
}

func TestBooksController_GetBookContent(t *testing.T) {
	t.Run("serves content for a public-domain classic", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		book := &entities.Book{
			UserID:  1,
			BookID:  "vol-classic",
			Title:   "Pride and Prejudice",
			Authors: []string{"Jane Austen"},
			Shelf:   entities.ShelfFinished,
		}
		require.NoError(t, repo.SaveBook(book))

		router := newTestRouter(1)
		router.GET("/api/books/:id/content", NewBooksController(repo, nil).GetBookContent)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/"+itoa(book.ID)+"/content", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "gutenberg", response["source"])
	})

	t.Run("404 for copyrighted titles", func(t *testing.T) {
		_, repo, cleanup := setupBooksTestDB(t)
		defer cleanup()

		book := saveTestBook(t, repo, 1, "vol-modern")

		router := newTestRouter(1)
		router.GET("/api/books/:id/content", NewBooksController(repo, nil).GetBookContent)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books/"+itoa(book.ID)+"/content", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Book content not available for free reading", response.Error)
	})
}
