package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/booktracker/booktracker/internal/audit"
	"github.com/booktracker/booktracker/internal/catalog"
	"github.com/booktracker/booktracker/internal/database/books"
	"github.com/booktracker/booktracker/internal/entities"
	"github.com/booktracker/booktracker/internal/reader"
)

// BookStore abstracts saved-book persistence for the books controller.
// Implemented by books.Repository.
type BookStore interface {
	GetBooksByUser(userID uint) ([]entities.Book, error)
	GetBookForUser(id, userID uint) (*entities.Book, error)
	SaveBook(book *entities.Book) error
	UpdateBook(id, userID uint, changes books.BookChanges) error
	DeleteBook(id, userID uint) error
}

// BooksController handles the per-user book shelf API.
type BooksController struct {
	store   BookStore
	auditor *audit.Service
}

// NewBooksController creates a books controller. auditor may be nil when
// audit logging is disabled.
func NewBooksController(store BookStore, auditor *audit.Service) *BooksController {
	return &BooksController{store: store, auditor: auditor}
}

// SaveBookRequest is the payload for adding a catalog book to a shelf.
type SaveBookRequest struct {
	BookID        string   `json:"bookId" binding:"required"`
	Title         string   `json:"title" binding:"required"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	Thumbnail     string   `json:"thumbnail"`
	PageCount     int      `json:"pageCount"`
	PublishedDate string   `json:"publishedDate"`
	Publisher     string   `json:"publisher"`
	Shelf         string   `json:"shelf" binding:"required"`
	Progress      int      `json:"progress"`
}

// UpdateBookRequest is the payload for a partial record update. Absent
// fields are left untouched.
type UpdateBookRequest struct {
	Progress *int    `json:"progress"`
	Notes    *string `json:"notes"`
	Shelf    *string `json:"shelf"`
}

// ListBooks returns all of the user's saved books, newest first.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	userID := GetUserID(c)

	saved, err := bc.store.GetBooksByUser(userID)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if saved == nil {
		saved = []entities.Book{}
	}

	c.JSON(http.StatusOK, saved)
}

// SaveBook adds a catalog book to one of the user's shelves.
// POST /api/books
func (bc *BooksController) SaveBook(c *gin.Context) {
	userID := GetUserID(c)

	var req SaveBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	shelf := entities.Shelf(req.Shelf)
	if !shelf.Valid() {
		respondBadRequest(c, "invalid shelf")
		return
	}

	book := &entities.Book{
		UserID:        userID,
		BookID:        req.BookID,
		Title:         req.Title,
		Authors:       req.Authors,
		Description:   req.Description,
		Thumbnail:     catalog.SecureURL(req.Thumbnail),
		PageCount:     req.PageCount,
		PublishedDate: req.PublishedDate,
		Publisher:     req.Publisher,
		Shelf:         shelf,
		Progress:      req.Progress,
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}

	err := bc.store.SaveBook(book)
	if errors.Is(err, books.ErrDuplicate) {
		respondConflict(c, "Book already in library")
		return
	}
	if err != nil {
		respondInternalError(c, err, "save book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogSave(userID, book.ID, book.Title, book.Shelf, nil)
	}
	c.JSON(http.StatusCreated, book)
}

// GetBook returns a single owner-scoped record.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookForUser(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "Book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// UpdateBook applies a partial update to progress, notes, or shelf.
// Progress is stored as sent; values outside 0-100 are not clamped.
// PATCH /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	changes := books.BookChanges{
		Progress: req.Progress,
		Notes:    req.Notes,
	}
	if req.Shelf != nil {
		shelf := entities.Shelf(*req.Shelf)
		if !shelf.Valid() {
			respondBadRequest(c, "invalid shelf")
			return
		}
		changes.Shelf = &shelf
	}

	err := bc.store.UpdateBook(id, userID, changes)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "Book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogUpdate(userID, id, describeChanges(changes), nil)
	}
	respondSuccess(c)
}

// DeleteBook removes an owner-scoped record.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookForUser(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "Book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	if err := bc.store.DeleteBook(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogDelete(userID, id, book.Title)
	}
	respondSuccess(c)
}

// GetBookContent serves in-app reading content for public-domain
// classics. Copyrighted titles return 404 so the client falls back to
// external source links.
// GET /api/books/:id/content
func (bc *BooksController) GetBookContent(c *gin.Context) {
	userID := GetUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookForUser(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "Book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "book content")
		return
	}

	content := reader.ContentFor(book)
	if content == nil {
		respondError(c, http.StatusNotFound, "Book content not available for free reading")
		return
	}

	c.JSON(http.StatusOK, content)
}

func describeChanges(changes books.BookChanges) string {
	desc := "Updated"
	if changes.Progress != nil {
		desc += fmt.Sprintf(" progress to %d%%", *changes.Progress)
	}
	if changes.Notes != nil {
		desc += " notes"
	}
	if changes.Shelf != nil {
		desc += " shelf to " + string(*changes.Shelf)
	}
	return desc
}
