package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/booktracker/booktracker/internal/audit"
	"github.com/booktracker/booktracker/internal/entities"
)

// RecommendationStore abstracts recommendation persistence.
// Implemented by recommendations.Repository.
type RecommendationStore interface {
	Upsert(rec *entities.Recommendation) error
	GetForBook(bookID, userID uint) (*entities.Recommendation, error)
}

// SharedBookStore is the subset of book persistence the share pages
// need, including the cross-owner lookup for public links.
type SharedBookStore interface {
	GetBookByID(id uint) (*entities.Book, error)
	GetBookForUser(id, userID uint) (*entities.Book, error)
}

// UserLookup resolves record owners for the public shared view.
// Implemented by database.Database.
type UserLookup interface {
	GetUserByID(id uint) (*entities.User, error)
}

// ShareController handles recommendation submission and the public
// shared-book view.
type ShareController struct {
	books           SharedBookStore
	recommendations RecommendationStore
	users           UserLookup
	auditor         *audit.Service
}

// NewShareController creates a share controller. auditor may be nil.
func NewShareController(books SharedBookStore, recommendations RecommendationStore, users UserLookup, auditor *audit.Service) *ShareController {
	return &ShareController{
		books:           books,
		recommendations: recommendations,
		users:           users,
		auditor:         auditor,
	}
}

// RecommendationRequest attaches a rating and message to a saved book.
type RecommendationRequest struct {
	BookID  uint   `json:"bookId" binding:"required"`
	Rating  int    `json:"rating"`
	Message string `json:"message"`
}

// SharedBy identifies the sharing user on the public view.
type SharedBy struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// SharedRecommendation is the public slice of a recommendation.
type SharedRecommendation struct {
	Rating    int       `json:"rating"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// SharedBookResponse is the reduced public view of a saved book.
type SharedBookResponse struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	Authors        []string              `json:"authors"`
	Description    string                `json:"description"`
	Thumbnail      string                `json:"thumbnail"`
	PageCount      int                   `json:"pageCount"`
	PublishedDate  string                `json:"publishedDate"`
	Publisher      string                `json:"publisher"`
	Shelf          entities.Shelf        `json:"shelf"`
	Progress       int                   `json:"progress"`
	SharedBy       SharedBy              `json:"sharedBy"`
	Recommendation *SharedRecommendation `json:"recommendation"`
}

// SaveRecommendation creates or overwrites the user's recommendation for
// one of their saved books.
// POST /api/share/recommendation
func (sc *ShareController) SaveRecommendation(c *gin.Context) {
	userID := GetUserID(c)

	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		respondBadRequest(c, "rating must be between 0 and 5")
		return
	}

	if _, err := sc.books.GetBookForUser(req.BookID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Book")
			return
		}
		respondInternalError(c, err, "save recommendation")
		return
	}

	rec := &entities.Recommendation{
		BookID:  req.BookID,
		UserID:  userID,
		Rating:  req.Rating,
		Message: req.Message,
	}
	if err := sc.recommendations.Upsert(rec); err != nil {
		respondInternalError(c, err, "save recommendation")
		return
	}

	if sc.auditor != nil {
		sc.auditor.LogShare(userID, req.BookID, req.Rating, nil)
	}
	respondSuccess(c)
}

// GetSharedBook returns the public view of a saved book for share
// links. No authentication required; only the reduced field set and the
// owner's public name are exposed.
// GET /api/shared/book/:id
func (sc *ShareController) GetSharedBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := sc.books.GetBookByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "Book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "shared book")
		return
	}

	sharedBy := SharedBy{Name: "Anonymous Reader"}
	if owner, err := sc.users.GetUserByID(book.UserID); err == nil {
		sharedBy.Name = owner.PublicName()
		sharedBy.Avatar = owner.AvatarURL
	}

	response := SharedBookResponse{
		ID:            book.ID,
		Title:         book.Title,
		Authors:       book.Authors,
		Description:   book.Description,
		Thumbnail:     book.Thumbnail,
		PageCount:     book.PageCount,
		PublishedDate: book.PublishedDate,
		Publisher:     book.Publisher,
		Shelf:         book.Shelf,
		Progress:      book.Progress,
		SharedBy:      sharedBy,
	}
	if response.Authors == nil {
		response.Authors = []string{}
	}

	rec, err := sc.recommendations.GetForBook(book.ID, book.UserID)
	if err != nil {
		respondInternalError(c, err, "shared book")
		return
	}
	if rec != nil {
		response.Recommendation = &SharedRecommendation{
			Rating:    rec.Rating,
			Message:   rec.Message,
			CreatedAt: rec.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}
