// Package recommendations provides database operations for shared-book
// recommendations, keyed by (saved record id, owner).
package recommendations

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/booktracker/booktracker/internal/entities"
)

// Repository handles all recommendation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new recommendations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates the user's recommendation for a saved record, or
// overwrites the existing one. CreatedAt survives overwrites.
func (r *Repository) Upsert(rec *entities.Recommendation) error {
	var existing entities.Recommendation
	err := r.db.Where("book_id = ? AND user_id = ?", rec.BookID, rec.UserID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec.CreatedAt = time.Now()
		rec.UpdatedAt = rec.CreatedAt
		return r.db.Create(rec).Error
	}
	if err != nil {
		return err
	}

	existing.Rating = rec.Rating
	existing.Message = rec.Message
	existing.UpdatedAt = time.Now()
	if err := r.db.Save(&existing).Error; err != nil {
		return err
	}
	*rec = existing
	return nil
}

// GetForBook returns the recommendation a user attached to a saved record,
// or nil when there is none.
func (r *Repository) GetForBook(bookID, userID uint) (*entities.Recommendation, error) {
	var rec entities.Recommendation
	err := r.db.Where("book_id = ? AND user_id = ?", bookID, userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
