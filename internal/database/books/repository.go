// Package books provides database operations for saved book records.
//
// This package implements the BookStore interface defined in
// internal/http/books.go.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	saved, err := repo.GetBooksByUser(userID)
package books

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/booktracker/booktracker/internal/entities"
)

// ErrDuplicate is returned when a user already saved the catalog book.
var ErrDuplicate = errors.New("book already in library")

// Repository handles all saved-book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBooksByUser returns all of a user's saved books, newest first.
func (r *Repository) GetBooksByUser(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&books).Error
	return books, err
}

// GetBookForUser returns a single record scoped to its owner.
func (r *Repository) GetBookForUser(id, userID uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookByID returns a record regardless of owner. Only the sharing
// subsystem should use this; everything else goes through GetBookForUser.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SaveBook inserts a new record. Returns ErrDuplicate when the user already
// has the catalog book on a shelf. The existence check and insert are two
// statements; a concurrent double-submit can slip through, which is
// accepted for this workload.
func (r *Repository) SaveBook(book *entities.Book) error {
	var existing entities.Book
	err := r.db.Where("user_id = ? AND book_id = ?", book.UserID, book.BookID).
		First(&existing).Error
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if book.SavedAt.IsZero() {
		book.SavedAt = time.Now()
	}
	return r.db.Create(book).Error
}

// BookChanges describes a partial update to a saved record. Nil fields
// are left untouched.
type BookChanges struct {
	Progress *int
	Notes    *string
	Shelf    *entities.Shelf
}

// UpdateBook applies the given changes to an owner-scoped record and
// bumps updated_at. Progress is stored as given; no server-side
// clamping is applied. Returns gorm.ErrRecordNotFound when the record
// is absent or not owned.
func (r *Repository) UpdateBook(id, userID uint, changes BookChanges) error {
	updates := map[string]any{
		"updated_at": time.Now(),
	}
	if changes.Progress != nil {
		updates["progress"] = *changes.Progress
	}
	if changes.Notes != nil {
		updates["notes"] = *changes.Notes
	}
	if changes.Shelf != nil {
		updates["shelf"] = *changes.Shelf
	}

	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteBook removes an owner-scoped record.
// Returns gorm.ErrRecordNotFound when the record is absent or not owned.
func (r *Repository) DeleteBook(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Book{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountBooksByUser returns the number of records on a user's shelves.
func (r *Repository) CountBooksByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
