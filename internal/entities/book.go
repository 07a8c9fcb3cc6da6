package entities

import (
	"time"

	"gorm.io/gorm"
)

type Shelf string

const (
	ShelfWantToRead       Shelf = "want-to-read"
	ShelfCurrentlyReading Shelf = "currently-reading"
	ShelfFinished         Shelf = "finished"
)

// Valid reports whether the shelf is one of the three known values.
func (s Shelf) Valid() bool {
	switch s {
	case ShelfWantToRead, ShelfCurrentlyReading, ShelfFinished:
		return true
	}
	return false
}

// Book is a catalog book saved to one of a user's shelves. The catalog
// metadata fields are a snapshot taken at save time and never refreshed.
type Book struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"-"`

	// BookID is the external catalog volume identifier. A user may save
	// each catalog book at most once; this is checked before insert, not
	// enforced by the schema.
	BookID string `gorm:"index;size:64" json:"bookId"`

	Title         string   `gorm:"size:512" json:"title"`
	Authors       []string `gorm:"serializer:json" json:"authors"`
	Description   string   `gorm:"type:text" json:"description,omitempty"`
	Thumbnail     string   `gorm:"size:2048" json:"thumbnail,omitempty"`
	PageCount     int      `json:"pageCount,omitempty"`
	PublishedDate string   `gorm:"size:64" json:"publishedDate,omitempty"`
	Publisher     string   `gorm:"size:256" json:"publisher,omitempty"`

	Shelf Shelf `gorm:"index;size:32" json:"shelf"`

	// Progress is a user-set percentage. It is intentionally not clamped
	// and has no enforced relationship to Shelf.
	Progress int    `json:"progress"`
	Notes    string `gorm:"type:text" json:"notes"`

	SavedAt   time.Time      `gorm:"index" json:"savedAt"`
	UpdatedAt time.Time      `json:"updatedAt,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Book) TableName() string {
	return "books"
}
