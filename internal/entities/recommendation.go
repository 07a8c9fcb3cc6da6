package entities

import "time"

// Recommendation is a rating and message a user attaches to a saved book
// for the public share page. A user keeps at most one recommendation per
// saved record; resubmitting overwrites the previous one.
type Recommendation struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	BookID    uint      `gorm:"index" json:"bookId"`
	UserID    uint      `gorm:"index" json:"-"`
	Rating    int       `json:"rating"` // 0-5
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
