package models

import "time"

// BookLike is a user's rating of a book; one row per (user, book).
type BookLike struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_book_likes_user_book"`
	BookID    int64     `json:"book_id" gorm:"not null;uniqueIndex:idx_book_likes_user_book;index"`
	Rate      int       `json:"rate" gorm:"not null;default:0;check:rate >= 0 AND rate <= 10"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (BookLike) TableName() string {
	return "book_likes"
}
