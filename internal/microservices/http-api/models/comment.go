package models

import "time"

type Comment struct {
	ID     int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID string    `json:"user_id" gorm:"type:uuid;not null;index"`
	BookID int64     `json:"book_id" gorm:"not null;index"`
	Text   string    `json:"text" gorm:"not null;type:text"`
	Date   time.Time `json:"date" gorm:"autoCreateTime"`
	// number of Likes rows, maintained by the comment-like repository
	CachedLike int64 `json:"cached_like" gorm:"not null;default:0"`

	// associations
	User  User          `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Likes []CommentLike `json:"-" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;"`
}

func (Comment) TableName() string {
	return "comments"
}
