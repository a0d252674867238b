package models

import "time"

// CommentLike marks that a user likes a comment. Presence of the row is the
// liked state.
type CommentLike struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CommentID int64     `json:"comment_id" gorm:"not null;uniqueIndex:idx_comment_likes_comment_user;index"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
