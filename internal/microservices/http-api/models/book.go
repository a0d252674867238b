package models

import "time"

type Book struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:50;not null;index"`
	Slug        string    `json:"slug" gorm:"size:80;not null;uniqueIndex"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	PublishDate time.Time `json:"publish_date" gorm:"autoCreateTime"`
	// mean of Likes[].Rate, maintained by the rating repository
	CachedRate float64 `json:"cached_rate" gorm:"type:decimal(4,2);not null;default:0"`

	// associations
	Authors  []User     `json:"authors,omitempty" gorm:"many2many:book_authors;constraint:OnDelete:CASCADE;"`
	Genres   []Genre    `json:"genres,omitempty" gorm:"many2many:book_genres;constraint:OnDelete:CASCADE;"`
	Comments []Comment  `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
	Likes    []BookLike `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}

// HasAuthor reports whether userID is among the preloaded Authors.
func (b *Book) HasAuthor(userID string) bool {
	for _, a := range b.Authors {
		if a.ID == userID {
			return true
		}
	}
	return false
}
