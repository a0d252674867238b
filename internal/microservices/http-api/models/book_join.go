package models

// explicit join models for the book many2many associations
type BookGenre struct {
	BookID  int64 `json:"book_id" gorm:"primaryKey"`
	GenreID int64 `json:"genre_id" gorm:"primaryKey"`
}

func (BookGenre) TableName() string {
	return "book_genres"
}

type BookAuthor struct {
	BookID int64  `json:"book_id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"primaryKey;type:uuid"`
}

func (BookAuthor) TableName() string {
	return "book_authors"
}
