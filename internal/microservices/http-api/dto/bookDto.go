package dto

import (
	"time"

	"bookshop/internal/microservices/http-api/models"
)

// BookForm is posted by add_book, update_book and add_new_book_ajax.
// A missing genre list on update keeps the book's genres.
type BookForm struct {
	Title string  `form:"title" json:"title" binding:"required,notblank,max=50"`
	Text  string  `form:"text" json:"text" binding:"required,notblank"`
	Genre []int64 `form:"genre" json:"genre" binding:"omitempty,dive,gt=0"`
}

type BookResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Text        string          `json:"text"`
	PublishDate time.Time       `json:"publish_date"`
	CachedRate  float64         `json:"cached_rate"`
	Authors     []string        `json:"authors"`
	Genres      []GenreResponse `json:"genres"`
}

func BookFromModel(b *models.Book) BookResponse {
	authors := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		authors = append(authors, a.Username)
	}
	genres := make([]GenreResponse, 0, len(b.Genres))
	for _, g := range b.Genres {
		genres = append(genres, GenreFromModel(g))
	}
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Text:        b.Text,
		PublishDate: b.PublishDate,
		CachedRate:  b.CachedRate,
		Authors:     authors,
		Genres:      genres,
	}
}

// BookDetailResponse backs the book page: the book, the first page of its
// comments and the viewer's own rate when logged in.
type BookDetailResponse struct {
	Book     BookResponse             `json:"book"`
	Comments PaginatedCommentResponse `json:"comments"`
	UserRate *int                     `json:"user_rate,omitempty"`
}

// PaginatedBookResponse for the book listing
type PaginatedBookResponse struct {
	Data       []BookResponse `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

func NewPaginatedBookResponse(data []BookResponse, total, page, pageSize int) *PaginatedBookResponse {
	return &PaginatedBookResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}
