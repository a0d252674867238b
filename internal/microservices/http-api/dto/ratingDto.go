package dto

import (
	"time"

	"bookshop/internal/microservices/http-api/models"
)

// AjaxRateForm for add_book_rate_ajax. Rate is a pointer so that 0 passes
// the required check.
type AjaxRateForm struct {
	BookID int64 `form:"book_id" json:"book_id" binding:"required,gt=0"`
	Rate   *int  `form:"rate" json:"rate" binding:"required,min=0,max=10"`
}

// RateResult is returned after a rating is stored
type RateResult struct {
	BookID     int64   `json:"book_id"`
	Rate       int     `json:"rate"`
	CachedRate float64 `json:"cached_rate"`
	Created    bool    `json:"created"`
}

// RatingResponse for returning rating information (for list view - without IDs)
type RatingResponse struct {
	Username  string    `json:"username"`
	Rate      int       `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a BookLike model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.BookLike) *RatingResponse {
	return &RatingResponse{
		Username:  rating.User.Username,
		Rate:      rating.Rate,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

// UserRatingResponse for returning user's own rating
type UserRatingResponse struct {
	Rate      int       `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaginatedRatingResponse for returning paginated ratings
type PaginatedRatingResponse struct {
	Data       []RatingResponse `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// NewPaginatedRatingResponse creates a paginated rating response
func NewPaginatedRatingResponse(data []RatingResponse, total, page, pageSize int) *PaginatedRatingResponse {
	return &PaginatedRatingResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
}
