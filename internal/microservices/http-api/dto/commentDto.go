package dto

import (
	"time"

	"bookshop/internal/microservices/http-api/models"
)

// CommentForm for add_comment and update_comment
type CommentForm struct {
	Text string `form:"text" json:"text" binding:"required,notblank,max=5000"`
}

// AjaxCommentForm for add_new_comment_ajax
type AjaxCommentForm struct {
	BookID int64  `form:"book_id" json:"book_id" binding:"required,gt=0"`
	Text   string `form:"text" json:"text" binding:"required,notblank,max=5000"`
}

// AjaxLikeForm for add_like_ajax
type AjaxLikeForm struct {
	CommentID int64 `form:"comment_id" json:"comment_id" binding:"required,gt=0"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"book_id"`
	Username   string    `json:"username"`
	Text       string    `json:"text"`
	Date       time.Time `json:"date"`
	CachedLike int64     `json:"cached_like"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:         comment.ID,
		BookID:     comment.BookID,
		Username:   comment.User.Username,
		Text:       comment.Text,
		Date:       comment.Date,
		CachedLike: comment.CachedLike,
	}
}

// LikeResult reports the membership after a like operation. Changed is false
// when the request matched the current state.
type LikeResult struct {
	CommentID  int64 `json:"comment_id"`
	Liked      bool  `json:"liked"`
	CachedLike int64 `json:"cached_like"`
	Changed    bool  `json:"changed"`
}

// PaginatedCommentResponse for returning paginated comments
type PaginatedCommentResponse struct {
	Data       []CommentResponse `json:"data"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
}

// NewPaginatedCommentResponse creates a paginated comment response
func NewPaginatedCommentResponse(data []CommentResponse, total, page, pageSize int) *PaginatedCommentResponse {
	return &PaginatedCommentResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
}
