package service

import (
	"context"
	"errors"
	"fmt"

	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/models"
	"bookshop/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID string, bookID int64, text string) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, commentID int64, userID string, text string) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID int64, userID string) (bookID int64, err error)
	GetCommentByID(ctx context.Context, commentID int64) (*dto.CommentResponse, error)
	GetBookComments(ctx context.Context, bookID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	bookRepo    *repository.BookRepo
}

func NewCommentService(commentRepo repository.CommentRepository, bookRepo *repository.BookRepo) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		bookRepo:    bookRepo,
	}
}

// CreateComment creates a new comment for a book
func (s *commentService) CreateComment(ctx context.Context, userID string, bookID int64, text string) (*dto.CommentResponse, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, bookErr(err)
	}

	comment := &models.Comment{
		UserID: userID,
		BookID: bookID,
		Text:   text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	// Reload with user data
	return s.GetCommentByID(ctx, comment.ID)
}

// UpdateComment replaces the text of a comment owned by userID
func (s *commentService) UpdateComment(ctx context.Context, commentID int64, userID string, text string) (*dto.CommentResponse, error) {
	if _, err := s.owned(ctx, commentID, userID); err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateText(ctx, commentID, text); err != nil {
		return nil, commentErr(err)
	}
	return s.GetCommentByID(ctx, commentID)
}

// DeleteComment deletes a comment owned by userID and returns its book id
func (s *commentService) DeleteComment(ctx context.Context, commentID int64, userID string) (int64, error) {
	comment, err := s.owned(ctx, commentID, userID)
	if err != nil {
		return 0, err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return 0, commentErr(err)
	}
	return comment.BookID, nil
}

func (s *commentService) owned(ctx context.Context, commentID int64, userID string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, commentErr(err)
	}
	if comment.UserID != userID {
		return nil, ErrNotCommentOwner
	}
	return comment, nil
}

// GetCommentByID retrieves a comment by ID
func (s *commentService) GetCommentByID(ctx context.Context, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, commentErr(err)
	}
	return dto.FromModelToCommentResponse(comment), nil
}

// GetBookComments retrieves all comments for a book with pagination
func (s *commentService) GetBookComments(ctx context.Context, bookID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	comments, total, err := s.commentRepo.GetByBook(ctx, bookID, page, pageSize)
	if err != nil {
		return nil, err
	}

	commentResponses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		commentResponses = append(commentResponses, *dto.FromModelToCommentResponse(&comments[i]))
	}

	return dto.NewPaginatedCommentResponse(commentResponses, int(total), page, pageSize), nil
}

func commentErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	return err
}
