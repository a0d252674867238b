package service

import (
	"context"
	"errors"
	"fmt"

	"bookshop/internal/metrics"
	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type LikeService interface {
	ToggleCommentLike(ctx context.Context, commentID int64, userID string) (*dto.LikeResult, error)
	SetCommentLike(ctx context.Context, commentID int64, userID string, liked bool) (*dto.LikeResult, error)
	Reconcile(ctx context.Context) (int64, error)
}

type likeService struct {
	repo repository.CommentLikeRepository
}

func NewLikeService(repo repository.CommentLikeRepository) LikeService {
	return &likeService{repo: repo}
}

// ToggleCommentLike likes the comment if the user has not, otherwise unlikes it.
func (s *likeService) ToggleCommentLike(ctx context.Context, commentID int64, userID string) (*dto.LikeResult, error) {
	liked, cached, err := s.repo.Toggle(ctx, commentID, userID)
	if err != nil {
		return nil, likeErr(err)
	}
	countLike(liked, true)
	return &dto.LikeResult{CommentID: commentID, Liked: liked, CachedLike: cached, Changed: true}, nil
}

// SetCommentLike makes the user's membership equal to liked. Repeating the
// same call changes nothing.
func (s *likeService) SetCommentLike(ctx context.Context, commentID int64, userID string, liked bool) (*dto.LikeResult, error) {
	changed, cached, err := s.repo.Set(ctx, commentID, userID, liked)
	if err != nil {
		return nil, likeErr(err)
	}
	countLike(liked, changed)
	return &dto.LikeResult{CommentID: commentID, Liked: liked, CachedLike: cached, Changed: changed}, nil
}

// Reconcile recomputes cached_like for every comment.
func (s *likeService) Reconcile(ctx context.Context) (int64, error) {
	n, err := s.repo.RecountAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile cached_like: %w", err)
	}
	metrics.ReconciledRowsTotal.WithLabelValues("cached_like").Add(float64(n))
	return n, nil
}

func countLike(liked, changed bool) {
	switch {
	case !changed:
		metrics.CommentLikesTotal.WithLabelValues("unchanged").Inc()
	case liked:
		metrics.CommentLikesTotal.WithLabelValues("liked").Inc()
	default:
		metrics.CommentLikesTotal.WithLabelValues("unliked").Inc()
	}
}

func likeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	return err
}
