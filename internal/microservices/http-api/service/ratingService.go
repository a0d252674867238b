package service

import (
	"context"
	"errors"
	"fmt"

	"bookshop/internal/logging"
	"bookshop/internal/metrics"
	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type RatingService interface {
	RateBook(ctx context.Context, userID string, bookID int64, rate int) (*dto.RateResult, error)
	RemoveRating(ctx context.Context, userID string, bookID int64) (cachedRate float64, err error)
	GetUserRating(ctx context.Context, userID string, bookID int64) (*dto.UserRatingResponse, error)
	GetBookRatings(ctx context.Context, bookID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error)
	Reconcile(ctx context.Context) (int64, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	bookRepo   *repository.BookRepo
}

func NewRatingService(ratingRepo repository.RatingRepository, bookRepo *repository.BookRepo) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		bookRepo:   bookRepo,
	}
}

// RateBook records the user's rate for a book and returns the new average.
// Rating the same book again replaces the previous rate.
func (s *ratingService) RateBook(ctx context.Context, userID string, bookID int64, rate int) (*dto.RateResult, error) {
	if rate < MinRate || rate > MaxRate {
		return nil, ErrInvalidRate
	}
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, bookErr(err)
	}

	created, cached, err := s.ratingRepo.Upsert(ctx, userID, bookID, rate)
	if err != nil {
		return nil, fmt.Errorf("rate book: %w", bookErr(err))
	}

	result := "updated"
	if created {
		result = "created"
	}
	metrics.RatingsTotal.WithLabelValues(result).Inc()
	logging.Debug().Str("user_id", userID).Int64("book_id", bookID).Int("rate", rate).
		Float64("cached_rate", cached).Str("result", result).Msg("book rated")

	return &dto.RateResult{BookID: bookID, Rate: rate, CachedRate: cached, Created: created}, nil
}

// RemoveRating deletes the user's rating and returns the new average
func (s *ratingService) RemoveRating(ctx context.Context, userID string, bookID int64) (float64, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return 0, bookErr(err)
	}

	cached, err := s.ratingRepo.Delete(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRatingNotFound
		}
		return 0, err
	}
	metrics.RatingsTotal.WithLabelValues("removed").Inc()
	return cached, nil
}

// GetUserRating retrieves a user's rating for a specific book
func (s *ratingService) GetUserRating(ctx context.Context, userID string, bookID int64) (*dto.UserRatingResponse, error) {
	rating, err := s.ratingRepo.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	return &dto.UserRatingResponse{
		Rate:      rating.Rate,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}, nil
}

// GetBookRatings retrieves all ratings for a book with pagination
func (s *ratingService) GetBookRatings(ctx context.Context, bookID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return nil, bookErr(err)
	}

	ratings, total, err := s.ratingRepo.GetByBook(ctx, bookID, page, pageSize)
	if err != nil {
		return nil, err
	}

	ratingResponses := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		ratingResponses = append(ratingResponses, *dto.FromModelToRatingResponse(&ratings[i]))
	}

	return dto.NewPaginatedRatingResponse(ratingResponses, int(total), page, pageSize), nil
}

// Reconcile recomputes cached_rate for every book.
func (s *ratingService) Reconcile(ctx context.Context) (int64, error) {
	n, err := s.ratingRepo.RecalculateAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconcile cached_rate: %w", err)
	}
	metrics.ReconciledRowsTotal.WithLabelValues("cached_rate").Add(float64(n))
	return n, nil
}
