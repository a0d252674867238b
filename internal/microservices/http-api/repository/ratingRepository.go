package repository

import (
	"context"
	"time"

	"bookshop/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const recomputeBookRateSQL = `UPDATE books SET cached_rate = (
	SELECT ROUND(COALESCE(AVG(rate), 0), 2) FROM book_likes WHERE book_likes.book_id = books.id
) WHERE id = ?`

const recomputeAllRatesSQL = `UPDATE books SET cached_rate = (
	SELECT ROUND(COALESCE(AVG(rate), 0), 2) FROM book_likes WHERE book_likes.book_id = books.id
)`

type RatingRepository interface {
	Upsert(ctx context.Context, userID string, bookID int64, rate int) (created bool, cachedRate float64, err error)
	Delete(ctx context.Context, userID string, bookID int64) (cachedRate float64, err error)
	GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.BookLike, error)
	GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.BookLike, int64, error)
	RecalculateAll(ctx context.Context) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert stores the user's rate for a book and refreshes books.cached_rate in
// the same transaction. created reports whether this was the user's first
// rating of the book.
func (r *ratingRepository) Upsert(ctx context.Context, userID string, bookID int64, rate int) (bool, float64, error) {
	var created bool
	var cached float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.BookLike{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		like := models.BookLike{UserID: userID, BookID: bookID, Rate: rate, UpdatedAt: time.Now()}
		if err := tx.Omit("User").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "updated_at"}),
		}).Create(&like).Error; err != nil {
			return err
		}

		var err error
		cached, err = recomputeBookRate(tx, bookID)
		return err
	})
	if err != nil {
		return false, 0, err
	}
	return created, cached, nil
}

// Delete removes the user's rating and refreshes books.cached_rate.
func (r *ratingRepository) Delete(ctx context.Context, userID string, bookID int64) (float64, error) {
	var cached float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&models.BookLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var err error
		cached, err = recomputeBookRate(tx, bookID)
		return err
	})
	return cached, err
}

func recomputeBookRate(tx *gorm.DB, bookID int64) (float64, error) {
	if err := tx.Exec(recomputeBookRateSQL, bookID).Error; err != nil {
		return 0, err
	}
	var rates []float64
	if err := tx.Model(&models.Book{}).Where("id = ?", bookID).Pluck("cached_rate", &rates).Error; err != nil {
		return 0, err
	}
	if len(rates) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return rates[0], nil
}

// GetByUserAndBook retrieves a user's rating for a specific book
func (r *ratingRepository) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.BookLike, error) {
	var rating models.BookLike
	err := r.db.WithContext(ctx).Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByBook retrieves all ratings for a specific book with pagination
func (r *ratingRepository) GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.BookLike, int64, error) {
	var ratings []models.BookLike
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.BookLike{}).Where("book_id = ?", bookID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID).
		Preload("User").
		Order("updated_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&ratings).Error

	if err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}

// RecalculateAll rewrites cached_rate for every book from book_likes.
func (r *ratingRepository) RecalculateAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(recomputeAllRatesSQL)
	return res.RowsAffected, res.Error
}
