package repository

import (
	"context"
	"fmt"

	"bookshop/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type GenreRepo struct {
	db *gorm.DB
}

func NewGenreRepo(db *gorm.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

func (r *GenreRepo) GetAll(ctx context.Context) ([]models.Genre, error) {
	var list []models.Genre
	if err := r.db.WithContext(ctx).Order("title asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get genres: %w", err)
	}
	return list, nil
}

func (r *GenreRepo) Create(ctx context.Context, g *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}

// GetByIDs returns the genres that exist among ids.
func (r *GenreRepo) GetByIDs(ctx context.Context, ids []int64) ([]models.Genre, error) {
	var list []models.Genre
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get genres by id: %w", err)
	}
	return list, nil
}

// GetBooksByGenre returns books associated with the given genre id.
// Preloads Genres on each book.
func (r *GenreRepo) GetBooksByGenre(ctx context.Context, genreID int64) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Joins("JOIN book_genres bg ON bg.book_id = books.id").
		Where("bg.genre_id = ?", genreID).
		Preload("Genres").
		Order("books.publish_date desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get books by genre: %w", err)
	}
	return list, nil
}
