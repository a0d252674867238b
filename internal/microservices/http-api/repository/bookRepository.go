package repository

import (
	"context"
	"fmt"

	"bookshop/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepo struct {
	db *gorm.DB
}

func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{db: db}
}

// GetAll returns one page of books, newest first.
func (r *BookRepo) GetAll(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	// Count total records
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Authors").
		Order("publish_date desc, id desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *BookRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).Preload("Genres").Preload("Authors").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookRepo) GetBySlug(ctx context.Context, slug string) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Authors").
		Where("slug = ?", slug).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts the book together with its author and genre join rows.
func (r *BookRepo) Create(ctx context.Context, b *models.Book, authorIDs []string, genreIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(b).Error; err != nil {
			return translateError(err)
		}
		for _, uid := range authorIDs {
			if err := tx.Create(&models.BookAuthor{BookID: b.ID, UserID: uid}).Error; err != nil {
				return err
			}
		}
		return insertGenres(tx, b.ID, genreIDs)
	})
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	// GORM will populate b.ID and b.PublishDate
	return nil
}

// Update sets title and text. A nil genreIDs keeps the current genres,
// anything else replaces them.
func (r *BookRepo) Update(ctx context.Context, id int64, title, text string, genreIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title": title,
			"text":  text,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if genreIDs == nil {
			return nil
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.BookGenre{}).Error; err != nil {
			return err
		}
		return insertGenres(tx, id, genreIDs)
	})
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func insertGenres(tx *gorm.DB, bookID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	rows := make([]models.BookGenre, 0, len(genreIDs))
	seen := make(map[int64]bool, len(genreIDs))
	for _, gid := range genreIDs {
		if seen[gid] {
			continue
		}
		seen[gid] = true
		rows = append(rows, models.BookGenre{BookID: bookID, GenreID: gid})
	}
	return tx.Create(&rows).Error
}

// Delete removes the book and everything hanging off it in one transaction.
func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM comment_likes WHERE comment_id IN (SELECT id FROM comments WHERE book_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.BookLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.BookGenre{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.BookAuthor{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Book{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func (r *BookRepo) IsAuthor(ctx context.Context, bookID int64, userID string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookAuthor{}).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check book author: %w", err)
	}
	return n > 0, nil
}

func (r *BookRepo) GetGenresByBook(ctx context.Context, bookID int64) ([]models.Genre, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).Preload("Genres").First(&b, bookID).Error; err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return b.Genres, nil
}
