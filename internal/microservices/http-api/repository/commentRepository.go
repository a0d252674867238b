package repository

import (
	"context"

	"bookshop/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	UpdateText(ctx context.Context, commentID int64, text string) error
	Delete(ctx context.Context, commentID int64) error
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create a new comment
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("User").Create(comment).Error
}

func (r *commentRepository) UpdateText(ctx context.Context, commentID int64, text string) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", commentID).Update("text", text)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete a comment along with its likes
func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Comment{}, commentID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// GetByID retrieves a comment by its ID
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Where("id = ?", commentID).
		Preload("User").
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByBook retrieves all comments for a specific book with pagination
func (r *commentRepository) GetByBook(ctx context.Context, bookID int64, page, pageSize int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("book_id = ?", bookID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID).
		Preload("User").
		Order("date DESC, id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&comments).Error

	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}
