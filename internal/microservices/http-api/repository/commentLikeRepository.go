package repository

import (
	"context"

	"bookshop/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const recountCommentLikesSQL = `UPDATE comments SET cached_like = (
	SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id
)`

// CommentLikeRepository keeps comment_likes membership and comments.cached_like
// in step.
type CommentLikeRepository interface {
	Set(ctx context.Context, commentID int64, userID string, liked bool) (changed bool, cachedLike int64, err error)
	Toggle(ctx context.Context, commentID int64, userID string) (liked bool, cachedLike int64, err error)
	Exists(ctx context.Context, commentID int64, userID string) (bool, error)
	RecountAll(ctx context.Context) (int64, error)
}

type commentLikeRepository struct {
	db *gorm.DB
}

func NewCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &commentLikeRepository{db: db}
}

func (r *commentLikeRepository) Set(ctx context.Context, commentID int64, userID string, liked bool) (bool, int64, error) {
	var changed bool
	var cached int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureComment(tx, commentID); err != nil {
			return err
		}
		var err error
		changed, cached, err = setLike(tx, commentID, userID, liked)
		return err
	})
	return changed, cached, err
}

// Toggle flips the user's membership, reading the current state inside the
// transaction.
func (r *commentLikeRepository) Toggle(ctx context.Context, commentID int64, userID string) (bool, int64, error) {
	var liked bool
	var cached int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureComment(tx, commentID); err != nil {
			return err
		}
		current, err := likeExists(tx, commentID, userID)
		if err != nil {
			return err
		}
		liked = !current
		_, cached, err = setLike(tx, commentID, userID, liked)
		return err
	})
	return liked, cached, err
}

func (r *commentLikeRepository) Exists(ctx context.Context, commentID int64, userID string) (bool, error) {
	return likeExists(r.db.WithContext(ctx), commentID, userID)
}

// RecountAll rewrites cached_like for every comment from comment_likes.
func (r *commentLikeRepository) RecountAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(recountCommentLikesSQL)
	return res.RowsAffected, res.Error
}

func ensureComment(tx *gorm.DB, commentID int64) error {
	var n int64
	if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func likeExists(db *gorm.DB, commentID int64, userID string) (bool, error) {
	var n int64
	if err := db.Model(&models.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// setLike moves the counter only when a row was actually inserted or deleted.
func setLike(tx *gorm.DB, commentID int64, userID string, liked bool) (bool, int64, error) {
	var affected int64
	var delta interface{}
	if liked {
		res := tx.Omit("User").Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CommentLike{CommentID: commentID, UserID: userID})
		if res.Error != nil {
			return false, 0, res.Error
		}
		affected = res.RowsAffected
		delta = gorm.Expr("cached_like + ?", 1)
	} else {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
		if res.Error != nil {
			return false, 0, res.Error
		}
		affected = res.RowsAffected
		delta = gorm.Expr("CASE WHEN cached_like > 0 THEN cached_like - 1 ELSE 0 END")
	}

	if affected > 0 {
		if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumn("cached_like", delta).Error; err != nil {
			return false, 0, err
		}
	}

	var counts []int64
	if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).Pluck("cached_like", &counts).Error; err != nil {
		return false, 0, err
	}
	if len(counts) == 0 {
		return false, 0, gorm.ErrRecordNotFound
	}
	return affected > 0, counts[0], nil
}
