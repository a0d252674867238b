package repository

import (
	"context"
	"time"

	"bookshop/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// RefreshTokenRepository handles database operations for refresh tokens
type RefreshTokenRepository interface {
	Create(ctx context.Context, refreshToken *models.RefreshToken) error
	FindByToken(ctx context.Context, tokenString string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenString string) error
	Delete(ctx context.Context, tokenID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, refreshToken *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(refreshToken).Error
}

// FindByToken looks up a refresh token that has not been revoked
func (r *refreshTokenRepository) FindByToken(ctx context.Context, tokenString string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ? AND revoked = ?", tokenString, false).First(&refreshToken).Error; err != nil {
		return nil, err
	}
	return &refreshToken, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, tokenString string) error {
	return r.db.WithContext(ctx).Model(&models.RefreshToken{}).Where("token = ?", tokenString).Update("revoked", true).Error
}

func (r *refreshTokenRepository) Delete(ctx context.Context, tokenID string) error {
	return r.db.WithContext(ctx).Where("id = ?", tokenID).Delete(&models.RefreshToken{}).Error
}

// DeleteExpired removes expired and revoked tokens; run by the cleanup job.
func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ? OR revoked = ?", now, true).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
