package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookshop/internal/config"
	"bookshop/internal/logging"
	"bookshop/internal/middleware/auth"
	"bookshop/internal/microservices/http-api/models"
	"bookshop/internal/microservices/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const accessTokenType = "access"

// Claims carried by an access token.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *models.User, err error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	now              func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,  // 15 minutes
		refreshTokenTTL:  cfg.RefreshTokenTTL, // 7 days
		now:              time.Now,
	}
}

func (s *authService) AccessTokenTTL() time.Duration  { return s.accessTokenTTL }
func (s *authService) RefreshTokenTTL() time.Duration { return s.refreshTokenTTL }

// Register creates a new user. email is optional.
func (s *authService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	// Check if user exists
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrNameInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	var emailPtr *string
	if email != "" {
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return nil, ErrEmailInUse
		}
		emailPtr = &email
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    emailPtr,
		Password: hashedPassword,
	}

	// a concurrent registration can still win the unique index
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrNameInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logging.Info().Str("user_id", user.ID).Str("username", username).Msg("user registered")
	return user, nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// dummyPasswordHash is compared against when the user does not exist so that
// both failure paths cost one bcrypt comparison.
func dummyPasswordHash() string {
	dummyHashOnce.Do(func() {
		h, err := auth.HashPassword(uuid.New().String())
		if err == nil {
			dummyHash = h
		}
	})
	return dummyHash
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		_ = auth.VerifyPassword(dummyPasswordHash(), password)
		return "", "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return "", "", nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		logging.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}

	return accessToken, refreshToken, user, nil
}

// Logout revokes the refresh token. Unknown tokens are not an error.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refreshTokenRepo.Revoke(ctx, refreshToken)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: s.now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}

	return refreshToken.Token, nil
}

func (s *authService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		return "", ErrInvalidToken
	}

	if s.now().After(refreshToken.ExpiresAt) {
		if err := s.refreshTokenRepo.Delete(ctx, refreshToken.ID); err != nil {
			logging.Warn().Err(err).Msg("failed to delete expired refresh token")
		}
		return "", ErrExpiredToken
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return "", ErrInvalidToken
	}

	return s.generateAccessToken(user)
}

// ValidateToken parses an access token and returns its claims.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.TokenType != accessTokenType || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
