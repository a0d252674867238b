package handler

import (
	"context"
	"os"
	"testing"
	"time"

	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/models"
	"bookshop/internal/microservices/http-api/service"
	"bookshop/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) List(ctx context.Context, page, pageSize int) (*dto.PaginatedBookResponse, error) {
	args := m.Called(page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedBookResponse), args.Error(1)
}

func (m *MockBookService) GetBySlug(ctx context.Context, slug string) (*models.Book, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Create(ctx context.Context, authorID string, form dto.BookForm) (*models.Book, error) {
	args := m.Called(authorID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, slug, userID string, form dto.BookForm) (*models.Book, error) {
	args := m.Called(slug, userID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id int64, userID string) error {
	return m.Called(id, userID).Error(0)
}

func (m *MockBookService) ListByGenre(ctx context.Context, genreID int64) ([]models.Book, error) {
	args := m.Called(genreID)
	return args.Get(0).([]models.Book), args.Error(1)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) RateBook(ctx context.Context, userID string, bookID int64, rate int) (*dto.RateResult, error) {
	args := m.Called(userID, bookID, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RateResult), args.Error(1)
}

func (m *MockRatingService) RemoveRating(ctx context.Context, userID string, bookID int64) (float64, error) {
	args := m.Called(userID, bookID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRatingService) GetUserRating(ctx context.Context, userID string, bookID int64) (*dto.UserRatingResponse, error) {
	args := m.Called(userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserRatingResponse), args.Error(1)
}

func (m *MockRatingService) GetBookRatings(ctx context.Context, bookID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	args := m.Called(bookID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedRatingResponse), args.Error(1)
}

func (m *MockRatingService) Reconcile(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type MockLikeService struct {
	mock.Mock
}

func (m *MockLikeService) ToggleCommentLike(ctx context.Context, commentID int64, userID string) (*dto.LikeResult, error) {
	args := m.Called(commentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResult), args.Error(1)
}

func (m *MockLikeService) SetCommentLike(ctx context.Context, commentID int64, userID string, liked bool) (*dto.LikeResult, error) {
	args := m.Called(commentID, userID, liked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LikeResult), args.Error(1)
}

func (m *MockLikeService) Reconcile(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) CreateComment(ctx context.Context, userID string, bookID int64, text string) (*dto.CommentResponse, error) {
	args := m.Called(userID, bookID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) UpdateComment(ctx context.Context, commentID int64, userID string, text string) (*dto.CommentResponse, error) {
	args := m.Called(commentID, userID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) DeleteComment(ctx context.Context, commentID int64, userID string) (int64, error) {
	args := m.Called(commentID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentService) GetCommentByID(ctx context.Context, commentID int64) (*dto.CommentResponse, error) {
	args := m.Called(commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) GetBookComments(ctx context.Context, bookID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	args := m.Called(bookID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedCommentResponse), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	args := m.Called(username, password, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	args := m.Called(username, password)
	user, _ := args.Get(2).(*models.User)
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(refreshToken).Error(0)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) AccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (m *MockAuthService) RefreshTokenTTL() time.Duration { return 24 * time.Hour }

// asUser stands in for middleware.Authenticate
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
			c.Set("username", "user-"+userID)
		}
		c.Next()
	}
}
