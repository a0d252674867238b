package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookshop/internal/microservices/http-api/models"
	"bookshop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService only needs ValidateToken for these tests
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	args := m.Called(username, password, email)
	return nil, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	args := m.Called(username, password)
	return args.String(0), args.String(1), nil, args.Error(3)
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
func (m *MockAuthService) RefreshTokenTTL() time.Duration { return time.Hour }

func setupRouter(mockAuth *MockAuthService, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(mockAuth))
	r.GET("/shop/add_rate/:rate/:book_id", guard, func(c *gin.Context) {
		id, _ := UserID(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestAuthenticate_Cookie(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("ValidateToken", "good").Return(&service.Claims{UserID: "u1", Username: "ann"}, nil)
	r := setupRouter(mockAuth, RequireLogin())

	req := httptest.NewRequest(http.MethodGet, "/shop/add_rate/7/1", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "good"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("ValidateToken", "good").Return(&service.Claims{UserID: "u1"}, nil)
	r := setupRouter(mockAuth, RequireLoginJSON())

	req := httptest.NewRequest(http.MethodGet, "/shop/add_rate/7/1", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireLogin_RedirectsWithNext(t *testing.T) {
	mockAuth := new(MockAuthService)
	mockAuth.On("ValidateToken", "bad").Return(nil, service.ErrInvalidToken)
	r := setupRouter(mockAuth, RequireLogin())

	req := httptest.NewRequest(http.MethodGet, "/shop/add_rate/7/1", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "bad"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/shop/login/?next=%2Fshop%2Fadd_rate%2F7%2F1", w.Header().Get("Location"))
}

func TestRequireLoginJSON_Unauthorized(t *testing.T) {
	r := setupRouter(new(MockAuthService), RequireLoginJSON())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shop/add_rate/7/1", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"authentication required"}`, w.Body.String())
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/shop/book/x", SafeRedirect("/shop/book/x", "/shop/hello/"))
	assert.Equal(t, "/shop/hello/", SafeRedirect("https://evil.test", "/shop/hello/"))
	assert.Equal(t, "/shop/hello/", SafeRedirect("//evil.test", "/shop/hello/"))
	assert.Equal(t, "/shop/hello/", SafeRedirect("", "/shop/hello/"))
}

func TestRateLimiter_PerKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, 2)
	frozen := time.Now()
	rl.now = func() time.Time { return frozen }

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))

	frozen = frozen.Add(time.Second)
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(), Metrics())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
