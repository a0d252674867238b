package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshop/internal/cache"
	"bookshop/internal/config"
	"bookshop/internal/testutil"
	"bookshop/internal/validation"
)

func testConfig() *config.Config {
	return &config.Config{
		GoEnv:             "test",
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:    time.Minute,
		RefreshTokenTTL:   time.Hour,
		BooksPerPage:      10,
		RateLimitRPS:      100,
		RateLimitBurst:    100,
		CORSOrigins:       []string{"http://localhost:3000"},
		PrometheusEnabled: true,
	}
}

func TestNewApp_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())
	a := newApp(testConfig(), testutil.NewTestDB(t), cache.Nop{})

	cases := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/shop/hello/", http.StatusOK},
		{"/shop/genres/", http.StatusOK},
		{"/shop/add_rate/5/1", http.StatusFound},
		{"/metrics", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.want, w.Code, tc.path)
	}
}
