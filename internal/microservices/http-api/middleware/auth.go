package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"bookshop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	LoginURL           = "/shop/login/"

	ctxUserID   = "userID"
	ctxUsername = "username"
	ctxClaims   = "claims"
)

// Authenticate resolves the current user from the access_token cookie or an
// Authorization: Bearer header. Requests without a valid token pass through
// anonymously; the Require* guards decide what to do with them.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString, _ = c.Cookie(AccessTokenCookie)
		}
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		// Set user info in context for handlers to use
		c.Set(ctxClaims, claims)
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)

		c.Next()
	}
}

// format: "Bearer <token>"
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireLogin redirects anonymous requests to the login page with a next
// parameter pointing back at the original path.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); ok {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// RequireLoginJSON answers anonymous requests with 401.
func RequireLoginJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); ok {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
	}
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// Username returns the authenticated user's name, empty when anonymous.
func Username(c *gin.Context) string {
	return c.GetString(ctxUsername)
}

// SafeRedirect returns next if it is a local path, otherwise fallback.
func SafeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
