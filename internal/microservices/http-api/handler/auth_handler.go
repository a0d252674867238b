package handler

import (
	"errors"
	"net/http"

	"bookshop/internal/logging"
	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/middleware"
	"bookshop/internal/microservices/http-api/service"
	"bookshop/internal/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  service.AuthService
	cookieSecure bool
}

func NewAuthHandler(authService service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/register/", h.RegisterPage)
	router.POST("/register/", h.Register)
	router.GET("/login/", h.LoginPage)
	router.POST("/login/", h.Login)
	router.GET("/logout/", h.Logout)
}

// RegisterAPIRoutes mounts the token endpoints used by non-browser clients.
func (h *AuthHandler) RegisterAPIRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.APIRegister)
		auth.POST("/login", h.APILogin)
		auth.POST("/refresh", h.RefreshToken)
	}
}

// RegisterPage GET /shop/register/
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		redirectHome(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"form":   "register",
		"fields": []string{"username", "email", "password1", "password2"},
	})
}

// Register POST /shop/register/
// A successful registration logs the new user in.
func (h *AuthHandler) Register(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		redirectHome(c)
		return
	}

	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		formErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if _, err := h.authService.Register(ctx, form.Username, form.Password1, form.Email); err != nil {
		if field, msg, ok := registrationConflict(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{field: msg}})
			return
		}
		pageError(c, err)
		return
	}

	access, refresh, _, err := h.authService.Login(ctx, form.Username, form.Password1)
	if err != nil {
		pageError(c, err)
		return
	}
	h.setSession(c, access, refresh)
	redirectHome(c)
}

func registrationConflict(err error) (field, msg string, ok bool) {
	switch {
	case errors.Is(err, service.ErrNameInUse):
		return "username", "A user with that username already exists.", true
	case errors.Is(err, service.ErrEmailInUse):
		return "email", "A user with that email already exists.", true
	}
	return "", "", false
}

// LoginPage GET /shop/login/
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusFound, middleware.SafeRedirect(c.Query("next"), homeURL))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"form":   "login",
		"fields": []string{"username", "password"},
		"next":   c.Query("next"),
	})
}

// Login POST /shop/login/
func (h *AuthHandler) Login(c *gin.Context) {
	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}
	if _, ok := middleware.UserID(c); ok {
		c.Redirect(http.StatusFound, middleware.SafeRedirect(next, homeURL))
		return
	}

	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		formErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	access, refresh, _, err := h.authService.Login(ctx, form.Username, form.Secret())
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{
			validation.NonFieldErrors: "Please enter a correct username and password.",
		}})
		return
	}
	if err != nil {
		pageError(c, err)
		return
	}

	h.setSession(c, access, refresh)
	c.Redirect(http.StatusFound, middleware.SafeRedirect(next, homeURL))
}

// Logout GET /shop/logout/
func (h *AuthHandler) Logout(c *gin.Context) {
	if refresh, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && refresh != "" {
		ctx, cancel := requestCtx(c)
		defer cancel()
		if err := h.authService.Logout(ctx, refresh); err != nil {
			logging.Warn().Err(err).Msg("refresh token revocation failed")
		}
	}
	h.clearSession(c)
	redirectHome(c)
}

// APIRegister POST /api/auth/register
func (h *AuthHandler) APIRegister(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBindJSON(&form); err != nil {
		formErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	user, err := h.authService.Register(ctx, form.Username, form.Password1, form.Email)
	if err != nil {
		pageError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
		Message:  "account created",
	})
}

// APILogin POST /api/auth/login
func (h *AuthHandler) APILogin(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		formErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	access, refresh, user, err := h.authService.Login(ctx, form.Username, form.Secret())
	if err != nil {
		pageError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Username:     user.Username,
		ExpiresIn:    int64(h.authService.AccessTokenTTL().Seconds()),
	})
}

// RefreshToken POST /api/auth/refresh
// The refresh token comes from the JSON body or, failing that, the cookie.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		cookie, cerr := c.Cookie(middleware.RefreshTokenCookie)
		if cerr != nil || cookie == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token is required"})
			return
		}
		req.RefreshToken = cookie
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	access, err := h.authService.RefreshAccessToken(ctx, req.RefreshToken)
	if err != nil {
		pageError(c, err)
		return
	}

	h.setCookie(c, middleware.AccessTokenCookie, access, int(h.authService.AccessTokenTTL().Seconds()))
	c.JSON(http.StatusOK, dto.RefreshResponse{
		AccessToken: access,
		ExpiresIn:   int64(h.authService.AccessTokenTTL().Seconds()),
	})
}

func (h *AuthHandler) setSession(c *gin.Context, access, refresh string) {
	h.setCookie(c, middleware.AccessTokenCookie, access, int(h.authService.AccessTokenTTL().Seconds()))
	h.setCookie(c, middleware.RefreshTokenCookie, refresh, int(h.authService.RefreshTokenTTL().Seconds()))
}

func (h *AuthHandler) clearSession(c *gin.Context) {
	h.setCookie(c, middleware.AccessTokenCookie, "", -1)
	h.setCookie(c, middleware.RefreshTokenCookie, "", -1)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cookieSecure, true)
}
