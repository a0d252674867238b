package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bookshop/internal/logging"
	"bookshop/internal/microservices/http-api/service"
	"bookshop/internal/validation"
)

const (
	homeURL        = "/shop/hello/"
	requestTimeout = 5 * time.Second
)

func requestCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// statusFor maps service errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrRatingNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrNotBookAuthor),
		errors.Is(err, service.ErrNotCommentOwner):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrInvalidRate),
		errors.Is(err, service.ErrUnknownGenre):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNameInUse),
		errors.Is(err, service.ErrEmailInUse):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	}
	return http.StatusInternalServerError, "internal server error"
}

func pageError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": msg})
}

func ajaxError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("ajax request failed")
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func formErrors(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": validation.FieldErrors(err)})
}

func ajaxFormErrors(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
}

func ajaxOK(c *gin.Context, body gin.H) {
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusFound, homeURL)
}

// pathID parses an integer path parameter. Non-integers answer 404 like an
// unmatched route.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, ok := parseID(c.Param(name))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	}
	return id, ok
}

func ajaxPathID(c *gin.Context, name string) (int64, bool) {
	id, ok := parseID(c.Param(name))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
	}
	return id, ok
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

func queryPage(c *gin.Context) int {
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 1
}
