package handler

import (
	"net/http"
	"strconv"

	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/middleware"
	"bookshop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// RegisterRoutes registers rating-related routes. Every rating change
// invalidates the cached book pages since they carry cached_rate.
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	router.GET("/add_rate/:rate/:book_id", with(g.page(true), h.Rate)...)
	router.POST("/add_book_rate_ajax/", with(g.ajax(true), h.RateAjax)...)
	router.DELETE("/book_rate_ajax/:book_id/", with(g.ajax(true), h.RemoveAjax)...)
}

// Rate GET /shop/add_rate/:rate/:book_id
func (h *RatingHandler) Rate(c *gin.Context) {
	rate, err := strconv.Atoi(c.Param("rate"))
	if err != nil || rate < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	bookID, ok := pathID(c, "book_id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	ctx, cancel := requestCtx(c)
	defer cancel()

	if _, err := h.ratingService.RateBook(ctx, userID, bookID, rate); err != nil {
		pageError(c, err)
		return
	}
	redirectHome(c)
}

// RateAjax POST /shop/add_book_rate_ajax/
func (h *RatingHandler) RateAjax(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var form dto.AjaxRateForm
	if err := c.ShouldBind(&form); err != nil {
		ajaxFormErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	result, err := h.ratingService.RateBook(ctx, userID, form.BookID, *form.Rate)
	if err != nil {
		ajaxError(c, err)
		return
	}
	ajaxOK(c, gin.H{
		"book_id":     result.BookID,
		"rate":        result.Rate,
		"cached_rate": result.CachedRate,
		"created":     result.Created,
	})
}

// RemoveAjax DELETE /shop/book_rate_ajax/:book_id/
func (h *RatingHandler) RemoveAjax(c *gin.Context) {
	bookID, ok := ajaxPathID(c, "book_id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	ctx, cancel := requestCtx(c)
	defer cancel()

	cached, err := h.ratingService.RemoveRating(ctx, userID, bookID)
	if err != nil {
		ajaxError(c, err)
		return
	}
	ajaxOK(c, gin.H{"book_id": bookID, "cached_rate": cached})
}
