package handler

import (
	"net/http"

	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	genres service.GenreService
	books  service.BookService
}

func NewGenreHandler(genres service.GenreService, books service.BookService) *GenreHandler {
	return &GenreHandler{genres: genres, books: books}
}

func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	router.GET("/genres/", h.List)
	router.GET("/genres/:genre_id/books/", h.Books)
	router.POST("/genres/", with(g.ajax(false), h.Create)...)
}

// List GET /shop/genres/
func (h *GenreHandler) List(c *gin.Context) {
	ctx, cancel := requestCtx(c)
	defer cancel()

	genres, err := h.genres.List(ctx)
	if err != nil {
		pageError(c, err)
		return
	}
	resp := make([]dto.GenreResponse, 0, len(genres))
	for _, g := range genres {
		resp = append(resp, dto.GenreFromModel(g))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Create POST /shop/genres/
func (h *GenreHandler) Create(c *gin.Context) {
	var form dto.GenreForm
	if err := c.ShouldBind(&form); err != nil {
		formErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	genre, err := h.genres.Create(ctx, form.Title)
	if err != nil {
		pageError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.GenreFromModel(*genre))
}

// Books GET /shop/genres/:genre_id/books/
func (h *GenreHandler) Books(c *gin.Context) {
	genreID, ok := pathID(c, "genre_id")
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	books, err := h.books.ListByGenre(ctx, genreID)
	if err != nil {
		pageError(c, err)
		return
	}
	resp := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		resp = append(resp, dto.BookFromModel(&books[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
