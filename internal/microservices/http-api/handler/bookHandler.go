package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"bookshop/internal/cache"
	"bookshop/internal/logging"
	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/middleware"
	"bookshop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	books    service.BookService
	comments service.CommentService
	ratings  service.RatingService
	pages    cache.PageCache
	perPage  int
}

func NewBookHandler(
	books service.BookService,
	comments service.CommentService,
	ratings service.RatingService,
	pages cache.PageCache,
	perPage int,
) *BookHandler {
	if pages == nil {
		pages = cache.Nop{}
	}
	if perPage <= 0 {
		perPage = 10
	}
	return &BookHandler{
		books:    books,
		comments: comments,
		ratings:  ratings,
		pages:    pages,
		perPage:  perPage,
	}
}

func (h *BookHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	// Public routes
	router.GET("/hello/", h.List)
	router.GET("/hello/:num_page", h.List)
	router.GET("/book/:book_slug", h.Detail)
	router.GET("/book/:book_slug/rates/", h.Rates)

	// Write routes
	router.POST("/add_book/", with(g.page(true), h.Create)...)
	router.GET("/delete_book/:book_id", with(g.page(true), h.Delete)...)
	router.POST("/update_book/:book_slug", with(g.page(true), h.Update)...)
	router.POST("/add_new_book_ajax/", with(g.ajax(true), h.CreateAjax)...)
}

// List GET /shop/hello/ and /shop/hello/:num_page
// Rendered pages are kept in the page cache for a short TTL.
func (h *BookHandler) List(c *gin.Context) {
	page := 1
	if c.Param("num_page") != "" {
		n, ok := pathID(c, "num_page")
		if !ok {
			return
		}
		page = int(n)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	key := fmt.Sprintf("hello:%d:%d", page, h.perPage)
	if body, ok := cache.Lookup(ctx, h.pages, key); ok {
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	resp, err := h.books.List(ctx, page, h.perPage)
	if err != nil {
		pageError(c, err)
		return
	}
	body, err := json.Marshal(resp)
	if err != nil {
		pageError(c, err)
		return
	}
	if err := h.pages.Set(ctx, key, body); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("page cache write failed")
	}

	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Detail GET /shop/book/:book_slug
// Comments are paginated with ?page=. The viewer's own rate is included
// when logged in.
func (h *BookHandler) Detail(c *gin.Context) {
	ctx, cancel := requestCtx(c)
	defer cancel()

	book, err := h.books.GetBySlug(ctx, c.Param("book_slug"))
	if err != nil {
		pageError(c, err)
		return
	}

	comments, err := h.comments.GetBookComments(ctx, book.ID, queryPage(c), h.perPage)
	if err != nil {
		pageError(c, err)
		return
	}

	resp := dto.BookDetailResponse{
		Book:     dto.BookFromModel(book),
		Comments: *comments,
	}
	if userID, ok := middleware.UserID(c); ok {
		own, err := h.ratings.GetUserRating(ctx, userID, book.ID)
		switch {
		case err == nil:
			resp.UserRate = &own.Rate
		case !errors.Is(err, service.ErrRatingNotFound):
			pageError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Rates GET /shop/book/:book_slug/rates/
func (h *BookHandler) Rates(c *gin.Context) {
	ctx, cancel := requestCtx(c)
	defer cancel()

	book, err := h.books.GetBySlug(ctx, c.Param("book_slug"))
	if err != nil {
		pageError(c, err)
		return
	}
	resp, err := h.ratings.GetBookRatings(ctx, book.ID, queryPage(c), h.perPage)
	if err != nil {
		pageError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create POST /shop/add_book/
func (h *BookHandler) Create(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		formErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if _, err := h.books.Create(ctx, userID, form); err != nil {
		bookFormError(c, err)
		return
	}
	redirectHome(c)
}

// Update POST /shop/update_book/:book_slug
// Only the book's authors may edit it.
func (h *BookHandler) Update(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		formErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	book, err := h.books.Update(ctx, c.Param("book_slug"), userID, form)
	if err != nil {
		bookFormError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/shop/book/"+url.PathEscape(book.Slug))
}

// Delete GET /shop/delete_book/:book_id
func (h *BookHandler) Delete(c *gin.Context) {
	bookID, ok := pathID(c, "book_id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.books.Delete(ctx, bookID, userID); err != nil {
		pageError(c, err)
		return
	}
	redirectHome(c)
}

// CreateAjax POST /shop/add_new_book_ajax/
func (h *BookHandler) CreateAjax(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var form dto.BookForm
	if err := c.ShouldBind(&form); err != nil {
		ajaxFormErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	book, err := h.books.Create(ctx, userID, form)
	if err != nil {
		ajaxError(c, err)
		return
	}
	ajaxOK(c, gin.H{"book": dto.BookFromModel(book)})
}

// unknown genres are a form error on the genre field
func bookFormError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrUnknownGenre) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"genre": err.Error()}})
		return
	}
	pageError(c, err)
}
