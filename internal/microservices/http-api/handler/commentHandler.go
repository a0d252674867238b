package handler

import (
	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/middleware"
	"bookshop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// RegisterRoutes registers comment-related routes
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	router.POST("/add_comment/:book_id", with(g.page(false), h.Create)...)
	router.GET("/delete_comment/:comment_id", with(g.page(false), h.Delete)...)
	router.POST("/update_comment/:comment_id", with(g.page(false), h.Update)...)

	router.POST("/add_new_comment_ajax/", with(g.ajax(false), h.CreateAjax)...)
	router.POST("/delete_comment_ajax/:comment_id/", with(g.ajax(false), h.DeleteAjax)...)
}

// Create creates a new comment for a book
// POST /shop/add_comment/:book_id
func (h *CommentHandler) Create(c *gin.Context) {
	bookID, ok := pathID(c, "book_id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	var form dto.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		formErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if _, err := h.commentService.CreateComment(ctx, userID, bookID, form.Text); err != nil {
		pageError(c, err)
		return
	}
	redirectHome(c)
}

// Update replaces the text of the caller's own comment
// POST /shop/update_comment/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	var form dto.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		formErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if _, err := h.commentService.UpdateComment(ctx, commentID, userID, form.Text); err != nil {
		pageError(c, err)
		return
	}
	redirectHome(c)
}

// Delete removes the caller's own comment with its likes
// GET /shop/delete_comment/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	ctx, cancel := requestCtx(c)
	defer cancel()

	if _, err := h.commentService.DeleteComment(ctx, commentID, userID); err != nil {
		pageError(c, err)
		return
	}
	redirectHome(c)
}

// CreateAjax POST /shop/add_new_comment_ajax/
func (h *CommentHandler) CreateAjax(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var form dto.AjaxCommentForm
	if err := c.ShouldBind(&form); err != nil {
		ajaxFormErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	comment, err := h.commentService.CreateComment(ctx, userID, form.BookID, form.Text)
	if err != nil {
		ajaxError(c, err)
		return
	}
	ajaxOK(c, gin.H{"comment": comment})
}

// DeleteAjax POST /shop/delete_comment_ajax/:comment_id/
func (h *CommentHandler) DeleteAjax(c *gin.Context) {
	commentID, ok := ajaxPathID(c, "comment_id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	ctx, cancel := requestCtx(c)
	defer cancel()

	bookID, err := h.commentService.DeleteComment(ctx, commentID, userID)
	if err != nil {
		ajaxError(c, err)
		return
	}
	ajaxOK(c, gin.H{"comment_id": commentID, "book_id": bookID})
}
