package handler

import (
	"net/http"

	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/middleware"
	"bookshop/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

func (h *LikeHandler) RegisterRoutes(router *gin.RouterGroup, g Guards) {
	router.GET("/add_like2comment/:comment_id", with(g.page(false), h.Toggle)...)
	router.POST("/add_like_ajax/", with(g.ajax(false), h.ToggleAjax)...)

	// explicit membership: PUT likes, DELETE unlikes, both idempotent
	router.PUT("/comment_like_ajax/:comment_id/", with(g.ajax(false), h.Set)...)
	router.DELETE("/comment_like_ajax/:comment_id/", with(g.ajax(false), h.Set)...)
}

// Toggle GET /shop/add_like2comment/:comment_id
func (h *LikeHandler) Toggle(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	ctx, cancel := requestCtx(c)
	defer cancel()

	if _, err := h.likeService.ToggleCommentLike(ctx, commentID, userID); err != nil {
		pageError(c, err)
		return
	}
	redirectHome(c)
}

// ToggleAjax POST /shop/add_like_ajax/
func (h *LikeHandler) ToggleAjax(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var form dto.AjaxLikeForm
	if err := c.ShouldBind(&form); err != nil {
		ajaxFormErrors(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	result, err := h.likeService.ToggleCommentLike(ctx, form.CommentID, userID)
	if err != nil {
		ajaxError(c, err)
		return
	}
	likeOK(c, result)
}

// Set PUT|DELETE /shop/comment_like_ajax/:comment_id/
func (h *LikeHandler) Set(c *gin.Context) {
	commentID, ok := ajaxPathID(c, "comment_id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	ctx, cancel := requestCtx(c)
	defer cancel()

	result, err := h.likeService.SetCommentLike(ctx, commentID, userID, c.Request.Method == http.MethodPut)
	if err != nil {
		ajaxError(c, err)
		return
	}
	likeOK(c, result)
}

func likeOK(c *gin.Context, r *dto.LikeResult) {
	ajaxOK(c, gin.H{
		"comment_id":  r.CommentID,
		"liked":       r.Liked,
		"cached_like": r.CachedLike,
		"changed":     r.Changed,
	})
}
