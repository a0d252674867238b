package handler

import "github.com/gin-gonic/gin"

// Guards are the middlewares applied to mutating routes. Nil guards are
// skipped, which keeps handler tests free of the auth and cache stack.
type Guards struct {
	Page       gin.HandlerFunc // login required, redirects to the login page
	AJAX       gin.HandlerFunc // login required, answers 401 JSON
	Limit      gin.HandlerFunc // per-user write rate limit
	Invalidate gin.HandlerFunc // drops cached book pages after a change
}

func (g Guards) page(invalidate bool) []gin.HandlerFunc {
	return chain(g.Page, g.Limit, pick(invalidate, g.Invalidate))
}

func (g Guards) ajax(invalidate bool) []gin.HandlerFunc {
	return chain(g.AJAX, g.Limit, pick(invalidate, g.Invalidate))
}

func pick(ok bool, h gin.HandlerFunc) gin.HandlerFunc {
	if ok {
		return h
	}
	return nil
}

func chain(hs ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(hs)+1)
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func with(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(guards, h)
}

// Handlers groups everything mounted under /shop.
type Handlers struct {
	Auth    *AuthHandler
	Book    *BookHandler
	Genre   *GenreHandler
	Comment *CommentHandler
	Rating  *RatingHandler
	Like    *LikeHandler
}

// RegisterShopRoutes mounts the page and AJAX routes on shop. The caller is
// expected to have installed middleware.Authenticate on an enclosing group.
func RegisterShopRoutes(shop *gin.RouterGroup, h Handlers, g Guards) {
	h.Auth.RegisterRoutes(shop)
	h.Book.RegisterRoutes(shop, g)
	h.Genre.RegisterRoutes(shop, g)
	h.Comment.RegisterRoutes(shop, g)
	h.Rating.RegisterRoutes(shop, g)
	h.Like.RegisterRoutes(shop, g)
}
