package dto

import "bookshop/internal/microservices/http-api/models"

// GenreForm for POST /shop/genres/
type GenreForm struct {
	Title string `form:"title" json:"title" binding:"required,notblank,max=50"`
}

type GenreResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{
		ID:    g.ID,
		Title: g.Title,
	}
}
