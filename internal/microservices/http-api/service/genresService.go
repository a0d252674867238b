package service

import (
	"context"
	"strings"

	"bookshop/internal/microservices/http-api/models"
	"bookshop/internal/microservices/http-api/repository"
)

type GenreService interface {
	List(ctx context.Context) ([]models.Genre, error)
	Create(ctx context.Context, title string) (*models.Genre, error)
}

type genreService struct {
	repo *repository.GenreRepo
}

func NewGenreService(r *repository.GenreRepo) GenreService {
	return &genreService{repo: r}
}

func (s *genreService) List(ctx context.Context) ([]models.Genre, error) {
	return s.repo.GetAll(ctx)
}

func (s *genreService) Create(ctx context.Context, title string) (*models.Genre, error) {
	g := &models.Genre{Title: strings.TrimSpace(title)}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}
