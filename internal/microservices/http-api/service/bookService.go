package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookshop/internal/logging"
	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/models"
	"bookshop/internal/microservices/http-api/repository"
)

type BookService interface {
	List(ctx context.Context, page, pageSize int) (*dto.PaginatedBookResponse, error)
	GetBySlug(ctx context.Context, slug string) (*models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, authorID string, form dto.BookForm) (*models.Book, error)
	Update(ctx context.Context, slug, userID string, form dto.BookForm) (*models.Book, error)
	Delete(ctx context.Context, id int64, userID string) error
	ListByGenre(ctx context.Context, genreID int64) ([]models.Book, error)
}

type bookService struct {
	repo   *repository.BookRepo
	genres *repository.GenreRepo
}

func NewBookService(r *repository.BookRepo, g *repository.GenreRepo) BookService {
	return &bookService{repo: r, genres: g}
}

func (s *bookService) List(ctx context.Context, page, pageSize int) (*dto.PaginatedBookResponse, error) {
	books, total, err := s.repo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	data := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		data = append(data, dto.BookFromModel(&books[i]))
	}
	return dto.NewPaginatedBookResponse(data, int(total), page, pageSize), nil
}

func (s *bookService) GetBySlug(ctx context.Context, slug string) (*models.Book, error) {
	b, err := s.repo.GetBySlug(ctx, slug)
	return b, bookErr(err)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	return b, bookErr(err)
}

// Create stores a new book authored by authorID.
func (s *bookService) Create(ctx context.Context, authorID string, form dto.BookForm) (*models.Book, error) {
	if err := s.checkGenres(ctx, form.Genre); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(form.Title)
	b := &models.Book{
		Title: title,
		// short uuid suffix avoids collisions between equal titles
		Slug: fmt.Sprintf("%s-%s", generateSlug(title), uuid.New().String()[:8]),
		Text: form.Text,
	}
	if err := s.repo.Create(ctx, b, []string{authorID}, form.Genre); err != nil {
		return nil, err
	}

	logging.Info().Int64("book_id", b.ID).Str("slug", b.Slug).Str("user_id", authorID).Msg("book created")
	return s.GetByID(ctx, b.ID)
}

// Update changes title, text and, when given, genres. Only authors may edit.
func (s *bookService) Update(ctx context.Context, slug, userID string, form dto.BookForm) (*models.Book, error) {
	existing, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !existing.HasAuthor(userID) {
		return nil, ErrNotBookAuthor
	}
	if err := s.checkGenres(ctx, form.Genre); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, existing.ID, strings.TrimSpace(form.Title), form.Text, form.Genre); err != nil {
		return nil, bookErr(err)
	}
	return s.GetByID(ctx, existing.ID)
}

// Delete removes a book with its comments and ratings. Only authors may delete.
func (s *bookService) Delete(ctx context.Context, id int64, userID string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	ok, err := s.repo.IsAuthor(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotBookAuthor
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return bookErr(err)
	}
	logging.Info().Int64("book_id", id).Str("user_id", userID).Msg("book deleted")
	return nil
}

func (s *bookService) ListByGenre(ctx context.Context, genreID int64) ([]models.Book, error) {
	return s.genres.GetBooksByGenre(ctx, genreID)
}

func (s *bookService) checkGenres(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	found, err := s.genres.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(want) {
		return ErrUnknownGenre
	}
	return nil
}

func bookErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookNotFound
	}
	return err
}

/* helper: generate slug-like string from title */
var nonAlnum = regexp.MustCompile(`[^a-z0-9\-]+`)
var dashes = regexp.MustCompile(`-{2,}`)

func generateSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "-")
	s = nonAlnum.ReplaceAllString(s, "")
	s = dashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "book"
	}
	// limit length
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}
	return s
}
