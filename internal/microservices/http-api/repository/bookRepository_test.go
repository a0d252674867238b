package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookshop/internal/microservices/http-api/models"
	"bookshop/internal/testutil"
)

func TestBookRepo_CreateWithGenresAndAuthor(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "writer")
	fantasy := &models.Genre{Title: "Fantasy"}
	drama := &models.Genre{Title: "Drama"}
	require.NoError(t, NewGenreRepo(db).Create(ctx, fantasy))
	require.NoError(t, NewGenreRepo(db).Create(ctx, drama))

	b := &models.Book{Title: "Dune", Slug: "dune-1", Text: "sand"}
	require.NoError(t, repo.Create(ctx, b, []string{user.ID}, []int64{fantasy.ID, drama.ID, fantasy.ID}))
	require.NotZero(t, b.ID)

	got, err := repo.GetBySlug(ctx, "dune-1")
	require.NoError(t, err)
	assert.Len(t, got.Genres, 2)
	require.Len(t, got.Authors, 1)
	assert.True(t, got.HasAuthor(user.ID))

	isAuthor, err := repo.IsAuthor(ctx, b.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, isAuthor)
}

func TestBookRepo_UpdateReplacesGenresOnlyWhenGiven(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()
	g1 := &models.Genre{Title: "A"}
	g2 := &models.Genre{Title: "B"}
	require.NoError(t, db.Create(g1).Error)
	require.NoError(t, db.Create(g2).Error)
	b := &models.Book{Title: "Old", Slug: "old", Text: "t"}
	require.NoError(t, repo.Create(ctx, b, nil, []int64{g1.ID}))

	require.NoError(t, repo.Update(ctx, b.ID, "New", "t2", nil))
	genres, err := repo.GetGenresByBook(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, g1.ID, genres[0].ID)

	require.NoError(t, repo.Update(ctx, b.ID, "New", "t2", []int64{g2.ID}))
	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "old", got.Slug)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, g2.ID, got.Genres[0].ID)

	err = repo.Update(ctx, 999, "x", "y", nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookRepo_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "writer")
	book := testutil.CreateBook(t, db, "Dune", "dune", user)
	comment := testutil.CreateComment(t, db, book, user, "nice")
	_, _, err := NewRatingRepository(db).Upsert(ctx, user.ID, book.ID, 8)
	require.NoError(t, err)
	_, _, err = NewCommentLikeRepository(db).Toggle(ctx, comment.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, book.ID))

	for _, m := range []interface{}{&models.Book{}, &models.Comment{}, &models.BookLike{}, &models.CommentLike{}, &models.BookAuthor{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n)
	}

	assert.ErrorIs(t, repo.Delete(ctx, book.ID), gorm.ErrRecordNotFound)
}

func TestBookRepo_GetAllNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()
	first := testutil.CreateBook(t, db, "First", "first")
	second := testutil.CreateBook(t, db, "Second", "second")
	testutil.CreateBook(t, db, "Third", "third")

	list, total, err := repo.GetAll(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[1].ID)

	list, _, err = repo.GetAll(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestGenreRepo_GetBooksByGenre(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	genres := NewGenreRepo(db)
	g := &models.Genre{Title: "Poetry"}
	require.NoError(t, genres.Create(ctx, g))
	b := &models.Book{Title: "Odes", Slug: "odes", Text: "t"}
	require.NoError(t, NewBookRepo(db).Create(ctx, b, nil, []int64{g.ID}))
	testutil.CreateBook(t, db, "Other", "other")

	list, err := genres.GetBooksByGenre(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	found, err := genres.GetByIDs(ctx, []int64{g.ID, 12345})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
