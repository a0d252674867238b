// Package testutil provides an in-memory database for repository and
// service tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookshop/database"
	"bookshop/internal/microservices/http-api/models"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every query on the same in-memory database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateBook inserts a book authored by the given users.
func CreateBook(t testing.TB, db *gorm.DB, title, slug string, authors ...*models.User) *models.Book {
	t.Helper()
	b := &models.Book{Title: title, Slug: slug, Text: "text"}
	require.NoError(t, db.Omit("Authors", "Genres").Create(b).Error)
	for _, a := range authors {
		require.NoError(t, db.Create(&models.BookAuthor{BookID: b.ID, UserID: a.ID}).Error)
	}
	return b
}

// CreateComment inserts a comment by user on book.
func CreateComment(t testing.TB, db *gorm.DB, book *models.Book, user *models.User, text string) *models.Comment {
	t.Helper()
	c := &models.Comment{BookID: book.ID, UserID: user.ID, Text: text}
	require.NoError(t, db.Omit("User").Create(c).Error)
	return c
}
