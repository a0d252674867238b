package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bookshop/internal/config"
	"bookshop/internal/logging"
	"bookshop/internal/microservices/http-api/models"
)

// OpenGorm connects to postgres, sizes the pool and verifies the connection.
func OpenGorm(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: NewGormLogger(200 * time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		// close the handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.Info().Msg("Connected to the database successfully")
	return db, nil
}

// Migrate registers the custom join tables and auto-migrates every model.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Book{}, "Genres", &models.BookGenre{}); err != nil {
		return fmt.Errorf("setup book_genres: %w", err)
	}
	if err := db.SetupJoinTable(&models.Book{}, "Authors", &models.BookAuthor{}); err != nil {
		return fmt.Errorf("setup book_authors: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logging.Info().Msg("Database migrations applied successfully")
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
