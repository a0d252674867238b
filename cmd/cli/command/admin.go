package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"bookshop/database"
	"bookshop/internal/config"
	"bookshop/internal/logging"
	"bookshop/internal/microservices/http-api/repository"
	"bookshop/internal/microservices/http-api/service"
	"bookshop/internal/scheduler"
)

// withDB loads the server configuration, opens the database and runs fn.
func withDB(fn func(ctx context.Context, cfg *config.Config, db *gorm.DB) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

	db, err := database.OpenGorm(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	return fn(ctx, cfg, db)
}

func newMaintenance(db *gorm.DB) *scheduler.Scheduler {
	bookRepo := repository.NewBookRepo(db)
	return scheduler.New(
		repository.NewRefreshTokenRepository(db),
		service.NewRatingService(repository.NewRatingRepository(db), bookRepo),
		service.NewLikeService(repository.NewCommentLikeRepository(db)),
		"", "",
	)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
			if err := database.Migrate(db.WithContext(ctx)); err != nil {
				return err
			}
			fmt.Println("Schema is up to date.")
			return nil
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute cached_rate and cached_like from the rating and like rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
			if err := newMaintenance(db).ReconcileAggregates(ctx); err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			fmt.Println("Cached aggregates reconciled.")
			return nil
		})
	},
}

var cleanupTokensCmd = &cobra.Command{
	Use:   "cleanup-tokens",
	Short: "Delete expired and revoked refresh tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
			n, err := newMaintenance(db).CleanupTokens(ctx)
			if err != nil {
				return fmt.Errorf("cleanup: %w", err)
			}
			fmt.Printf("Deleted %d refresh tokens.\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, reconcileCmd, cleanupTokensCmd)
}
