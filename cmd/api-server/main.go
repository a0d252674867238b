package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"bookshop/database"
	"bookshop/internal/cache"
	"bookshop/internal/config"
	"bookshop/internal/logging"
	"bookshop/internal/microservices/http-api/handler"
	"bookshop/internal/microservices/http-api/middleware"
	"bookshop/internal/microservices/http-api/repository"
	"bookshop/internal/microservices/http-api/service"
	"bookshop/internal/scheduler"
	"bookshop/internal/validation"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("could not load config")
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("invalid config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Caller: cfg.IsDevelopment()})

	// 2. Connect to the database
	db, err := database.OpenGorm(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("database connection failed")
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("migration failed")
	}

	// 3. Page cache; the site works without redis, just uncached
	var pages cache.PageCache = cache.Nop{}
	if cfg.PageCacheTTL > 0 {
		rdb, err := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logging.Warn().Err(err).Msg("redis unavailable, page cache disabled")
		} else {
			defer rdb.Close()
			pages = cache.NewRedisPageCache(rdb, cfg.PageCacheTTL)
		}
	}

	if err := validation.Register(); err != nil {
		logging.Fatal().Err(err).Msg("validator setup failed")
	}

	a := newApp(cfg, db, pages)

	// 4. Background jobs
	jobs := scheduler.New(a.tokens, a.ratings, a.likes, cfg.CleanupSchedule, cfg.ReconcileSchedule)
	if err := jobs.Start(); err != nil {
		logging.Fatal().Err(err).Msg("scheduler start failed")
	}

	// 5. Serve until SIGINT/SIGTERM
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	jobs.Stop(ctx)
	logging.Info().Msg("server stopped")
}

type app struct {
	router  *gin.Engine
	tokens  repository.RefreshTokenRepository
	ratings service.RatingService
	likes   service.LikeService
}

// newApp wires repositories, services and handlers into a gin engine.
func newApp(cfg *config.Config, db *gorm.DB, pages cache.PageCache) *app {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	bookRepo := repository.NewBookRepo(db)
	genreRepo := repository.NewGenreRepo(db)

	// Services
	authService := service.NewAuthService(userRepo, tokenRepo, cfg)
	bookService := service.NewBookService(bookRepo, genreRepo)
	commentService := service.NewCommentService(repository.NewCommentRepository(db), bookRepo)
	ratingService := service.NewRatingService(repository.NewRatingRepository(db), bookRepo)
	likeService := service.NewLikeService(repository.NewCommentLikeRepository(db))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.PrometheusEnabled {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(authService, cfg.CookieSecure)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	api := r.Group("/api")
	api.Use(limiter.Middleware())
	authHandler.RegisterAPIRoutes(api)

	shop := r.Group("/shop", middleware.Authenticate(authService))
	handler.RegisterShopRoutes(shop, handler.Handlers{
		Auth:    authHandler,
		Book:    handler.NewBookHandler(bookService, commentService, ratingService, pages, cfg.BooksPerPage),
		Genre:   handler.NewGenreHandler(service.NewGenreService(genreRepo), bookService),
		Comment: handler.NewCommentHandler(commentService),
		Rating:  handler.NewRatingHandler(ratingService),
		Like:    handler.NewLikeHandler(likeService),
	}, handler.Guards{
		Page:       middleware.RequireLogin(),
		AJAX:       middleware.RequireLoginJSON(),
		Limit:      limiter.Middleware(),
		Invalidate: cache.InvalidateOnSuccess(pages),
	})

	return &app{router: r, tokens: tokenRepo, ratings: ratingService, likes: likeService}
}
