package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"artlink/internal/api"
	"artlink/internal/auth"
	"artlink/internal/config"
	"artlink/internal/database"
	"artlink/internal/logging"
	"artlink/internal/notify"
	"artlink/internal/repository"
	"artlink/internal/service"
	"artlink/internal/storage"
	"artlink/internal/tasks"
)

func main() {
	cfg := config.MustLoad()
	logger := logging.New(os.Stdout, cfg.Log)

	logger.Info("api bootstrapping",
		slog.String("db_host", cfg.Database.Host),
		slog.Int("db_port", cfg.Database.Port),
		slog.String("db_name", cfg.Database.Name),
		slog.String("sslmode", cfg.Database.SSLMode),
	)

	db, err := database.InitDatabase(cfg.Database, database.LogLevelFor(cfg.Log.Level))
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	logger.Info("database ready")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer asynqClient.Close()

	tokens, err := auth.NewTokenService(cfg.JWT)
	if err != nil {
		log.Fatalf("init token service: %v", err)
	}

	purger := tasks.NewMediaPurger(asynqClient, logger)
	notifier := notify.NewRedisNotifier(redisClient)

	artistRepo := repository.NewArtistRepository(db, logger)
	employerRepo := repository.NewEmployerRepository(db, logger)
	adminRepo := repository.NewAdminRepository(db, logger)
	techniqueRepo := repository.NewTechniqueRepository(db, logger)
	portfolioRepo := repository.NewPortfolioRepository(db, logger)
	artworkRepo := repository.NewArtworkRepository(db, logger)
	contractRepo := repository.NewContractRepository(db, logger)

	artists := service.NewArtistService(artistRepo, purger, logger)
	employers := service.NewEmployerService(employerRepo, logger)
	artworks := service.NewArtworkService(artworkRepo, portfolioRepo, purger, logger)

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, api.Dependencies{
		Config:     cfg,
		Logger:     logger,
		Tokens:     tokens,
		Redis:      redisClient,
		Storage:    storageClient,
		Scanner:    api.NewClamdScanner(cfg.Upload.ClamdAddr),
		Artists:    artists,
		Employers:  employers,
		Admins:     service.NewAdminService(adminRepo, logger),
		Techniques: service.NewTechniqueService(techniqueRepo, purger, logger),
		Portfolios: service.NewPortfolioService(portfolioRepo, artistRepo, techniqueRepo, purger, logger),
		Artworks:   artworks,
		Contracts:  service.NewContractService(contractRepo, artistRepo, employerRepo, notifier, logger),
		Search:     service.NewSearchService(artists, employers, artworks, logger),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
