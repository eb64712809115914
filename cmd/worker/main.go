package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"artlink/internal/config"
	"artlink/internal/logging"
	"artlink/internal/metrics"
	"artlink/internal/storage"
	"artlink/internal/tasks"
	"artlink/internal/worker"
)

func main() {
	cfg := config.MustLoad()
	logger := logging.New(os.Stdout, cfg.Log)

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	redisAddr := cfg.Redis.Addr()
	server := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 10,
		Logger:      worker.NewAsynqLogger(logger),
	})

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeMediaPurge, worker.NewMediaPurgeHandler(storageClient, logger))

	logger.Info("worker service started", slog.String("redis_addr", redisAddr))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
