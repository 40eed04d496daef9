package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/api"
	"github.com/rcollings/studyforge/internal/blob"
	"github.com/rcollings/studyforge/internal/config"
	"github.com/rcollings/studyforge/internal/database"
	"github.com/rcollings/studyforge/internal/repository"
)

func main() {
	_ = godotenv.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "api").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("ensure schema")
	}

	blobs, err := blob.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("init blob storage")
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ensure bucket")
	}

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer queueClient.Close()

	server := api.New(
		cfg,
		repository.NewResourceRepository(pool),
		repository.NewFolderRepository(pool),
		repository.NewArtifactRepository(pool),
		blobs,
		queueClient,
		logger,
	)
	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
