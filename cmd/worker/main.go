package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/artifacts"
	"github.com/rcollings/studyforge/internal/blob"
	"github.com/rcollings/studyforge/internal/config"
	"github.com/rcollings/studyforge/internal/database"
	"github.com/rcollings/studyforge/internal/genai"
	"github.com/rcollings/studyforge/internal/ingest"
	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/ocr"
	"github.com/rcollings/studyforge/internal/repository"
	"github.com/rcollings/studyforge/internal/worker"
	"github.com/rcollings/studyforge/internal/youtube"
)

func main() {
	_ = godotenv.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "worker").Logger()

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
	resources := repository.NewResourceRepository(pool)
	artifactRepo := repository.NewArtifactRepository(pool)

	blobs, err := blob.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("init blob storage")
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ensure bucket")
	}

	ai := genai.New(cfg)
	engine := ocr.NewEngine(cfg.OCRLanguage)
	renderer := ocr.NewPageRenderer()
	transcripts, err := youtube.NewTranscriptClient(cfg.TranscriptProxyURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("init transcript client")
	}

	extractors := map[model.ResourceType]ingest.Extractor{
		model.TypeYouTubeLink: ingest.NewYouTubeExtractor(transcripts, logger),
		model.TypeAudio:       ingest.NewAudioExtractor(blobs, ai, logger),
		model.TypeDocument:    ingest.NewDocumentExtractor(blobs, renderer, engine, logger),
		model.TypeImageSet:    ingest.NewImageSetExtractor(resources, blobs, engine, logger),
	}
	textTitles := ingest.NewTextTitleGenerator(resources, ai, logger)
	titles := map[model.ResourceType]ingest.TitleGenerator{
		model.TypeYouTubeLink: ingest.NewVideoTitleGenerator(resources, youtube.NewMetadataClient(), logger),
		model.TypeDocument:    textTitles,
		model.TypeAudio:       textTitles,
		model.TypeText:        textTitles,
		model.TypeImageSet:    textTitles,
	}
	orchestrator := ingest.NewOrchestrator(
		resources,
		ingest.NewSummarizer(resources, ai, logger),
		extractors,
		titles,
		logger,
	)

	processor := worker.NewProcessor(
		orchestrator,
		artifacts.NewFlashCardGenerator(resources, artifactRepo, ai, logger),
		artifacts.NewQuizGenerator(resources, artifactRepo, ai, logger),
		logger,
	)

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
	})

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Msg("worker starting")
	if err := server.Run(processor.Handler()); err != nil {
		logger.Error().Err(err).Msg("worker stopped")
		os.Exit(1)
	}
}
