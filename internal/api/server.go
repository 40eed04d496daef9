// Package api exposes the HTTP surface: folder tree, resources, uploads and
// derived study artifacts. All routes under /api are scoped to the caller
// identified by the X-User-ID header; authentication itself lives upstream.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/blob"
	"github.com/rcollings/studyforge/internal/config"
	"github.com/rcollings/studyforge/internal/repository"
)

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	cfg       *config.Config
	resources *repository.ResourceRepository
	folders   *repository.FolderRepository
	artifacts *repository.ArtifactRepository
	blobs     *blob.Storage
	queue     *asynq.Client
	log       zerolog.Logger
	server    *http.Server
}

// New constructs a Server.
func New(
	cfg *config.Config,
	resources *repository.ResourceRepository,
	folders *repository.FolderRepository,
	artifacts *repository.ArtifactRepository,
	blobs *blob.Storage,
	queueClient *asynq.Client,
	logger zerolog.Logger,
) *Server {
	return &Server{
		cfg:       cfg,
		resources: resources,
		folders:   folders,
		artifacts: artifacts,
		blobs:     blobs,
		queue:     queueClient,
		log:       logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", requireUser())
	{
		api.POST("/folders", s.createFolder)
		api.GET("/folders", s.listRootContents)
		api.GET("/folders/:id", s.listFolderContents)
		api.DELETE("/folders/:id", s.deleteFolder)

		api.POST("/uploads", s.upload)

		api.POST("/resources", s.createResource)
		api.GET("/resources/:id", s.getResource)
		api.GET("/resources/:id/transcript", s.getTranscript)
		api.GET("/resources/:id/source-url", s.getSourceURL)
		api.DELETE("/resources/:id", s.deleteResource)
		api.POST("/resources/:id/ingest", s.triggerIngest)

		api.POST("/resources/:id/images", s.addImage)
		api.GET("/resources/:id/images", s.listImages)

		api.GET("/resources/:id/flash-cards", s.listFlashCards)
		api.GET("/resources/:id/flash-cards/exists", s.flashCardsExist)
		api.POST("/resources/:id/flash-cards", s.createFlashCard)
		api.POST("/resources/:id/flash-cards/generate", s.generateFlashCards)

		api.GET("/resources/:id/quiz-questions", s.listQuizQuestions)
		api.GET("/resources/:id/quiz-questions/exists", s.quizQuestionsExist)
		api.POST("/resources/:id/quiz-questions/generate", s.generateQuizQuestions)
	}
	return router
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Router(),
		ReadHeaderTimeout: s.cfg.RequestTimeout,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
	s.log.Info().Str("address", s.cfg.Address).Msg("api listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// notFoundOr500 maps repository errors to HTTP responses.
func notFoundOr500(c *gin.Context, err error, what string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
