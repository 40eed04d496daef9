package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/queue"
)

func (s *Server) listFlashCards(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := s.resources.GetOwned(ctx, c.Param("id"), currentUser(c))
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	cards, err := s.artifacts.ListFlashCards(ctx, res.ID, currentUser(c))
	if err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("listing flash cards failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if cards == nil {
		cards = []*model.FlashCard{}
	}
	c.JSON(http.StatusOK, gin.H{"flashCards": cards})
}

func (s *Server) flashCardsExist(c *gin.Context) {
	exists, err := s.artifacts.FlashCardsExist(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		s.log.Error().Err(err).Str("resource_id", c.Param("id")).Msg("checking flash cards failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

type createFlashCardRequest struct {
	Front string `json:"front" binding:"required"`
	Back  string `json:"back" binding:"required"`
}

// createFlashCard adds a single user-authored card next to the generated
// ones.
func (s *Server) createFlashCard(c *gin.Context) {
	var req createFlashCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	userID := currentUser(c)
	res, err := s.resources.GetOwned(ctx, c.Param("id"), userID)
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	card := &model.FlashCard{
		UserID:     userID,
		ResourceID: res.ID,
		Front:      strings.TrimSpace(req.Front),
		Back:       strings.TrimSpace(req.Back),
	}
	if card.Front == "" || card.Back == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "front and back must be non-empty"})
		return
	}
	if err := s.artifacts.CreateFlashCard(ctx, card); err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("creating flash card failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (s *Server) generateFlashCards(c *gin.Context) {
	s.enqueueGeneration(c, queue.EnqueueFlashCards)
}

func (s *Server) listQuizQuestions(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := s.resources.GetOwned(ctx, c.Param("id"), currentUser(c))
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	questions, err := s.artifacts.ListQuizQuestions(ctx, res.ID, currentUser(c))
	if err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("listing quiz questions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if questions == nil {
		questions = []*model.QuizQuestion{}
	}
	c.JSON(http.StatusOK, gin.H{"quizQuestions": questions})
}

func (s *Server) quizQuestionsExist(c *gin.Context) {
	exists, err := s.artifacts.QuizQuestionsExist(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		s.log.Error().Err(err).Str("resource_id", c.Param("id")).Msg("checking quiz questions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (s *Server) generateQuizQuestions(c *gin.Context) {
	s.enqueueGeneration(c, queue.EnqueueQuiz)
}

type enqueueFunc func(ctx context.Context, client *asynq.Client, resourceID string) error

// enqueueGeneration verifies ownership and queues an artifact generation
// task.
func (s *Server) enqueueGeneration(c *gin.Context, enqueue enqueueFunc) {
	ctx := c.Request.Context()
	res, err := s.resources.GetOwned(ctx, c.Param("id"), currentUser(c))
	if err != nil {
		notFoundOr500(c, err, "resource")
		return
	}
	if err := enqueue(ctx, s.queue, res.ID); err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("enqueueing generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue generation"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": res.ID})
}
