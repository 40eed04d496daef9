// Package worker plugs the ingestion pipeline and artifact generators into
// the asynq worker loop.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/artifacts"
	"github.com/rcollings/studyforge/internal/ingest"
	"github.com/rcollings/studyforge/internal/queue"
)

// Processor dispatches queued tasks to the pipeline components.
type Processor struct {
	orchestrator *ingest.Orchestrator
	flashCards   *artifacts.FlashCardGenerator
	quiz         *artifacts.QuizGenerator
	log          zerolog.Logger
}

// NewProcessor constructs a worker processor.
func NewProcessor(
	orchestrator *ingest.Orchestrator,
	flashCards *artifacts.FlashCardGenerator,
	quiz *artifacts.QuizGenerator,
	logger zerolog.Logger,
) *Processor {
	return &Processor{orchestrator: orchestrator, flashCards: flashCards, quiz: quiz, log: logger}
}

// Handler registers all task handlers.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.IngestResourceTask, p.handleIngest)
	mux.HandleFunc(queue.GenerateFlashCardsTask, p.handleFlashCards)
	mux.HandleFunc(queue.GenerateQuizTask, p.handleQuiz)
	return mux
}

func (p *Processor) handleIngest(ctx context.Context, task *asynq.Task) error {
	payload, err := decodePayload(task)
	if err != nil {
		return err
	}
	if err := p.orchestrator.Ingest(ctx, payload.ResourceID); err != nil {
		p.log.Error().Err(err).Str("resource_id", payload.ResourceID).Msg("ingest task failed")
		return err
	}
	return nil
}

func (p *Processor) handleFlashCards(ctx context.Context, task *asynq.Task) error {
	payload, err := decodePayload(task)
	if err != nil {
		return err
	}
	if _, err := p.flashCards.Generate(ctx, payload.ResourceID); err != nil {
		p.log.Error().Err(err).Str("resource_id", payload.ResourceID).Msg("flash card task failed")
		return err
	}
	return nil
}

func (p *Processor) handleQuiz(ctx context.Context, task *asynq.Task) error {
	payload, err := decodePayload(task)
	if err != nil {
		return err
	}
	if _, err := p.quiz.Generate(ctx, payload.ResourceID); err != nil {
		p.log.Error().Err(err).Str("resource_id", payload.ResourceID).Msg("quiz task failed")
		return err
	}
	return nil
}

func decodePayload(task *asynq.Task) (queue.ResourcePayload, error) {
	var payload queue.ResourcePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode payload: %w", err)
	}
	if payload.ResourceID == "" {
		return payload, fmt.Errorf("task payload missing resource id")
	}
	return payload, nil
}
