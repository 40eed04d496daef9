// Package queue defines the asynq task types and enqueue helpers shared
// between the API process (producer) and the worker process (consumer).
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// IngestResourceTask runs the full ingestion pipeline for one resource.
	// Scheduled once at resource creation.
	IngestResourceTask = "resource:ingest"
	// GenerateFlashCardsTask produces flash cards from a resource's transcript.
	GenerateFlashCardsTask = "resource:flashcards"
	// GenerateQuizTask produces quiz questions from a resource's transcript.
	GenerateQuizTask = "resource:quiz"
)

// ResourcePayload identifies the resource a task operates on.
type ResourcePayload struct {
	ResourceID string `json:"resource_id"`
}

// EnqueueIngest schedules the ingestion pipeline for a resource. Ingestion is
// not retried by the queue: the pipeline itself degrades recoverable failures
// into the transcript, and a re-run is triggered explicitly by the user.
func EnqueueIngest(ctx context.Context, client *asynq.Client, resourceID string) error {
	return enqueue(ctx, client, IngestResourceTask, resourceID, asynq.MaxRetry(0))
}

// EnqueueFlashCards schedules flash card generation for a resource.
func EnqueueFlashCards(ctx context.Context, client *asynq.Client, resourceID string) error {
	return enqueue(ctx, client, GenerateFlashCardsTask, resourceID, asynq.MaxRetry(2))
}

// EnqueueQuiz schedules quiz question generation for a resource.
func EnqueueQuiz(ctx context.Context, client *asynq.Client, resourceID string) error {
	return enqueue(ctx, client, GenerateQuizTask, resourceID, asynq.MaxRetry(2))
}

func enqueue(ctx context.Context, client *asynq.Client, taskType, resourceID string, opts ...asynq.Option) error {
	data, err := json.Marshal(ResourcePayload{ResourceID: resourceID})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	if _, err := client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s task: %w", taskType, err)
	}
	return nil
}
