package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/model"
)

// Orchestrator sequences the ingestion pipeline for one resource:
//
//	processing --(extractor registered for type)--> extracting --> summarizing --> completed
//	processing --(no extractor for type)----------> summarizing --> completed
//	any non-terminal state --(unexpected error)---> failed
//
// Extraction, summarization and title generation degrade internally instead
// of failing, so the failed status is reserved for structural problems: the
// record disappearing mid-pipeline or a record-store write failing.
type Orchestrator struct {
	store      RecordStore
	summarizer *Summarizer
	extractors map[model.ResourceType]Extractor
	titles     map[model.ResourceType]TitleGenerator
	log        zerolog.Logger
}

// NewOrchestrator constructs an Orchestrator. Types absent from extractors
// carry their content from creation time (plain text today) and skip the
// extracting status entirely.
func NewOrchestrator(
	store RecordStore,
	summarizer *Summarizer,
	extractors map[model.ResourceType]Extractor,
	titles map[model.ResourceType]TitleGenerator,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:      store,
		summarizer: summarizer,
		extractors: extractors,
		titles:     titles,
		log:        logger,
	}
}

// Ingest runs the pipeline for a resource id. A missing resource is returned
// to the caller without touching any state; any other error marks the
// resource failed and is re-raised for logging and alerting.
func (o *Orchestrator) Ingest(ctx context.Context, resourceID string) (err error) {
	res, err := o.store.Get(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("load resource %s: %w", resourceID, err)
	}
	o.log.Info().Str("resource_id", resourceID).Str("type", string(res.Type)).Msg("ingesting resource")

	defer func() {
		if r := recover(); r != nil {
			err = o.fail(ctx, resourceID, fmt.Errorf("pipeline panic: %v", r))
		}
	}()

	if extractor, ok := o.extractors[res.Type]; ok {
		if err := o.store.UpdateStatus(ctx, resourceID, model.StatusExtracting); err != nil {
			return o.fail(ctx, resourceID, err)
		}
		out := extractor.Extract(ctx, res)
		if out.Degraded {
			o.log.Warn().Str("resource_id", resourceID).Str("reason", out.Reason).Msg("extraction degraded to placeholder")
		}
		if err := o.store.SetTranscript(ctx, resourceID, out.Text); err != nil {
			return o.fail(ctx, resourceID, err)
		}
		res.Transcript = out.Text
	}

	if err := o.store.UpdateStatus(ctx, resourceID, model.StatusSummarizing); err != nil {
		return o.fail(ctx, resourceID, err)
	}
	o.summarizer.Run(ctx, res)

	if generator, ok := o.titles[res.Type]; ok {
		generator.Generate(ctx, res)
	}

	if err := o.store.UpdateStatus(ctx, resourceID, model.StatusCompleted); err != nil {
		return o.fail(ctx, resourceID, err)
	}
	o.log.Info().Str("resource_id", resourceID).Msg("resource ingested")
	return nil
}

// fail reloads the resource and marks it failed, then re-raises the cause.
// The reload guards against acting on stale in-memory state.
func (o *Orchestrator) fail(ctx context.Context, resourceID string, cause error) error {
	o.log.Error().Err(cause).Str("resource_id", resourceID).Msg("ingestion failed")
	if _, err := o.store.Get(ctx, resourceID); err != nil {
		o.log.Error().Err(err).Str("resource_id", resourceID).Msg("could not reload resource to mark failed")
	} else if err := o.store.UpdateStatus(ctx, resourceID, model.StatusFailed); err != nil {
		o.log.Error().Err(err).Str("resource_id", resourceID).Msg("could not mark resource failed")
	}
	return fmt.Errorf("ingest resource %s: %w", resourceID, cause)
}
