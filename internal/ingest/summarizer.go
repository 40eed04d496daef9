package ingest

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/genai"
	"github.com/rcollings/studyforge/internal/model"
)

const summarizePrompt = `You are a tutor that is helping a student learn.
You will be given a string of text by the student. This text may be the transcript of a lecture, a book, or other documents the student wants to learn from.
Your job is to provide summary notes in markdown format for the student to learn from.
The summary should cover all the key points and main ideas presented in the original text, while condensing the information into a concise and easy-to-understand format. Include relevant details and examples that support the main ideas, while avoiding unnecessary information or repetition. The length of the summary should be appropriate for the length and complexity of the original text.
Also pick a single emoji that best represents the content.
Respond with a JSON object holding the summary and the emoji.`

var summarySchema = genai.Schema{
	"type": "object",
	"properties": map[string]any{
		"summary": map[string]any{"type": "string"},
		"emoji":   map[string]any{"type": "string"},
	},
	"required":             []string{"summary", "emoji"},
	"additionalProperties": false,
}

// StructuredGenerator produces schema-constrained JSON output.
type StructuredGenerator interface {
	CompleteStructured(ctx context.Context, system, user, name string, schema genai.Schema) (string, error)
}

// Summarizer turns a transcript into condensed study notes plus a
// representative emoji. It is idempotent and non-critical: failures are
// logged and skipped, leaving the fields empty for a later retry.
type Summarizer struct {
	store RecordStore
	gen   StructuredGenerator
	log   zerolog.Logger
}

// NewSummarizer constructs a Summarizer.
func NewSummarizer(store RecordStore, gen StructuredGenerator, logger zerolog.Logger) *Summarizer {
	return &Summarizer{store: store, gen: gen, log: logger}
}

// Run generates summary notes for the resource. It mutates res in place on
// success so later stages see the fresh notes.
func (s *Summarizer) Run(ctx context.Context, res *model.Resource) {
	if res.SummaryNotes != "" {
		s.log.Info().Str("resource_id", res.ID).Msg("resource already has summary notes")
		return
	}
	transcript := res.Transcript
	if transcript == "" {
		loaded, err := s.store.LoadTranscript(ctx, res.ID)
		if err != nil {
			s.log.Error().Err(err).Str("resource_id", res.ID).Msg("loading transcript for summary failed")
			return
		}
		transcript = loaded
	}
	if transcript == "" {
		s.log.Warn().Str("resource_id", res.ID).Msg("no transcript available, cannot generate summary")
		return
	}
	raw, err := s.gen.CompleteStructured(ctx, summarizePrompt, transcript, "resource_summary", summarySchema)
	if err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("summary generation failed")
		return
	}
	var parsed struct {
		Summary string `json:"summary"`
		Emoji   string `json:"emoji"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("summary response was not valid JSON")
		return
	}
	if parsed.Summary == "" {
		s.log.Error().Str("resource_id", res.ID).Msg("summary generation returned empty summary")
		return
	}
	if err := s.store.SetSummary(ctx, res.ID, parsed.Summary, parsed.Emoji); err != nil {
		s.log.Error().Err(err).Str("resource_id", res.ID).Msg("saving summary failed")
		return
	}
	res.SummaryNotes = parsed.Summary
	if parsed.Emoji != "" {
		res.Emoji = parsed.Emoji
	}
	s.log.Info().Str("resource_id", res.ID).Int("chars", len(parsed.Summary)).Msg("summary generated")
}
