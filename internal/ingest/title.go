package ingest

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/model"
)

const titlePrompt = `You are helping to name 'documents' based on text that will be given to you by the user.
The user will provide text and you should give the 'document' a title based on the content of the text.
It will only be the beginning/introduction of the text and may be cut off, so keep this in mind.
The title should be short and concise, like the title of an article or a chat conversation name.`

const (
	maxTitleLength = 200
	// Only the first characters of the summary are sent to the backend; the
	// sample is trimmed back to the last sentence boundary when that boundary
	// still leaves meaningful content.
	titleSampleLength  = 1500
	titleSampleMinimum = 750
)

// MetadataFetcher returns a video's platform-provided title.
type MetadataFetcher interface {
	Title(ctx context.Context, videoURL string) (string, error)
}

// TextTitleGenerator derives a short title from the resource's summary notes
// via a free-text generation call. Idempotent and non-critical.
type TextTitleGenerator struct {
	store RecordStore
	gen   TextGenerator
	log   zerolog.Logger
}

// NewTextTitleGenerator constructs a TextTitleGenerator.
func NewTextTitleGenerator(store RecordStore, gen TextGenerator, logger zerolog.Logger) *TextTitleGenerator {
	return &TextTitleGenerator{store: store, gen: gen, log: logger}
}

// Generate implements TitleGenerator.
func (g *TextTitleGenerator) Generate(ctx context.Context, res *model.Resource) {
	if res.Title != "" {
		g.log.Info().Str("resource_id", res.ID).Str("title", res.Title).Msg("resource already has a title")
		return
	}
	if res.SummaryNotes == "" {
		g.log.Warn().Str("resource_id", res.ID).Msg("no summary notes available, cannot generate title")
		return
	}
	sample := titleSample(res.SummaryNotes)
	title, err := g.gen.Complete(ctx, titlePrompt, sample)
	if err != nil {
		g.log.Error().Err(err).Str("resource_id", res.ID).Msg("title generation failed")
		return
	}
	title = cleanTitle(title)
	if title == "" {
		g.log.Error().Str("resource_id", res.ID).Msg("title generation returned empty title")
		return
	}
	if err := g.store.SetTitle(ctx, res.ID, title); err != nil {
		g.log.Error().Err(err).Str("resource_id", res.ID).Msg("saving title failed")
		return
	}
	res.Title = title
	g.log.Info().Str("resource_id", res.ID).Str("title", title).Msg("title generated")
}

// VideoTitleGenerator takes the platform-provided video title instead of
// generating one. It shadows the text-derived generator for the youtube_link
// type.
type VideoTitleGenerator struct {
	store RecordStore
	meta  MetadataFetcher
	log   zerolog.Logger
}

// NewVideoTitleGenerator constructs a VideoTitleGenerator.
func NewVideoTitleGenerator(store RecordStore, meta MetadataFetcher, logger zerolog.Logger) *VideoTitleGenerator {
	return &VideoTitleGenerator{store: store, meta: meta, log: logger}
}

// Generate implements TitleGenerator.
func (g *VideoTitleGenerator) Generate(ctx context.Context, res *model.Resource) {
	if res.Title != "" {
		g.log.Info().Str("resource_id", res.ID).Str("title", res.Title).Msg("resource already has a title")
		return
	}
	if res.SourceURL == "" {
		g.log.Warn().Str("resource_id", res.ID).Msg("no video URL available, cannot fetch title")
		return
	}
	title, err := g.meta.Title(ctx, res.SourceURL)
	if err != nil {
		g.log.Error().Err(err).Str("resource_id", res.ID).Msg("video title lookup failed")
		return
	}
	title = truncate(strings.TrimSpace(title), maxTitleLength)
	if title == "" {
		g.log.Warn().Str("resource_id", res.ID).Msg("video metadata carried no title")
		return
	}
	if err := g.store.SetTitle(ctx, res.ID, title); err != nil {
		g.log.Error().Err(err).Str("resource_id", res.ID).Msg("saving title failed")
		return
	}
	res.Title = title
	g.log.Info().Str("resource_id", res.ID).Str("title", title).Msg("video title fetched")
}

// titleSample returns the head of the summary, trimmed back to the last
// sentence boundary when cutting mid-thought can be avoided.
func titleSample(notes string) string {
	runes := []rune(notes)
	if len(runes) <= titleSampleLength {
		return notes
	}
	sample := string(runes[:titleSampleLength])
	if end := strings.LastIndexAny(sample, ".!?"); end > titleSampleMinimum {
		sample = sample[:end+1]
	}
	return sample
}

func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'`)
	return strings.TrimSpace(truncate(title, maxTitleLength))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
