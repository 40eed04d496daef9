package ingest

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/youtube"
)

// TranscriptFetcher fetches the caption segments for a video id.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) ([]youtube.Segment, error)
}

// YouTubeExtractor fetches a video's caption transcript and reflows it into
// readable paragraphs. Videos without captions degrade to a placeholder; the
// partial knowledge that no transcript exists is still useful downstream.
type YouTubeExtractor struct {
	transcripts TranscriptFetcher
	log         zerolog.Logger
}

// NewYouTubeExtractor constructs a YouTubeExtractor.
func NewYouTubeExtractor(transcripts TranscriptFetcher, logger zerolog.Logger) *YouTubeExtractor {
	return &YouTubeExtractor{transcripts: transcripts, log: logger}
}

// Extract implements Extractor.
func (e *YouTubeExtractor) Extract(ctx context.Context, res *model.Resource) Result {
	if res.SourceURL == "" {
		return degraded("Transcript not available: no video URL on resource")
	}
	videoID, err := youtube.ExtractVideoID(res.SourceURL)
	if err != nil {
		e.log.Error().Err(err).Str("resource_id", res.ID).Msg("unparseable video url")
		return degraded("Transcript not available: %v", err)
	}
	segments, err := e.transcripts.Fetch(ctx, videoID)
	if err != nil {
		e.log.Error().Err(err).Str("resource_id", res.ID).Str("video_id", videoID).Msg("transcript fetch failed")
		return degraded("Transcript not available: %v", err)
	}
	formatted := youtube.FormatTranscript(segments)
	e.log.Info().Str("resource_id", res.ID).Int("chars", len(formatted)).Msg("transcript fetched and formatted")
	return extracted(formatted)
}
