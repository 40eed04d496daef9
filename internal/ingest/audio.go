package ingest

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/model"
)

// AudioExtractor downloads an audio blob to a scratch file and submits it to
// the speech-to-text backend. The scratch file is deleted on every exit path.
type AudioExtractor struct {
	blobs  BlobDownloader
	speech Transcriber
	log    zerolog.Logger
}

// NewAudioExtractor constructs an AudioExtractor.
func NewAudioExtractor(blobs BlobDownloader, speech Transcriber, logger zerolog.Logger) *AudioExtractor {
	return &AudioExtractor{blobs: blobs, speech: speech, log: logger}
}

// Extract implements Extractor.
func (e *AudioExtractor) Extract(ctx context.Context, res *model.Resource) Result {
	if res.SourceURL == "" {
		return degraded("Transcription failed: no audio file URL on resource")
	}
	path, cleanup, err := e.blobs.DownloadTemp(ctx, res.SourceURL, ".wav")
	if err != nil {
		e.log.Error().Err(err).Str("resource_id", res.ID).Msg("audio download failed")
		return degraded("Transcription failed: %v", err)
	}
	defer cleanup()

	text, err := e.speech.TranscribeFile(ctx, path)
	if err != nil {
		e.log.Error().Err(err).Str("resource_id", res.ID).Msg("speech-to-text failed")
		return degraded("Transcription failed: %v", err)
	}
	if text == "" {
		return degraded("Transcription failed: transcription returned empty text")
	}
	e.log.Info().Str("resource_id", res.ID).Int("chars", len(text)).Msg("audio transcribed")
	return extracted(text)
}
