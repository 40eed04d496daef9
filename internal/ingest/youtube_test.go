package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/youtube"
)

type fakeTranscripts struct {
	segments []youtube.Segment
	err      error
	videoID  string
}

func (f *fakeTranscripts) Fetch(ctx context.Context, videoID string) ([]youtube.Segment, error) {
	f.videoID = videoID
	return f.segments, f.err
}

func TestYouTubeExtraction(t *testing.T) {
	fetcher := &fakeTranscripts{segments: []youtube.Segment{
		{Text: "welcome to the course", Start: 0, Duration: 2},
		{Text: "Today we cover heat transfer", Start: 2, Duration: 3},
	}}
	res := &model.Resource{ID: "r1", SourceURL: "https://youtu.be/abcDEFghi12"}

	out := NewYouTubeExtractor(fetcher, zerolog.Nop()).Extract(context.Background(), res)

	require.False(t, out.Degraded)
	assert.Equal(t, "abcDEFghi12", fetcher.videoID)
	assert.Equal(t, "Welcome to the course. Today we cover heat transfer", out.Text)
}

func TestYouTubeExtractionDegradesOnBadURL(t *testing.T) {
	res := &model.Resource{ID: "r1", SourceURL: "https://example.com/video"}

	out := NewYouTubeExtractor(&fakeTranscripts{}, zerolog.Nop()).Extract(context.Background(), res)

	assert.True(t, out.Degraded)
	assert.Contains(t, out.Text, "Transcript not available")
}

func TestYouTubeExtractionDegradesWithoutCaptions(t *testing.T) {
	fetcher := &fakeTranscripts{err: errors.New("no captions available for video")}
	res := &model.Resource{ID: "r1", SourceURL: "https://youtu.be/abcDEFghi12"}

	out := NewYouTubeExtractor(fetcher, zerolog.Nop()).Extract(context.Background(), res)

	assert.True(t, out.Degraded)
	assert.Contains(t, out.Text, "no captions available")
}
