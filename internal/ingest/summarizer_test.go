package ingest

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/repository"
)

func TestSummarizerIdempotent(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{
		UserID:       "user-1",
		Type:         model.TypeText,
		Transcript:   "content",
		SummaryNotes: "existing notes",
	}
	store.Put(res)
	gen := &fakeStructuredGen{response: `{"summary":"new notes","emoji":"🙂"}`}

	NewSummarizer(store, gen, zerolog.Nop()).Run(context.Background(), res)

	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, "existing notes", res.SummaryNotes)
}

func TestSummarizerLoadsTranscriptOnDemand(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{
		UserID:     "user-1",
		Type:       model.TypeText,
		Transcript: "stored transcript",
	}
	store.Put(res)
	gen := &fakeStructuredGen{response: `{"summary":"generated notes","emoji":"📚"}`}

	// The pipeline hands the summarizer a record loaded without its
	// transcript.
	loaded, err := store.Get(context.Background(), res.ID)
	require.NoError(t, err)
	require.Empty(t, loaded.Transcript)

	NewSummarizer(store, gen, zerolog.Nop()).Run(context.Background(), loaded)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "generated notes", loaded.SummaryNotes)
	assert.Equal(t, "📚", loaded.Emoji)
}

func TestSummarizerSkipsEmptyTranscript(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{UserID: "user-1", Type: model.TypeText}
	store.Put(res)
	gen := &fakeStructuredGen{response: `{"summary":"notes","emoji":"🙂"}`}

	NewSummarizer(store, gen, zerolog.Nop()).Run(context.Background(), res)

	assert.Equal(t, 0, gen.calls)
	assert.Empty(t, res.SummaryNotes)
}

func TestSummarizerMalformedResponseLeavesFieldsEmpty(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{UserID: "user-1", Type: model.TypeText, Transcript: "content"}
	store.Put(res)
	gen := &fakeStructuredGen{response: "not json at all"}

	NewSummarizer(store, gen, zerolog.Nop()).Run(context.Background(), res)

	got, err := store.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SummaryNotes)
}
