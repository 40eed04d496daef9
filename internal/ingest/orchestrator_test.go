package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollings/studyforge/internal/genai"
	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/repository"
)

type fakeStructuredGen struct {
	response string
	err      error
	calls    int
}

func (f *fakeStructuredGen) CompleteStructured(ctx context.Context, system, user, name string, schema genai.Schema) (string, error) {
	f.calls++
	return f.response, f.err
}

type fakeExtractor struct {
	result Result
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, res *model.Resource) Result {
	f.calls++
	return f.result
}

func newTestOrchestrator(store *repository.MemoryStore, gen *fakeStructuredGen, extractors map[model.ResourceType]Extractor) *Orchestrator {
	logger := zerolog.Nop()
	return NewOrchestrator(store, NewSummarizer(store, gen, logger), extractors, nil, logger)
}

func TestIngestTextResourceSkipsExtracting(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{
		UserID:     "user-1",
		Type:       model.TypeText,
		Transcript: "Photosynthesis converts light into chemical energy.",
		Status:     model.StatusProcessing,
	}
	store.Put(res)
	gen := &fakeStructuredGen{response: `{"summary":"## Notes\nLight becomes chemical energy.","emoji":"🌱"}`}

	orch := newTestOrchestrator(store, gen, nil)
	require.NoError(t, orch.Ingest(context.Background(), res.ID))

	assert.Equal(t, []model.ResourceStatus{model.StatusSummarizing, model.StatusCompleted}, store.Statuses)
	assert.NotContains(t, store.Statuses, model.StatusExtracting)

	got, err := store.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, "## Notes\nLight becomes chemical energy.", got.SummaryNotes)
	assert.Equal(t, "🌱", got.Emoji)
	assert.Equal(t, 1, gen.calls)
}

func TestIngestExtractingPath(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{
		UserID: "user-1",
		Type:   model.TypeAudio,
		Status: model.StatusProcessing,
	}
	store.Put(res)
	extractor := &fakeExtractor{result: extracted("lecture contents")}
	gen := &fakeStructuredGen{response: `{"summary":"notes","emoji":"🎧"}`}

	orch := newTestOrchestrator(store, gen, map[model.ResourceType]Extractor{model.TypeAudio: extractor})
	require.NoError(t, orch.Ingest(context.Background(), res.ID))

	assert.Equal(t, []model.ResourceStatus{
		model.StatusExtracting,
		model.StatusSummarizing,
		model.StatusCompleted,
	}, store.Statuses)
	assert.Equal(t, 1, extractor.calls)

	transcript, err := store.LoadTranscript(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "lecture contents", transcript)
}

func TestIngestDegradedExtractionStillCompletes(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{
		UserID: "user-1",
		Type:   model.TypeAudio,
		Status: model.StatusProcessing,
	}
	store.Put(res)
	extractor := &fakeExtractor{result: degraded("Transcription failed: object not found")}
	gen := &fakeStructuredGen{response: `{"summary":"notes about the failure","emoji":"🤔"}`}

	orch := newTestOrchestrator(store, gen, map[model.ResourceType]Extractor{model.TypeAudio: extractor})
	require.NoError(t, orch.Ingest(context.Background(), res.ID))

	got, err := store.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	transcript, err := store.LoadTranscript(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Transcription failed: object not found", transcript)
}

func TestIngestMissingResourceLeavesNoState(t *testing.T) {
	store := repository.NewMemoryStore()
	gen := &fakeStructuredGen{}

	orch := newTestOrchestrator(store, gen, nil)
	err := orch.Ingest(context.Background(), "no-such-id")

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, store.Statuses)
	assert.Equal(t, 0, gen.calls)
}

func TestIngestStoreFailureMarksFailed(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{
		UserID:     "user-1",
		Type:       model.TypeText,
		Transcript: "content",
		Status:     model.StatusProcessing,
	}
	store.Put(res)
	boom := errors.New("connection reset")
	store.StatusErr = func(status model.ResourceStatus) error {
		if status == model.StatusSummarizing {
			return boom
		}
		return nil
	}
	gen := &fakeStructuredGen{response: `{"summary":"notes","emoji":"🙂"}`}

	orch := newTestOrchestrator(store, gen, nil)
	err := orch.Ingest(context.Background(), res.ID)

	assert.ErrorIs(t, err, boom)
	got, getErr := store.Get(context.Background(), res.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.StatusFailed, got.Status)
	assert.Equal(t, 0, gen.calls)
}

func TestIngestSummarizerFailureIsNonFatal(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{
		UserID:     "user-1",
		Type:       model.TypeText,
		Transcript: "content",
		Status:     model.StatusProcessing,
	}
	store.Put(res)
	gen := &fakeStructuredGen{err: errors.New("backend unavailable")}

	orch := newTestOrchestrator(store, gen, nil)
	require.NoError(t, orch.Ingest(context.Background(), res.ID))

	got, err := store.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Empty(t, got.SummaryNotes)
}
