package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/repository"
)

type fakeTextGen struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (f *fakeTextGen) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.lastUser = user
	return f.response, f.err
}

type fakeMetadata struct {
	title string
	err   error
	calls int
}

func (f *fakeMetadata) Title(ctx context.Context, videoURL string) (string, error) {
	f.calls++
	return f.title, f.err
}

func TestTextTitleGeneratorIdempotent(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{UserID: "user-1", Type: model.TypeText, Title: "Already Named", SummaryNotes: "notes"}
	store.Put(res)
	gen := &fakeTextGen{response: "A Different Title"}

	NewTextTitleGenerator(store, gen, zerolog.Nop()).Generate(context.Background(), res)

	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, "Already Named", res.Title)
}

func TestTextTitleGeneratorSetsCleanedTitle(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{UserID: "user-1", Type: model.TypeText, SummaryNotes: "The notes body."}
	store.Put(res)
	gen := &fakeTextGen{response: `"Intro to Cell Biology"` + "\n"}

	NewTextTitleGenerator(store, gen, zerolog.Nop()).Generate(context.Background(), res)

	assert.Equal(t, "Intro to Cell Biology", res.Title)
	got, err := store.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Intro to Cell Biology", got.Title)
}

func TestTextTitleGeneratorRequiresSummary(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{UserID: "user-1", Type: model.TypeText}
	store.Put(res)
	gen := &fakeTextGen{response: "Title"}

	NewTextTitleGenerator(store, gen, zerolog.Nop()).Generate(context.Background(), res)

	assert.Equal(t, 0, gen.calls)
	assert.Empty(t, res.Title)
}

func TestTextTitleGeneratorSamplesLongSummaries(t *testing.T) {
	store := repository.NewMemoryStore()
	sentence := strings.Repeat("x", 999) + "."
	res := &model.Resource{
		UserID:       "user-1",
		Type:         model.TypeText,
		SummaryNotes: sentence + " " + strings.Repeat("y", 2000),
	}
	store.Put(res)
	gen := &fakeTextGen{response: "Long Summary Title"}

	NewTextTitleGenerator(store, gen, zerolog.Nop()).Generate(context.Background(), res)

	require.Equal(t, 1, gen.calls)
	// The 1500-character sample is trimmed back to the sentence boundary at
	// position 1000.
	assert.Equal(t, sentence, gen.lastUser)
}

func TestTextTitleGeneratorTruncatesAt200(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{UserID: "user-1", Type: model.TypeText, SummaryNotes: "notes"}
	store.Put(res)
	gen := &fakeTextGen{response: strings.Repeat("t", 300)}

	NewTextTitleGenerator(store, gen, zerolog.Nop()).Generate(context.Background(), res)

	assert.Len(t, res.Title, 200)
}

func TestVideoTitleGeneratorUsesPlatformTitle(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{
		UserID:    "user-1",
		Type:      model.TypeYouTubeLink,
		SourceURL: "https://youtu.be/abcDEFghi12",
	}
	store.Put(res)
	meta := &fakeMetadata{title: "  Lecture 4: Thermodynamics  "}

	NewVideoTitleGenerator(store, meta, zerolog.Nop()).Generate(context.Background(), res)

	assert.Equal(t, 1, meta.calls)
	assert.Equal(t, "Lecture 4: Thermodynamics", res.Title)
}

func TestVideoTitleGeneratorIdempotent(t *testing.T) {
	store := repository.NewMemoryStore()
	res := &model.Resource{UserID: "user-1", Type: model.TypeYouTubeLink, Title: "Kept", SourceURL: "https://youtu.be/abcDEFghi12"}
	store.Put(res)
	meta := &fakeMetadata{title: "Other"}

	NewVideoTitleGenerator(store, meta, zerolog.Nop()).Generate(context.Background(), res)

	assert.Equal(t, 0, meta.calls)
	assert.Equal(t, "Kept", res.Title)
}
