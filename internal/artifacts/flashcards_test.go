package artifacts

import (
	"context"
	"errors"
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
}

func (f *fakeTextGen) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return f.response, f.err
}

func putResource(t *testing.T, store *repository.MemoryStore, transcript string) *model.Resource {
	t.Helper()
	res := &model.Resource{
		UserID:     "user-1",
		Type:       model.TypeText,
		Transcript: transcript,
		Status:     model.StatusCompleted,
	}
	store.Put(res)
	return res
}

func TestFlashCardGeneration(t *testing.T) {
	store := repository.NewMemoryStore()
	res := putResource(t, store, "The mitochondria is the powerhouse of the cell.")
	gen := &fakeTextGen{response: `[
		{"front": "What is the powerhouse of the cell?", "back": "The mitochondria."},
		{"front": "  ", "back": "skipped, empty front"},
		{"front": "Define ATP", "back": "Adenosine triphosphate, the cell's energy currency."}
	]`}

	count, err := NewFlashCardGenerator(store, store, gen, zerolog.Nop()).Generate(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	cards := store.FlashCards(res.ID)
	require.Len(t, cards, 2)
	assert.Equal(t, "What is the powerhouse of the cell?", cards[0].Front)
	assert.Equal(t, "The mitochondria.", cards[0].Back)
	assert.Equal(t, "user-1", cards[0].UserID)
}

func TestFlashCardGenerationStripsCodeFences(t *testing.T) {
	store := repository.NewMemoryStore()
	res := putResource(t, store, "content")
	gen := &fakeTextGen{response: "```json\n[{\"front\": \"Q\", \"back\": \"A\"}]\n```"}

	count, err := NewFlashCardGenerator(store, store, gen, zerolog.Nop()).Generate(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFlashCardGenerationParseFailureProducesNothing(t *testing.T) {
	store := repository.NewMemoryStore()
	res := putResource(t, store, "content")
	gen := &fakeTextGen{response: "I could not generate cards for this."}

	count, err := NewFlashCardGenerator(store, store, gen, zerolog.Nop()).Generate(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, store.FlashCards(res.ID))
}

func TestFlashCardGenerationSkipsEmptyTranscript(t *testing.T) {
	store := repository.NewMemoryStore()
	res := putResource(t, store, "   ")
	gen := &fakeTextGen{response: `[{"front": "Q", "back": "A"}]`}

	count, err := NewFlashCardGenerator(store, store, gen, zerolog.Nop()).Generate(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, gen.calls)
}

func TestFlashCardGenerationMissingResource(t *testing.T) {
	store := repository.NewMemoryStore()
	gen := &fakeTextGen{}

	_, err := NewFlashCardGenerator(store, store, gen, zerolog.Nop()).Generate(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"[1]":                       "[1]",
		"```json\n[1]\n```":         "[1]",
		"```\n[1]\n```":             "[1]",
		"  ```json\n[1, 2]\n```  ":  "[1, 2]",
		"```json\n{\"a\": 1}\n```":  `{"a": 1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, stripCodeFences(in), in)
	}
}

var errBoom = errors.New("boom")

func TestFlashCardGenerationBackendErrorProducesNothing(t *testing.T) {
	store := repository.NewMemoryStore()
	res := putResource(t, store, "content")
	gen := &fakeTextGen{err: errBoom}

	count, err := NewFlashCardGenerator(store, store, gen, zerolog.Nop()).Generate(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
