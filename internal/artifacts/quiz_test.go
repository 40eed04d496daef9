package artifacts

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollings/studyforge/internal/repository"
)

func TestQuizGenerationValidatesOptions(t *testing.T) {
	store := repository.NewMemoryStore()
	res := putResource(t, store, "European capitals.")
	gen := &fakeTextGen{response: `[
		{
			"question": "What is the capital of France?",
			"options": ["Paris", "London", "Berlin", "Madrid"],
			"correct_option": "Paris"
		},
		{
			"question": "Too few options",
			"options": ["A", "B", "C"],
			"correct_option": "A"
		},
		{
			"question": "Too many options",
			"options": ["A", "B", "C", "D", "E"],
			"correct_option": "A"
		},
		{
			"question": "Correct answer not verbatim in options",
			"options": ["A", "B", "C", "D"],
			"correct_option": "a"
		}
	]`}

	count, err := NewQuizGenerator(store, store, gen, zerolog.Nop()).Generate(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	questions := store.QuizQuestions(res.ID)
	require.Len(t, questions, 1)
	q := questions[0]
	assert.Equal(t, "What is the capital of France?", q.Question)
	assert.Equal(t, []string{"Paris", "London", "Berlin", "Madrid"}, q.Options)
	assert.Equal(t, "Paris", q.CorrectOption)
	assert.Equal(t, "user-1", q.UserID)
}

func TestQuizGenerationParseFailureProducesNothing(t *testing.T) {
	store := repository.NewMemoryStore()
	res := putResource(t, store, "content")
	gen := &fakeTextGen{response: `{"question": "an object, not an array"}`}

	count, err := NewQuizGenerator(store, store, gen, zerolog.Nop()).Generate(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, store.QuizQuestions(res.ID))
}

func TestQuizGenerationStripsCodeFences(t *testing.T) {
	store := repository.NewMemoryStore()
	res := putResource(t, store, "content")
	gen := &fakeTextGen{response: "```json\n" + `[{
		"question": "Q?",
		"options": ["A", "B", "C", "D"],
		"correct_option": "B"
	}]` + "\n```"}

	count, err := NewQuizGenerator(store, store, gen, zerolog.Nop()).Generate(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQuizGenerationSkipsEmptyTranscript(t *testing.T) {
	store := repository.NewMemoryStore()
	res := putResource(t, store, "")
	gen := &fakeTextGen{}

	count, err := NewQuizGenerator(store, store, gen, zerolog.Nop()).Generate(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, gen.calls)
}
