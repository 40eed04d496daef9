// Package artifacts generates supplementary study material from a resource's
// transcript: flash cards and multiple-choice quiz questions.
//
// Both generators are best-effort. A missing transcript or an unparseable
// generation response produces zero artifacts and never touches the
// resource's status; invalid items inside an otherwise good response are
// filtered individually.
package artifacts

import (
	"context"
	"strings"

	"github.com/rcollings/studyforge/internal/model"
)

// ResourceReader is the read slice of the record store the generators need.
type ResourceReader interface {
	Get(ctx context.Context, id string) (*model.Resource, error)
	LoadTranscript(ctx context.Context, id string) (string, error)
}

// CardWriter persists a batch of flash cards atomically.
type CardWriter interface {
	CreateFlashCards(ctx context.Context, cards []*model.FlashCard) error
}

// QuestionWriter persists a batch of quiz questions atomically.
type QuestionWriter interface {
	CreateQuizQuestions(ctx context.Context, questions []*model.QuizQuestion) error
}

// TextGenerator produces free text from a system+user prompt pair.
type TextGenerator interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// stripCodeFences removes an optional markdown code fence wrapper from a
// generation response, with or without a language tag.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first != "" && !strings.ContainsAny(first, " \t{[") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// transcriptFor loads the transcript for a resource, preferring the copy
// already on the struct.
func transcriptFor(ctx context.Context, store ResourceReader, resourceID string) (*model.Resource, string, error) {
	res, err := store.Get(ctx, resourceID)
	if err != nil {
		return nil, "", err
	}
	transcript := res.Transcript
	if transcript == "" {
		transcript, err = store.LoadTranscript(ctx, resourceID)
		if err != nil {
			return nil, "", err
		}
	}
	return res, strings.TrimSpace(transcript), nil
}
