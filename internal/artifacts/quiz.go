package artifacts

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/model"
)

const quizPrompt = `You are a helpful tutor creating multiple choice quiz questions for a student to help them test their understanding of the material.

You will be given text content (transcript, notes, or document content) and should generate multiple choice questions based on the key concepts, facts, and important information presented.

Each question should have:
- A clear, specific question
- 4 multiple choice options (A, B, C, D)
- Only one correct answer
- Plausible distractors (incorrect options that seem reasonable)

Generate questions that test:
- Key concepts and definitions
- Important facts and figures
- Cause and effect relationships
- Applications and examples
- Analysis and critical thinking

Return your response as a JSON array of question objects, where each object has "question", "options", and "correct_option" fields.
The "options" field should be an array of 4 strings (the answer choices).
The "correct_option" field should be the exact text of the correct answer (not just A, B, C, or D).

Example format:
[
  {
    "question": "What is the main concept discussed in the material?",
    "options": [
      "Option A description",
      "Option B description",
      "Option C description",
      "Option D description"
    ],
    "correct_option": "Option B description"
  }
]

Generate 8-12 high-quality multiple choice questions based on the content. Focus on the most important and testable information.`

const quizOptionCount = 4

// QuizGenerator produces multiple-choice quiz questions from a resource's
// transcript.
type QuizGenerator struct {
	store     ResourceReader
	questions QuestionWriter
	gen       TextGenerator
	log       zerolog.Logger
}

// NewQuizGenerator constructs a QuizGenerator.
func NewQuizGenerator(store ResourceReader, questions QuestionWriter, gen TextGenerator, logger zerolog.Logger) *QuizGenerator {
	return &QuizGenerator{store: store, questions: questions, gen: gen, log: logger}
}

// Generate creates quiz questions for a resource and persists them in one
// batch. Items must carry exactly four options with the correct option
// present verbatim among them; anything else is skipped with a warning.
func (g *QuizGenerator) Generate(ctx context.Context, resourceID string) (int, error) {
	res, transcript, err := transcriptFor(ctx, g.store, resourceID)
	if err != nil {
		return 0, err
	}
	if transcript == "" {
		g.log.Warn().Str("resource_id", resourceID).Msg("no transcript available, cannot generate quiz questions")
		return 0, nil
	}
	g.log.Info().Str("resource_id", resourceID).Msg("generating quiz questions")

	raw, err := g.gen.Complete(ctx, quizPrompt, transcript)
	if err != nil {
		g.log.Error().Err(err).Str("resource_id", resourceID).Msg("quiz generation call failed")
		return 0, nil
	}
	var items []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectOption string   `json:"correct_option"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &items); err != nil {
		g.log.Error().Err(err).Str("resource_id", resourceID).Msg("quiz response was not a valid JSON array")
		return 0, nil
	}

	questions := make([]*model.QuizQuestion, 0, len(items))
	for _, item := range items {
		question := strings.TrimSpace(item.Question)
		if question == "" {
			g.log.Warn().Str("resource_id", resourceID).Msg("skipping quiz question with empty question text")
			continue
		}
		if len(item.Options) != quizOptionCount {
			g.log.Warn().Str("resource_id", resourceID).Int("options", len(item.Options)).Msg("skipping quiz question with wrong option count")
			continue
		}
		if !containsOption(item.Options, item.CorrectOption) {
			g.log.Warn().Str("resource_id", resourceID).Msg("skipping quiz question whose correct option is not among the options")
			continue
		}
		questions = append(questions, &model.QuizQuestion{
			UserID:        res.UserID,
			ResourceID:    res.ID,
			Question:      question,
			Options:       item.Options,
			CorrectOption: strings.TrimSpace(item.CorrectOption),
		})
	}
	if len(questions) == 0 {
		g.log.Warn().Str("resource_id", resourceID).Msg("no valid quiz questions in response")
		return 0, nil
	}
	if err := g.questions.CreateQuizQuestions(ctx, questions); err != nil {
		g.log.Error().Err(err).Str("resource_id", resourceID).Msg("saving quiz questions failed")
		return 0, err
	}
	g.log.Info().Str("resource_id", resourceID).Int("count", len(questions)).Msg("quiz questions generated")
	return len(questions), nil
}

func containsOption(options []string, want string) bool {
	for _, opt := range options {
		if opt == want {
			return true
		}
	}
	return false
}
