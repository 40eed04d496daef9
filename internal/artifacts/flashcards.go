package artifacts

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/model"
)

const flashCardPrompt = `You are a helpful tutor creating flash cards for a student to help them learn and review material.

You will be given text content (transcript, notes, or document content) and should generate flash cards based on the key concepts, facts, and important information presented.

Each flash card should have:
- A clear, concise question or prompt on the front
- A comprehensive but focused answer on the back

Generate flash cards that test understanding of:
- Key concepts and definitions
- Important facts and figures
- Cause and effect relationships
- Examples and applications
- Critical thinking about the material

Return your response as a JSON array of flash card objects, where each object has "front" and "back" fields.
Example format:
[
  {
    "front": "What is the main concept discussed in the material?",
    "back": "The main concept is..."
  },
  {
    "front": "Define [key term]",
    "back": "[Definition and explanation]"
  }
]

Generate 8-12 high-quality flash cards based on the content. Focus on the most important and testable information.`

// FlashCardGenerator produces flash cards from a resource's transcript.
type FlashCardGenerator struct {
	store ResourceReader
	cards CardWriter
	gen   TextGenerator
	log   zerolog.Logger
}

// NewFlashCardGenerator constructs a FlashCardGenerator.
func NewFlashCardGenerator(store ResourceReader, cards CardWriter, gen TextGenerator, logger zerolog.Logger) *FlashCardGenerator {
	return &FlashCardGenerator{store: store, cards: cards, gen: gen, log: logger}
}

// Generate creates flash cards for a resource and persists them in one batch.
// Missing transcripts, unparseable responses and invalid items all log and
// reduce output rather than returning an error; only a missing resource or a
// persistence failure is reported to the caller.
func (g *FlashCardGenerator) Generate(ctx context.Context, resourceID string) (int, error) {
	res, transcript, err := transcriptFor(ctx, g.store, resourceID)
	if err != nil {
		return 0, err
	}
	if transcript == "" {
		g.log.Warn().Str("resource_id", resourceID).Msg("no transcript available, cannot generate flash cards")
		return 0, nil
	}
	g.log.Info().Str("resource_id", resourceID).Msg("generating flash cards")

	raw, err := g.gen.Complete(ctx, flashCardPrompt, transcript)
	if err != nil {
		g.log.Error().Err(err).Str("resource_id", resourceID).Msg("flash card generation call failed")
		return 0, nil
	}
	var items []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &items); err != nil {
		g.log.Error().Err(err).Str("resource_id", resourceID).Msg("flash card response was not a valid JSON array")
		return 0, nil
	}

	cards := make([]*model.FlashCard, 0, len(items))
	for _, item := range items {
		front := strings.TrimSpace(item.Front)
		back := strings.TrimSpace(item.Back)
		if front == "" || back == "" {
			g.log.Warn().Str("resource_id", resourceID).Msg("skipping flash card with empty front or back")
			continue
		}
		cards = append(cards, &model.FlashCard{
			UserID:     res.UserID,
			ResourceID: res.ID,
			Front:      front,
			Back:       back,
		})
	}
	if len(cards) == 0 {
		g.log.Warn().Str("resource_id", resourceID).Msg("no valid flash cards in response")
		return 0, nil
	}
	if err := g.cards.CreateFlashCards(ctx, cards); err != nil {
		g.log.Error().Err(err).Str("resource_id", resourceID).Msg("saving flash cards failed")
		return 0, err
	}
	g.log.Info().Str("resource_id", resourceID).Int("count", len(cards)).Msg("flash cards generated")
	return len(cards), nil
}
