package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rcollings/studyforge/internal/model"
)

// MemoryStore is an in-memory record store mirroring the pgx repositories. It
// backs the pipeline tests, where spinning up PostgreSQL is overkill. RWMutex
// lets multiple readers proceed concurrently while writers get exclusive
// access.
type MemoryStore struct {
	mu        sync.RWMutex
	resources map[string]*model.Resource
	images    map[string][]*model.ResourceImage
	cards     map[string][]*model.FlashCard
	questions map[string][]*model.QuizQuestion

	// Statuses records every status transition in order, so tests can assert
	// on the exact path a resource took through the pipeline.
	Statuses []model.ResourceStatus

	// StatusErr, when set, is consulted on every status update so tests can
	// force persistence failures.
	StatusErr func(status model.ResourceStatus) error
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resources: make(map[string]*model.Resource),
		images:    make(map[string][]*model.ResourceImage),
		cards:     make(map[string][]*model.FlashCard),
		questions: make(map[string][]*model.QuizQuestion),
	}
}

// Put inserts or replaces a resource.
func (m *MemoryStore) Put(res *model.Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now
	m.resources[res.ID] = res
}

// Get returns a copy of a resource without its transcript, matching the
// deferred-load behavior of the SQL repository.
func (m *MemoryStore) Get(ctx context.Context, id string) (*model.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *res
	cp.Transcript = ""
	return &cp, nil
}

// UpdateStatus updates the status and records the transition.
func (m *MemoryStore) UpdateStatus(ctx context.Context, id string, status model.ResourceStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatusErr != nil {
		if err := m.StatusErr(status); err != nil {
			return err
		}
	}
	res, ok := m.resources[id]
	if !ok {
		return ErrNotFound
	}
	res.Status = status
	res.UpdatedAt = time.Now().UTC()
	m.Statuses = append(m.Statuses, status)
	return nil
}

// SetTranscript stores extraction output.
func (m *MemoryStore) SetTranscript(ctx context.Context, id, transcript string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.resources[id]
	if !ok {
		return ErrNotFound
	}
	res.Transcript = transcript
	res.UpdatedAt = time.Now().UTC()
	return nil
}

// SetSummary stores summary notes; the emoji is only overwritten when one was
// produced.
func (m *MemoryStore) SetSummary(ctx context.Context, id, notes, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.resources[id]
	if !ok {
		return ErrNotFound
	}
	res.SummaryNotes = notes
	if emoji != "" {
		res.Emoji = emoji
	}
	res.UpdatedAt = time.Now().UTC()
	return nil
}

// SetTitle stores a title unless one is already present.
func (m *MemoryStore) SetTitle(ctx context.Context, id, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.resources[id]
	if !ok {
		return ErrNotFound
	}
	if res.Title == "" {
		res.Title = title
		res.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// LoadTranscript returns the stored transcript.
func (m *MemoryStore) LoadTranscript(ctx context.Context, id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.resources[id]
	if !ok {
		return "", ErrNotFound
	}
	return res.Transcript, nil
}

// AddImage registers an image for a resource.
func (m *MemoryStore) AddImage(img *model.ResourceImage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now().UTC()
	}
	m.images[img.ResourceID] = append(m.images[img.ResourceID], img)
}

// ListImages returns a resource's images in upload order.
func (m *MemoryStore) ListImages(ctx context.Context, resourceID string) ([]*model.ResourceImage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*model.ResourceImage(nil), m.images[resourceID]...), nil
}

// CreateFlashCards stores a batch of flash cards.
func (m *MemoryStore) CreateFlashCards(ctx context.Context, cards []*model.FlashCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for _, card := range cards {
		if card.ID == "" {
			card.ID = uuid.NewString()
		}
		card.CreatedAt = now
		card.UpdatedAt = now
		m.cards[card.ResourceID] = append(m.cards[card.ResourceID], card)
	}
	return nil
}

// FlashCards returns the stored cards for a resource.
func (m *MemoryStore) FlashCards(resourceID string) []*model.FlashCard {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*model.FlashCard(nil), m.cards[resourceID]...)
}

// CreateQuizQuestions stores a batch of quiz questions.
func (m *MemoryStore) CreateQuizQuestions(ctx context.Context, questions []*model.QuizQuestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for _, q := range questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		q.CreatedAt = now
		q.UpdatedAt = now
		m.questions[q.ResourceID] = append(m.questions[q.ResourceID], q)
	}
	return nil
}

// QuizQuestions returns the stored questions for a resource.
func (m *MemoryStore) QuizQuestions(resourceID string) []*model.QuizQuestion {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*model.QuizQuestion(nil), m.questions[resourceID]...)
}
