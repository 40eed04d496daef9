// Package model contains the entities shared across the API, worker and
// repositories.
package model

import (
	"strings"
	"time"
)

// ResourceType selects the extraction and title-generation behavior for a
// resource. It is fixed at creation.
type ResourceType string

const (
	TypeYouTubeLink ResourceType = "youtube_link"
	TypeDocument    ResourceType = "document"
	TypeAudio       ResourceType = "audio"
	TypeText        ResourceType = "text"
	TypeImageSet    ResourceType = "image_set"
)

// Valid reports whether t is one of the known resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case TypeYouTubeLink, TypeDocument, TypeAudio, TypeText, TypeImageSet:
		return true
	}
	return false
}

// ResourceStatus tracks a resource through the ingestion pipeline. Statuses
// only move forward, or jump to failed; they never regress.
type ResourceStatus string

const (
	StatusProcessing  ResourceStatus = "processing"
	StatusExtracting  ResourceStatus = "extracting"
	StatusSummarizing ResourceStatus = "summarizing"
	StatusCompleted   ResourceStatus = "completed"
	StatusFailed      ResourceStatus = "failed"
)

// Resource is a user's uploaded or linked piece of source material together
// with its derived text artifacts. Transcript is loaded on demand only; the
// repository leaves it empty on ordinary reads because it can be large.
type Resource struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	FolderID      string         `json:"folderId"`
	Type          ResourceType   `json:"resourceType"`
	Title         string         `json:"title,omitempty"`
	SourceURL     string         `json:"fileUrl,omitempty"`
	Transcript    string         `json:"-"`
	SummaryNotes  string         `json:"summaryNotes,omitempty"`
	Emoji         string         `json:"emoji,omitempty"`
	Status        ResourceStatus `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ResourceImage is one image of an image_set resource. Images are ordered by
// upload time; the ordered set is the content the image extractor operates on.
type ResourceImage struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ResourceID string    `json:"resourceId"`
	ImageURL   string    `json:"imageUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Folder is a node of the per-user folder tree (parent-pointer model).
type Folder struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	ParentFolderID string    `json:"parentFolderId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FlashCard is a prompt/answer pair derived from a resource's transcript.
type FlashCard struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ResourceID string    `json:"resourceId"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// QuizQuestion is a multiple-choice question derived from a resource's
// transcript. Options always holds exactly four entries and CorrectOption is
// verbatim one of them.
type QuizQuestion struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	ResourceID    string    `json:"resourceId"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectOption string    `json:"correctOption"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// optionsSeparator joins quiz options for storage. Options are stored as a
// single text column; JoinOptions/SplitOptions round-trip the ordered list.
const optionsSeparator = "\n"

// JoinOptions serializes an ordered option list for storage.
func JoinOptions(options []string) string {
	return strings.Join(options, optionsSeparator)
}

// SplitOptions reverses JoinOptions.
func SplitOptions(stored string) []string {
	if stored == "" {
		return nil
	}
	return strings.Split(stored, optionsSeparator)
}
