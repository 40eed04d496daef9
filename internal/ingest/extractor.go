// Package ingest implements the resource ingestion pipeline: per-type content
// extraction, summarization, title generation and the orchestrating state
// machine.
//
// Extraction is deliberately best-effort. Every extractor catches its own
// failures and degrades to a human-readable placeholder written into the
// transcript, so a resource almost always reaches the completed status even
// when its content could not be extracted.
package ingest

import (
	"context"
	"fmt"

	"github.com/rcollings/studyforge/internal/model"
)

// Result is the outcome of one extraction. Extraction never fails the
// pipeline: a Degraded result carries a diagnostic placeholder in Text, and
// the orchestrator commits whichever text it receives.
type Result struct {
	Text     string
	Degraded bool
	Reason   string
}

func extracted(text string) Result {
	return Result{Text: text}
}

func degraded(format string, args ...any) Result {
	msg := fmt.Sprintf(format, args...)
	return Result{Text: msg, Degraded: true, Reason: msg}
}

// Extractor turns a resource's raw source content into a transcript.
type Extractor interface {
	Extract(ctx context.Context, res *model.Resource) Result
}

// TitleGenerator derives a title for a resource. Implementations are
// idempotent (no-op when a title is already set) and non-critical (they log
// failures instead of returning them).
type TitleGenerator interface {
	Generate(ctx context.Context, res *model.Resource)
}

// RecordStore is the slice of the record store the pipeline needs. Both the
// pgx repository and the in-memory store satisfy it.
type RecordStore interface {
	Get(ctx context.Context, id string) (*model.Resource, error)
	UpdateStatus(ctx context.Context, id string, status model.ResourceStatus) error
	SetTranscript(ctx context.Context, id, transcript string) error
	SetSummary(ctx context.Context, id, notes, emoji string) error
	SetTitle(ctx context.Context, id, title string) error
	LoadTranscript(ctx context.Context, id string) (string, error)
	ListImages(ctx context.Context, resourceID string) ([]*model.ResourceImage, error)
}

// BlobDownloader resolves a locator and downloads the object to a scratch
// file. The returned cleanup must run on every exit path.
type BlobDownloader interface {
	DownloadTemp(ctx context.Context, locator, fallbackExt string) (path string, cleanup func(), err error)
}

// OCREngine recognizes text in a single image.
type OCREngine interface {
	Available() error
	ImageToText(ctx context.Context, imagePath string) (string, error)
}

// PageRenderer renders PDF pages to images.
type PageRenderer interface {
	Available() error
	RenderPDF(ctx context.Context, pdfPath, outDir string) ([]string, error)
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	TranscribeFile(ctx context.Context, path string) (string, error)
}

// TextGenerator produces free text from a system+user prompt pair.
type TextGenerator interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
