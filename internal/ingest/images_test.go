package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/ocr"
	"github.com/rcollings/studyforge/internal/repository"
)

type fakeBlobs struct {
	failFor map[string]error
}

func (f *fakeBlobs) DownloadTemp(ctx context.Context, locator, fallbackExt string) (string, func(), error) {
	if err, ok := f.failFor[locator]; ok {
		return "", nil, err
	}
	return "/tmp/fake-" + locator, func() {}, nil
}

type fakeOCR struct {
	availableErr error
	// textByPath maps a downloaded path to recognized text; missing entries
	// return an error.
	textByPath map[string]string
}

func (f *fakeOCR) Available() error { return f.availableErr }

func (f *fakeOCR) ImageToText(ctx context.Context, imagePath string) (string, error) {
	text, ok := f.textByPath[imagePath]
	if !ok {
		return "", fmt.Errorf("ocr failed on %s", imagePath)
	}
	return text, nil
}

func imageSetResource(t *testing.T, store *repository.MemoryStore, imageURLs ...string) *model.Resource {
	t.Helper()
	res := &model.Resource{UserID: "user-1", Type: model.TypeImageSet, Status: model.StatusProcessing}
	store.Put(res)
	for _, url := range imageURLs {
		store.AddImage(&model.ResourceImage{UserID: "user-1", ResourceID: res.ID, ImageURL: url})
	}
	return res
}

func TestImageSetExtraction(t *testing.T) {
	store := repository.NewMemoryStore()
	res := imageSetResource(t, store, "s3://b/one.jpg", "s3://b/two.jpg")
	engine := &fakeOCR{textByPath: map[string]string{
		"/tmp/fake-s3://b/one.jpg": "first page notes",
		"/tmp/fake-s3://b/two.jpg": "second page notes",
	}}

	out := NewImageSetExtractor(store, &fakeBlobs{}, engine, zerolog.Nop()).Extract(context.Background(), res)

	require.False(t, out.Degraded)
	assert.Equal(t, "--- Image 1 ---\nfirst page notes\n\n--- Image 2 ---\nsecond page notes", out.Text)
}

func TestImageSetExtractionRecordsPerImageFailures(t *testing.T) {
	store := repository.NewMemoryStore()
	res := imageSetResource(t, store, "s3://b/one.jpg", "s3://b/two.jpg")
	blobs := &fakeBlobs{failFor: map[string]error{"s3://b/one.jpg": errors.New("object missing")}}
	engine := &fakeOCR{textByPath: map[string]string{
		"/tmp/fake-s3://b/two.jpg": "second page notes",
	}}

	out := NewImageSetExtractor(store, blobs, engine, zerolog.Nop()).Extract(context.Background(), res)

	require.False(t, out.Degraded)
	assert.Contains(t, out.Text, "--- Image 1 ---\n[Error processing this image: object missing]")
	assert.Contains(t, out.Text, "--- Image 2 ---\nsecond page notes")
}

func TestImageSetExtractionDegradesWithoutOCR(t *testing.T) {
	store := repository.NewMemoryStore()
	res := imageSetResource(t, store, "s3://b/one.jpg")
	engine := &fakeOCR{availableErr: ocr.ErrUnavailable}

	out := NewImageSetExtractor(store, &fakeBlobs{}, engine, zerolog.Nop()).Extract(context.Background(), res)

	assert.True(t, out.Degraded)
	assert.Contains(t, out.Text, "tesseract OCR is not installed")
}

func TestImageSetExtractionDegradesWithoutImages(t *testing.T) {
	store := repository.NewMemoryStore()
	res := imageSetResource(t, store)
	engine := &fakeOCR{}

	out := NewImageSetExtractor(store, &fakeBlobs{}, engine, zerolog.Nop()).Extract(context.Background(), res)

	assert.True(t, out.Degraded)
}

func TestImageSetExtractionDegradesWhenNoTextAnywhere(t *testing.T) {
	store := repository.NewMemoryStore()
	res := imageSetResource(t, store, "s3://b/one.jpg")
	engine := &fakeOCR{textByPath: map[string]string{"/tmp/fake-s3://b/one.jpg": "   "}}

	out := NewImageSetExtractor(store, &fakeBlobs{}, engine, zerolog.Nop()).Extract(context.Background(), res)

	assert.True(t, out.Degraded)
	assert.Contains(t, out.Text, "No text could be extracted")
}
