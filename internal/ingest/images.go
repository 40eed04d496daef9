package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/ocr"
)

const (
	imagesUnavailableOCR = "Image processing unavailable: tesseract OCR is not installed on the server."
	imagesNoText         = "No text could be extracted from the uploaded images."
)

// ImageSetExtractor OCRs every image of an image_set resource independently,
// joining the results as numbered blocks. One image's failure is recorded
// inline and does not stop the remaining images; only a missing OCR runtime
// aborts the whole stage.
type ImageSetExtractor struct {
	store  RecordStore
	blobs  BlobDownloader
	engine OCREngine
	log    zerolog.Logger
}

// NewImageSetExtractor constructs an ImageSetExtractor.
func NewImageSetExtractor(store RecordStore, blobs BlobDownloader, engine OCREngine, logger zerolog.Logger) *ImageSetExtractor {
	return &ImageSetExtractor{store: store, blobs: blobs, engine: engine, log: logger}
}

// Extract implements Extractor.
func (e *ImageSetExtractor) Extract(ctx context.Context, res *model.Resource) Result {
	if err := e.engine.Available(); err != nil {
		e.log.Error().Err(err).Str("resource_id", res.ID).Msg("ocr engine unavailable")
		return degraded(imagesUnavailableOCR)
	}
	images, err := e.store.ListImages(ctx, res.ID)
	if err != nil {
		e.log.Error().Err(err).Str("resource_id", res.ID).Msg("listing resource images failed")
		return degraded("Image processing failed: %v", err)
	}
	if len(images) == 0 {
		return degraded("No images uploaded for this resource")
	}

	var blocks []string
	withText := 0
	for i, img := range images {
		imageNum := i + 1
		text, err := e.processImage(ctx, img)
		if err != nil {
			if errors.Is(err, ocr.ErrUnavailable) {
				return degraded(imagesUnavailableOCR)
			}
			e.log.Warn().Err(err).Str("resource_id", res.ID).Int("image", imageNum).Msg("image processing failed, continuing")
			blocks = append(blocks, fmt.Sprintf("--- Image %d ---\n[Error processing this image: %v]", imageNum, err))
			continue
		}
		if text == "" {
			e.log.Warn().Str("resource_id", res.ID).Int("image", imageNum).Msg("no text found in image")
			continue
		}
		blocks = append(blocks, fmt.Sprintf("--- Image %d ---\n%s", imageNum, text))
		withText++
	}
	if withText == 0 {
		e.log.Warn().Str("resource_id", res.ID).Msg("no text extracted from any image")
		return degraded(imagesNoText)
	}
	full := strings.Join(blocks, "\n\n")
	e.log.Info().Str("resource_id", res.ID).Int("chars", len(full)).Int("images_with_text", withText).Msg("image set transcribed")
	return extracted(full)
}

func (e *ImageSetExtractor) processImage(ctx context.Context, img *model.ResourceImage) (string, error) {
	path, cleanup, err := e.blobs.DownloadTemp(ctx, img.ImageURL, ".jpg")
	if err != nil {
		return "", err
	}
	defer cleanup()
	text, err := e.engine.ImageToText(ctx, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
