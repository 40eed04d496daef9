package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	pdfutil "github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/rcollings/studyforge/internal/model"
	"github.com/rcollings/studyforge/internal/ocr"
)

const (
	docUnavailableRenderer = "Document processing unavailable: poppler-utils is not installed on the server."
	docUnavailableOCR      = "Document processing unavailable: tesseract OCR is not installed on the server."
	docNoText              = "No text could be extracted from this document. It may contain only images or be password protected."
)

// DocumentExtractor renders every page of a PDF at 200 DPI and runs OCR per
// page, joining the results with page delimiters. Pages that already carry a
// usable embedded text layer skip the render+OCR round trip. A missing
// rendering or OCR runtime degrades the whole resource; a single page failure
// is skipped and processing continues.
type DocumentExtractor struct {
	blobs    BlobDownloader
	renderer PageRenderer
	engine   OCREngine
	log      zerolog.Logger
}

// NewDocumentExtractor constructs a DocumentExtractor.
func NewDocumentExtractor(blobs BlobDownloader, renderer PageRenderer, engine OCREngine, logger zerolog.Logger) *DocumentExtractor {
	return &DocumentExtractor{blobs: blobs, renderer: renderer, engine: engine, log: logger}
}

// Extract implements Extractor.
func (e *DocumentExtractor) Extract(ctx context.Context, res *model.Resource) Result {
	if res.SourceURL == "" {
		return degraded("Document processing failed: no file URL on resource")
	}
	if err := e.renderer.Available(); err != nil {
		e.log.Error().Err(err).Str("resource_id", res.ID).Msg("page renderer unavailable")
		return degraded(docUnavailableRenderer)
	}
	if err := e.engine.Available(); err != nil {
		e.log.Error().Err(err).Str("resource_id", res.ID).Msg("ocr engine unavailable")
		return degraded(docUnavailableOCR)
	}
	path, cleanup, err := e.blobs.DownloadTemp(ctx, res.SourceURL, ".pdf")
	if err != nil {
		e.log.Error().Err(err).Str("resource_id", res.ID).Msg("document download failed")
		return degraded("Document processing failed: %v", err)
	}
	defer cleanup()

	embedded := embeddedPageText(path)

	renderDir, err := os.MkdirTemp("", "studyforge-pages-")
	if err != nil {
		return degraded("Document processing failed: %v", err)
	}
	defer os.RemoveAll(renderDir)

	pages, err := e.renderer.RenderPDF(ctx, path, renderDir)
	if err != nil {
		if errors.Is(err, ocr.ErrUnavailable) {
			return degraded(docUnavailableRenderer)
		}
		e.log.Error().Err(err).Str("resource_id", res.ID).Msg("page rendering failed")
		return degraded("Document processing failed: %v", err)
	}
	e.log.Info().Str("resource_id", res.ID).Int("pages", len(pages)).Msg("document rendered")

	var blocks []string
	for i, pagePath := range pages {
		pageNum := i + 1
		text, ok := embedded[pageNum]
		if !ok || strings.TrimSpace(text) == "" {
			text, err = e.engine.ImageToText(ctx, pagePath)
			if err != nil {
				if errors.Is(err, ocr.ErrUnavailable) {
					return degraded(docUnavailableOCR)
				}
				e.log.Warn().Err(err).Str("resource_id", res.ID).Int("page", pageNum).Msg("ocr failed on page, skipping")
				continue
			}
		}
		text = strings.TrimSpace(text)
		if text == "" {
			e.log.Warn().Str("resource_id", res.ID).Int("page", pageNum).Msg("no text found on page")
			continue
		}
		blocks = append(blocks, fmt.Sprintf("--- Page %d ---\n%s", pageNum, text))
	}
	if len(blocks) == 0 {
		e.log.Warn().Str("resource_id", res.ID).Msg("no text extracted from any page")
		return degraded(docNoText)
	}
	full := strings.Join(blocks, "\n\n")
	e.log.Info().Str("resource_id", res.ID).Int("chars", len(full)).Int("pages_with_text", len(blocks)).Msg("document transcribed")
	return extracted(full)
}

// embeddedPageText probes the PDF's text layer. Scanned documents yield
// nothing here and fall through to OCR; failures are treated the same way.
func embeddedPageText(path string) map[int]string {
	out := make(map[int]string)
	f, reader, err := pdfutil.Open(path)
	if err != nil {
		return out
	}
	defer f.Close()
	for page := 1; page <= reader.NumPage(); page++ {
		p := reader.Page(page)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		out[page] = content
	}
	return out
}
