// Package ocr shells out to the tesseract and poppler binaries for image OCR
// and PDF page rendering. Both are optional runtime dependencies: callers
// probe availability and degrade when a binary is missing.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrUnavailable marks a missing runtime dependency (tesseract or poppler).
var ErrUnavailable = errors.New("ocr runtime unavailable")

const renderDPI = 200

// Engine runs tesseract against single images.
type Engine struct {
	language string
}

// NewEngine constructs an Engine for a fixed recognition language.
func NewEngine(language string) *Engine {
	if language == "" {
		language = "eng"
	}
	return &Engine{language: language}
}

// Available reports whether the tesseract binary can be found.
func (e *Engine) Available() error {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return fmt.Errorf("%w: tesseract not installed", ErrUnavailable)
	}
	return nil
}

// ImageToText recognizes the text in one image.
func (e *Engine) ImageToText(ctx context.Context, imagePath string) (string, error) {
	if err := e.Available(); err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, "tesseract", imagePath, "stdout", "-l", e.language)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract %s: %v: %s", filepath.Base(imagePath), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// PageRenderer renders PDF pages to images with poppler's pdftoppm.
type PageRenderer struct{}

// NewPageRenderer constructs a PageRenderer.
func NewPageRenderer() *PageRenderer {
	return &PageRenderer{}
}

// Available reports whether the pdftoppm binary can be found.
func (r *PageRenderer) Available() error {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return fmt.Errorf("%w: poppler-utils not installed", ErrUnavailable)
	}
	return nil
}

// RenderPDF renders every page of the PDF at 200 DPI into outDir and returns
// the image paths in page order.
func (r *PageRenderer) RenderPDF(ctx context.Context, pdfPath, outDir string) ([]string, error) {
	if err := r.Available(); err != nil {
		return nil, err
	}
	prefix := filepath.Join(outDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-jpeg", "-r", strconv.Itoa(renderDPI), pdfPath, prefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	pages, err := filepath.Glob(prefix + "-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("collect rendered pages: %w", err)
	}
	// pdftoppm zero-pads page numbers consistently per document, so a lexical
	// sort yields page order.
	sort.Strings(pages)
	return pages, nil
}
