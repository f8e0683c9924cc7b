// Package extract turns uploaded slide decks and PDFs into per-page text, titles and images.
package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/pagewise/internal/models"
	"github.com/hyperjump/pagewise/pkg/utils"
)

// Options controls PDF page rendering.
type Options struct {
	// RenderPages enables rendering PDF pages to PNG images.
	RenderPages bool
	// RenderDPI is the resolution PDF pages are rendered at.
	RenderDPI float64
	// RenderWorkers bounds how many pages are encoded concurrently.
	RenderWorkers int
}

// DefaultOptions returns the rendering defaults.
func DefaultOptions() Options {
	return Options{RenderPages: true, RenderDPI: 110, RenderWorkers: 4}
}

// Extractor extracts pages from document bytes.
type Extractor struct {
	opts   Options
	logger *zap.Logger
}

// NewExtractor returns a new Extractor. Zero-valued options fall back to DefaultOptions values.
func NewExtractor(opts Options, logger *zap.Logger) *Extractor {
	def := DefaultOptions()
	if opts.RenderDPI <= 0 {
		opts.RenderDPI = def.RenderDPI
	}
	if opts.RenderWorkers <= 0 {
		opts.RenderWorkers = def.RenderWorkers
	}
	return &Extractor{opts: opts, logger: utils.OrNop(logger)}
}

// ExtractPages extracts the pages of content based on the given extension.
// ext should include the leading dot and be lowercase (e.g. ".pdf").
// Unknown extensions yield models.ErrUnsupportedFormat; documents that cannot be read or
// have no pages yield models.ErrUnprocessableDocument.
func (e *Extractor) ExtractPages(ctx context.Context, content []byte, ext string) ([]models.Page, error) {
	var (
		pages []models.Page
		err   error
	)
	switch ext {
	case ".pptx", ".ppt":
		pages, err = extractPPTX(content)
	case ".pdf":
		pages, err = e.extractPDF(ctx, content)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("document extraction failed", zap.String("ext", ext), zap.Error(err))
		return nil, fmt.Errorf("%w: not a readable %s file", models.ErrUnprocessableDocument, ext)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages found", models.ErrUnprocessableDocument)
	}
	e.logger.Debug("extracted pages", zap.String("ext", ext), zap.Int("pages", len(pages)))
	return pages, nil
}
