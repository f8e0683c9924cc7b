package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/pagewise/internal/models"
)

// maxPDFTitleRunes bounds the first line of a page that is taken as its title.
const maxPDFTitleRunes = 120

// validatePDF checks the document structure. Relaxed validation tolerates the small PDF
// format deviations common in exported decks.
func validatePDF(content []byte) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return api.Validate(bytes.NewReader(content), cfg)
}

// extractPDF returns one page per PDF page. Text comes from the content streams, the title
// is the first short line of the page and the image is a PNG rendering of the page.
func (e *Extractor) extractPDF(ctx context.Context, content []byte) ([]models.Page, error) {
	if err := validatePDF(content); err != nil {
		return nil, fmt.Errorf("validate PDF: %w", err)
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := r.NumPage()
	pages := make([]models.Page, numPages)
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i+1, err)
		}
		text = strings.TrimSpace(text)
		pages[i] = models.Page{Text: text, Title: pdfPageTitle(text)}
	}

	if e.opts.RenderPages && numPages > 0 {
		if err := e.renderPDF(ctx, content, pages); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// pages stay usable without images
			e.logger.Warn("pdf rendering failed", zap.Error(err))
		}
	}
	return pages, nil
}

func pdfPageTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxPDFTitleRunes {
			return ""
		}
		return line
	}
	return ""
}

// renderPDF fills in ImageBase64 for each page. A page that fails to render keeps no image.
func (e *Extractor) renderPDF(ctx context.Context, content []byte, pages []models.Page) error {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return fmt.Errorf("open PDF for rendering: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n > len(pages) {
		n = len(pages)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.RenderWorkers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := doc.ImageDPI(i, e.opts.RenderDPI)
			if err != nil {
				e.logger.Debug("render page failed", zap.Int("page", i+1), zap.Error(err))
				return nil
			}
			encoded, err := encodePNG(img)
			if err != nil {
				e.logger.Debug("encode page failed", zap.Int("page", i+1), zap.Error(err))
				return nil
			}
			pages[i].ImageBase64 = encoded
			return nil
		})
	}
	return g.Wait()
}
