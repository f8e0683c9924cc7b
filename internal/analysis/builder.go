// Package analysis reconciles AI page analyses with extracted pages so that every page of a
// document session has exactly one analysis.
package analysis

import (
	"fmt"
	"strings"

	"github.com/hyperjump/pagewise/internal/models"
	"github.com/hyperjump/pagewise/pkg/utils"
	"go.uber.org/zap"
)

// KeyPointMaxRunes bounds the key point synthesized from a page's text.
const KeyPointMaxRunes = 100

// Builder turns extraction output plus an AI result into per-page analyses.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a Builder. A nil logger disables logging.
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: utils.OrNop(logger)}
}

// Reconcile returns exactly one analysis per page. Entries the AI returned for pages that
// exist are kept as they are; entries past the last page are ignored; pages the AI did not
// cover get a synthesized analysis. A nil result is treated as empty. It never fails.
func (b *Builder) Reconcile(pages []models.Page, result *models.AnalysisResult, lang models.Language) []models.PageAnalysis {
	var provided []models.PageAnalysis
	if result != nil {
		provided = result.SlidesAnalysis
	}

	analyses := make([]models.PageAnalysis, len(pages))
	kept := copy(analyses, provided)
	for i := kept; i < len(pages); i++ {
		analyses[i] = Fallback(pages[i], i+1, lang)
	}

	if kept < len(pages) || len(provided) > len(pages) {
		b.logger.Debug("reconciled page analyses",
			zap.Int("pages", len(pages)),
			zap.Int("provided", len(provided)),
			zap.Int("synthesized", len(pages)-kept))
	}
	return analyses
}

// Fallback synthesizes the analysis of a single page (pageNumber is 1-based).
func Fallback(page models.Page, pageNumber int, lang models.Language) models.PageAnalysis {
	title := page.Title
	if title == "" {
		title = fmt.Sprintf("Page %d", pageNumber)
	}
	text := strings.TrimSpace(page.Text)

	pa := models.PageAnalysis{
		Title:           title,
		OriginalText:    text,
		KeyPoints:       []string{},
		SlideType:       models.SlideTypeContent,
		ImportanceLevel: models.ImportanceMedium,
	}
	if text != "" {
		pa.Explanation = Message(lang, MsgTextContent)
		pa.KeyPoints = []string{utils.Truncate(text, KeyPointMaxRunes)}
	} else {
		pa.Explanation = Message(lang, MsgVisualContent)
	}
	return pa
}

// FallbackSummary is the presentation summary used when the AI analysis failed.
func FallbackSummary(lang models.Language) *models.AnalysisResult {
	return &models.AnalysisResult{
		PresentationSummary: Message(lang, MsgFallbackSummary),
		SlidesAnalysis:      []models.PageAnalysis{},
	}
}
