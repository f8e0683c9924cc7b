// Package reader implements document reading sessions: upload and analysis, page views,
// summaries, navigation, page questions and page search.
package reader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/pagewise/internal/analysis"
	"github.com/hyperjump/pagewise/internal/fileid"
	"github.com/hyperjump/pagewise/internal/models"
	"github.com/hyperjump/pagewise/internal/search"
	"github.com/hyperjump/pagewise/internal/storage"
	"github.com/hyperjump/pagewise/internal/textnorm"
	"github.com/hyperjump/pagewise/pkg/utils"
)

// Extractor splits an uploaded document into pages.
type Extractor interface {
	ExtractPages(ctx context.Context, content []byte, ext string) ([]models.Page, error)
}

// Analyzer is the generative model behind analyses, navigation and page questions.
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, pages []models.Page, lang models.Language) (*models.AnalysisResult, error)
	InterpretNavigation(ctx context.Context, command string, current, total int) (int, bool, error)
	AnswerPageQuestion(ctx context.Context, image []byte, question string, lang models.Language) (string, error)
}

// Config tunes the service.
type Config struct {
	// ModelName is part of the analysis cache key, so changing models re-analyzes documents.
	ModelName          string
	SearchDefaultLimit int
	SearchMaxLimit     int
}

// CreateInput is an uploaded document.
type CreateInput struct {
	Filename string
	Content  []byte
	Language string
}

// Status describes the live state of the service.
type Status struct {
	ActiveSessions int                `json:"active_sessions"`
	SearchIndexes  int                `json:"search_indexes"`
	AnalysisCache  storage.CacheStats `json:"analysis_cache"`
}

// Service runs document sessions. It is safe for concurrent use.
type Service struct {
	store     storage.SessionStore
	extractor Extractor
	analyzer  Analyzer
	cache     storage.AnalysisCache
	builder   *analysis.Builder
	searches  *search.Registry
	cfg       Config
	logger    *zap.Logger
}

// NewService wires a Service. A nil cache disables analysis caching.
func NewService(store storage.SessionStore, extractor Extractor, analyzer Analyzer, cache storage.AnalysisCache, cfg Config, logger *zap.Logger) *Service {
	logger = utils.OrNop(logger)
	if cache == nil {
		cache = storage.NopCache{}
	}
	if cfg.SearchDefaultLimit <= 0 {
		cfg.SearchDefaultLimit = 10
	}
	if cfg.SearchMaxLimit <= 0 {
		cfg.SearchMaxLimit = 50
	}
	return &Service{
		store:     store,
		extractor: extractor,
		analyzer:  analyzer,
		cache:     cache,
		builder:   analysis.NewBuilder(logger),
		searches:  search.NewRegistry(),
		cfg:       cfg,
		logger:    logger,
	}
}

// Create extracts and analyzes an uploaded document and opens a session for it.
// When the model fails the session still opens with fallback analyses and Degraded set.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !models.IsSupportedExtension(ext) {
		return nil, fmt.Errorf("%w: %q (supported: %s)", models.ErrUnsupportedFormat, ext, strings.Join(models.SupportedExtensions, ", "))
	}
	lang, err := models.ParseLanguage(in.Language)
	if err != nil {
		return nil, err
	}

	pages, err := s.extractor.ExtractPages(ctx, in.Content, ext)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, models.ErrUnsupportedFormat) || errors.Is(err, models.ErrUnprocessableDocument) {
			return nil, err
		}
		s.logger.Warn("document extraction failed", zap.String("filename", in.Filename), zap.Error(err))
		return nil, fmt.Errorf("%w: not a readable %s file", models.ErrUnprocessableDocument, ext)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages found", models.ErrUnprocessableDocument)
	}

	result, degraded, err := s.analyze(ctx, in.Content, pages, lang)
	if err != nil {
		return nil, err
	}

	record := &models.DocumentRecord{
		Filename:            in.Filename,
		FileType:            ext,
		Pages:               pages,
		Analyses:            s.builder.Reconcile(pages, result, lang),
		PresentationSummary: result.PresentationSummary,
		Language:            lang,
		TotalPages:          len(pages),
		CreatedAt:           time.Now(),
	}

	idx, err := search.NewPageIndex(record)
	if err != nil {
		// searching builds the index on demand
		s.logger.Warn("failed to build page index", zap.String("filename", in.Filename), zap.Error(err))
	}

	id, err := s.store.Create(ctx, record)
	if err != nil {
		if idx != nil {
			_ = idx.Close()
		}
		return nil, fmt.Errorf("create session: %w", err)
	}
	if idx != nil {
		s.searches.Add(id, idx)
	}

	s.logger.Info("document session created",
		zap.String("session_id", id),
		zap.String("filename", in.Filename),
		zap.Int("pages", record.TotalPages),
		zap.String("language", string(lang)),
		zap.Bool("degraded", degraded))

	return &models.UploadResult{
		SessionID:           id,
		Filename:            record.Filename,
		FileType:            record.FileType,
		TotalPages:          record.TotalPages,
		Language:            lang,
		PresentationSummary: record.PresentationSummary,
		Status:              "success",
		Message:             analysis.Message(lang, analysis.MsgUploadSuccess),
		Degraded:            degraded,
	}, nil
}

// analyze returns the cached or freshly computed analysis of a document. Model errors and
// malformed answers yield the fallback summary with degraded set; only cancellation fails.
func (s *Service) analyze(ctx context.Context, content []byte, pages []models.Page, lang models.Language) (*models.AnalysisResult, bool, error) {
	key := fileid.AnalysisKey(content, string(lang), s.cfg.ModelName)
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("analysis cache lookup failed", zap.Error(err))
	} else if ok {
		s.logger.Debug("analysis cache hit", zap.String("key", key))
		return cached, false, nil
	}

	var (
		result *models.AnalysisResult
		err    = errors.New("no analyzer configured")
	)
	if s.analyzer != nil {
		result, err = s.analyzer.AnalyzeDocument(ctx, pages, lang)
	}
	if err == nil && result == nil {
		err = errors.New("empty analysis result")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		s.logger.Warn("ai analysis degraded, using fallback", zap.Int("pages", len(pages)), zap.Error(err))
		return analysis.FallbackSummary(lang), true, nil
	}

	if err := s.cache.Put(ctx, key, result); err != nil {
		s.logger.Warn("analysis cache store failed", zap.Error(err))
	}
	return result, false, nil
}

// page returns the session record and checks that page is within it.
func (s *Service) page(ctx context.Context, id string, page int) (*models.DocumentRecord, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.HasPage(page) {
		return nil, fmt.Errorf("%w: %d (document has %d pages)", models.ErrInvalidPage, page, record.TotalPages)
	}
	return record, nil
}

// GetPage returns the view of a 1-based page.
func (s *Service) GetPage(ctx context.Context, id string, page int) (*models.PageView, error) {
	record, err := s.page(ctx, id, page)
	if err != nil {
		return nil, err
	}
	p := record.Pages[page-1]
	a := record.Analyses[page-1]

	raw := a.OriginalText
	if strings.TrimSpace(raw) == "" {
		raw = p.Text
	}
	text := textnorm.CleanAndFormat(raw)
	words := textnorm.WordCount(text)

	title := a.Title
	if title == "" {
		title = p.Title
	}
	if title == "" {
		title = fmt.Sprintf("Page %d", page)
	}
	paragraphs := textnorm.ExtractParagraphs(text)
	if paragraphs == nil {
		paragraphs = []string{}
	}
	keyPoints := a.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}

	return &models.PageView{
		PageNumber:      page,
		Title:           title,
		OriginalText:    text,
		Explanation:     a.Explanation,
		KeyPoints:       keyPoints,
		SlideType:       a.SlideType,
		ImportanceLevel: a.ImportanceLevel,
		ImageData:       p.ImageBase64,
		Paragraphs:      paragraphs,
		WordCount:       words,
		ReadingTime:     textnorm.ReadingMinutes(words),
	}, nil
}

// GetImage returns the decoded PNG image of a page.
func (s *Service) GetImage(ctx context.Context, id string, page int) (*models.PageImage, error) {
	record, err := s.page(ctx, id, page)
	if err != nil {
		return nil, err
	}
	data, err := pageImage(record, page)
	if err != nil {
		return nil, err
	}
	return &models.PageImage{Data: data, MediaType: models.PageImageMediaType}, nil
}

func pageImage(record *models.DocumentRecord, page int) ([]byte, error) {
	p := record.Pages[page-1]
	if !p.HasImage() {
		return nil, fmt.Errorf("%w: page %d", models.ErrImageUnavailable, page)
	}
	data, err := base64.StdEncoding.DecodeString(p.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("decode image of page %d: %w", page, err)
	}
	return data, nil
}

// GetSummary returns the whole-document view of a session.
func (s *Service) GetSummary(ctx context.Context, id string) (*models.DocumentSummary, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.DocumentSummary{
		SessionID:           id,
		Filename:            record.Filename,
		TotalPages:          record.TotalPages,
		PresentationSummary: record.PresentationSummary,
		SlidesAnalysis:      record.Analyses,
		Language:            record.Language,
	}, nil
}

// Navigate interprets a navigation command. A command that cannot be understood, or that
// points outside the document, yields Success=false rather than an error.
func (s *Service) Navigate(ctx context.Context, id string, req models.NavigationRequest) (*models.NavigationResult, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	failed := &models.NavigationResult{
		Success: false,
		Message: analysis.Message(record.Language, analysis.MsgNavigationFailed),
	}

	command := strings.TrimSpace(req.Command)
	if command == "" || s.analyzer == nil {
		return failed, nil
	}
	current := req.CurrentPage
	if current < 1 {
		current = 1
	}
	if current > record.TotalPages {
		current = record.TotalPages
	}

	page, ok, err := s.analyzer.InterpretNavigation(ctx, command, current, record.TotalPages)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("navigation interpretation failed", zap.String("session_id", id), zap.Error(err))
		return failed, nil
	}
	if !ok || !record.HasPage(page) {
		return failed, nil
	}
	return &models.NavigationResult{
		Success: true,
		NewPage: page,
		Message: fmt.Sprintf(analysis.Message(record.Language, analysis.MsgNavigated), page),
	}, nil
}

// Delete ends a session. Every later operation on id reports models.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) (*models.DeleteResult, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.searches.Remove(id)
	s.logger.Info("document session deleted", zap.String("session_id", id))
	return &models.DeleteResult{
		SessionID: id,
		Message:   analysis.Message(record.Language, analysis.MsgSessionDeleted),
	}, nil
}

// AskQuestion answers a question about the image of a page.
func (s *Service) AskQuestion(ctx context.Context, id string, page int, question string) (*models.PageAnswer, error) {
	record, err := s.page(ctx, id, page)
	if err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", models.ErrInvalidRequest)
	}
	image, err := pageImage(record, page)
	if err != nil {
		return nil, err
	}
	if s.analyzer == nil {
		return nil, errors.New("answer page question: no analyzer configured")
	}

	answer, err := s.analyzer.AnswerPageQuestion(ctx, image, question, record.Language)
	if err != nil {
		if errors.Is(err, models.ErrQuotaExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("answer page question: %w", err)
	}
	return &models.PageAnswer{
		Answer:     answer,
		SessionID:  id,
		PageNumber: page,
		Question:   question,
	}, nil
}

// SearchPages finds the pages of a session matching q.
func (s *Service) SearchPages(ctx context.Context, id string, q models.PageSearchQuery) (*models.PageSearchResponse, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := q.Validate(s.cfg.SearchDefaultLimit, s.cfg.SearchMaxLimit); err != nil {
		return nil, err
	}
	res, err := s.searches.Search(ctx, id, record, q.Query, q.Limit)
	if err != nil {
		return nil, err
	}
	// a delete that ran during the search may have seen no index to remove
	if _, err := s.store.Get(ctx, id); err != nil {
		s.searches.Remove(id)
		return nil, err
	}
	return res, nil
}

// ActiveSessions returns the number of open sessions.
func (s *Service) ActiveSessions(ctx context.Context) int {
	return s.store.Count(ctx)
}

// Status reports sessions, search indexes and analysis cache statistics.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis cache stats: %w", err)
	}
	return &Status{
		ActiveSessions: s.store.Count(ctx),
		SearchIndexes:  s.searches.Len(),
		AnalysisCache:  stats,
	}, nil
}
