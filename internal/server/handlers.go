package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/pagewise/internal/models"
	"github.com/hyperjump/pagewise/internal/reader"
)

// multipartMemory is the part of a multipart body kept in memory; the rest spills to disk.
const multipartMemory = 32 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	content, header, ok := s.readUpload(w, r, "file")
	if !ok {
		return
	}
	filename := header.Filename
	language := r.FormValue("language")
	s.logger.Debug("upload request",
		zap.String("filename", filename),
		zap.Int("bytes", len(content)),
		zap.String("language", language))

	result, err := s.reader.Create(r.Context(), reader.CreateInput{
		Filename: filename,
		Content:  content,
		Language: language,
	})
	if err != nil {
		s.respondServiceError(w, r, "upload", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

// readUpload reads the multipart file field of r, bounded by max_upload_mb. On failure it
// writes the error response and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, *multipart.FileHeader, bool) {
	limit := int64(s.config.Server.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", limit))
			return nil, nil, false
		}
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return nil, nil, false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("%s is required", field))
		return nil, nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s", field))
		return nil, nil, false
	}
	return content, header, true
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service":         "pagewise document reader",
		"status":          "healthy",
		"active_sessions": s.reader.ActiveSessions(r.Context()),
	})
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageParam(w, r)
	if !ok {
		return
	}
	view, err := s.reader.GetPage(r.Context(), chi.URLParam(r, "id"), page)
	if err != nil {
		s.respondServiceError(w, r, "get page", err)
		return
	}
	s.respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageParam(w, r)
	if !ok {
		return
	}
	img, err := s.reader.GetImage(r.Context(), chi.URLParam(r, "id"), page)
	if err != nil {
		s.respondServiceError(w, r, "get image", err)
		return
	}
	s.respondBytes(w, img.MediaType, img.Data)
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageParam(w, r)
	if !ok {
		return
	}
	var req models.PageQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondServiceError(w, r, "question", err)
		return
	}
	answer, err := s.reader.AskQuestion(r.Context(), chi.URLParam(r, "id"), page, req.Question)
	if err != nil {
		s.respondServiceError(w, r, "question", err)
		return
	}
	s.respondJSON(w, http.StatusOK, answer)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reader.GetSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, "summary", err)
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req models.NavigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondServiceError(w, r, "navigate", err)
		return
	}
	s.logger.Debug("navigate request", zap.String("command", req.Command), zap.Int("current_page", req.CurrentPage))
	result, err := s.reader.Navigate(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.respondServiceError(w, r, "navigate", err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := models.PageSearchQuery{Query: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		q.Limit = limit
	}
	resp, err := s.reader.SearchPages(r.Context(), chi.URLParam(r, "id"), q)
	if err != nil {
		s.respondServiceError(w, r, "search", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := s.reader.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, "delete", err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	var req models.TextToSpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	audio, err := s.speech.Synthesize(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, r, "text to speech", err)
		return
	}
	s.respondBytes(w, audio.MimeType, audio.Data)
}

func (s *Server) handleSpeechToText(w http.ResponseWriter, r *http.Request) {
	audio, header, ok := s.readUpload(w, r, "audio")
	if !ok {
		return
	}
	mimeType := header.Header.Get("Content-Type")
	transcript, err := s.speech.Transcribe(r.Context(), audio, mimeType, r.FormValue("language_code"))
	if err != nil {
		s.respondServiceError(w, r, "speech to text", err)
		return
	}
	s.respondJSON(w, http.StatusOK, transcript)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.reader.Status(r.Context())
	if err != nil {
		s.respondServiceError(w, r, "status", err)
		return
	}
	resp := map[string]interface{}{
		"active_sessions": status.ActiveSessions,
		"search_indexes":  status.SearchIndexes,
		"analysis_cache":  status.AnalysisCache,
		"cached_audio":    s.speech.CachedAudio(),
	}

	// Add configuration info
	resp["config"] = map[string]interface{}{
		"ai_enabled":      s.config.AI.Enabled(),
		"ai_model":        s.config.AI.Model,
		"speech_provider": s.config.Speech.Provider,
		"render_pages":    s.config.Extract.RenderPagesOrDefault(),
		"max_upload_mb":   s.config.Server.MaxUploadMB,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// pageParam parses the {page} URL parameter.
func (s *Server) pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "page must be a number")
		return 0, false
	}
	return page, true
}

// statusFor maps service errors to HTTP status codes. Unknown errors are internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnsupportedFormat),
		errors.Is(err, models.ErrInvalidRequest),
		errors.Is(err, models.ErrInvalidPage):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnprocessableDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrImageUnavailable):
		return http.StatusNotFound
	case errors.Is(err, models.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, models.ErrTranscriptionFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with its mapped status. Internal errors are logged and
// reported without detail.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		s.logger.Error(op+" failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		s.respondError(w, status, "internal server error")
		return
	case http.StatusGatewayTimeout:
		s.respondError(w, status, "request timed out")
		return
	case http.StatusUnprocessableEntity:
		// extraction errors carry parser internals; keep them in the log
		s.logger.Warn(op+" rejected",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		s.respondError(w, status, models.ErrUnprocessableDocument.Error())
		return
	}
	s.logger.Debug(op+" rejected", zap.Int("status", status), zap.Error(err))
	s.respondError(w, status, err.Error())
}

func (s *Server) respondBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
