// Package models defines core data structures for document sessions, page analyses, and views.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Language is the language a document session is analyzed and answered in.
type Language string

const (
	LanguageArabic  Language = "arabic"
	LanguageEnglish Language = "english"
)

// DefaultLanguage is used when an upload does not name one.
const DefaultLanguage = LanguageArabic

// ParseLanguage returns the Language for s (case-insensitive). Empty input yields DefaultLanguage.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLanguage, nil
	case "arabic", "ar":
		return LanguageArabic, nil
	case "english", "en":
		return LanguageEnglish, nil
	default:
		return "", fmt.Errorf("%w: unsupported language %q", ErrInvalidRequest, s)
	}
}

// Code returns the short ISO code for the language.
func (l Language) Code() string {
	if l == LanguageEnglish {
		return "en"
	}
	return "ar"
}

// Slide types and importance levels used for synthesized analyses.
const (
	SlideTypeContent   = "content"
	ImportanceLow      = "low"
	ImportanceMedium   = "medium"
	ImportanceHigh     = "high"
	PageImageMediaType = "image/png"
)

// SupportedExtensions lists the upload formats accepted by the reader.
var SupportedExtensions = []string{".pptx", ".ppt", ".pdf"}

// IsSupportedExtension reports whether ext (with leading dot, lowercase) is accepted.
func IsSupportedExtension(ext string) bool {
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Page is one slide or PDF page as produced by extraction.
// Title and ImageBase64 are empty when absent.
type Page struct {
	Text        string `json:"text"`
	Title       string `json:"title,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// HasImage reports whether the page carries an encoded image.
func (p Page) HasImage() bool {
	return p.ImageBase64 != ""
}

// PageAnalysis is the AI-derived (or synthesized) explanation of one page.
type PageAnalysis struct {
	Title           string   `json:"title"`
	OriginalText    string   `json:"original_text"`
	Explanation     string   `json:"explanation"`
	KeyPoints       []string `json:"key_points"`
	SlideType       string   `json:"slide_type"`
	ImportanceLevel string   `json:"importance_level"`
}

// AnalysisResult is the bulk analysis returned by the AI collaborator.
// SlidesAnalysis may be shorter or longer than the page list.
type AnalysisResult struct {
	PresentationSummary string         `json:"presentation_summary"`
	SlidesAnalysis      []PageAnalysis `json:"slides_analysis"`
}

// DocumentRecord is the immutable per-session record of an uploaded document.
// len(Analyses) always equals len(Pages).
type DocumentRecord struct {
	Filename            string         `json:"filename"`
	FileType            string         `json:"file_type"`
	Pages               []Page         `json:"pages"`
	Analyses            []PageAnalysis `json:"analyses"`
	PresentationSummary string         `json:"presentation_summary"`
	Language            Language       `json:"language"`
	TotalPages          int            `json:"total_pages"`
	CreatedAt           time.Time      `json:"created_at"`
}

// HasPage reports whether the 1-based page number is within the record.
func (r *DocumentRecord) HasPage(pageNumber int) bool {
	return pageNumber >= 1 && pageNumber <= r.TotalPages
}
