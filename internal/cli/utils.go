// Package cli provides CLI utilities for pagewise: a client for a running server and
// text or JSON rendering of its responses.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/pagewise/internal/models"
	"github.com/hyperjump/pagewise/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a -output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

const rule = "─────────────────────────────────────────────────────────"

// write encodes v as indented JSON, or calls text for any other format.
func write(w io.Writer, v interface{}, format OutputFormat, text func(io.Writer)) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

// WriteUpload writes the result of an upload.
func WriteUpload(w io.Writer, res *models.UploadResult, format OutputFormat) error {
	return write(w, res, format, func(w io.Writer) {
		fmt.Fprintf(w, "session_id:   %s\n", res.SessionID)
		fmt.Fprintf(w, "filename:     %s (%s)\n", res.Filename, res.FileType)
		fmt.Fprintf(w, "total_pages:  %d\n", res.TotalPages)
		fmt.Fprintf(w, "language:     %s\n", res.Language)
		if res.Degraded {
			fmt.Fprintln(w, "degraded:     true   # AI analysis failed, fallback analyses used")
		}
		fmt.Fprintf(w, "\n%s\n\n%s\n", res.Message, res.PresentationSummary)
	})
}

// WritePage writes one page view. Image data is never printed.
func WritePage(w io.Writer, page *models.PageView, format OutputFormat) error {
	return write(w, page, format, func(w io.Writer) {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "Page %d: %s\n", page.PageNumber, page.Title)
		fmt.Fprintf(w, "Type: %s | Importance: %s | Words: %d | Reading time: %.1f min\n",
			page.SlideType, page.ImportanceLevel, page.WordCount, page.ReadingTime)
		fmt.Fprintln(w, rule)
		if page.OriginalText != "" {
			fmt.Fprintf(w, "\n%s\n", page.OriginalText)
		}
		if page.Explanation != "" {
			fmt.Fprintf(w, "\nExplanation:\n%s\n", page.Explanation)
		}
		if len(page.KeyPoints) > 0 {
			fmt.Fprintln(w, "\nKey points:")
			for _, p := range page.KeyPoints {
				fmt.Fprintf(w, "  • %s\n", p)
			}
		}
		if page.ImageData != "" {
			fmt.Fprintln(w, "\n[page image available]")
		}
	})
}

// WriteSummary writes a document summary with one line per page.
func WriteSummary(w io.Writer, summary *models.DocumentSummary, format OutputFormat) error {
	return write(w, summary, format, func(w io.Writer) {
		fmt.Fprintf(w, "%s (%d pages, %s)\n\n", summary.Filename, summary.TotalPages, summary.Language)
		fmt.Fprintf(w, "%s\n\n", summary.PresentationSummary)
		for i, a := range summary.SlidesAnalysis {
			fmt.Fprintf(w, "%3d. [%s] %s: %s\n", i+1, a.ImportanceLevel, a.Title, utils.Truncate(a.Explanation, 80))
		}
	})
}

// WriteNavigation writes the result of a navigation command.
func WriteNavigation(w io.Writer, res *models.NavigationResult, format OutputFormat) error {
	return write(w, res, format, func(w io.Writer) {
		if res.Success {
			fmt.Fprintf(w, "→ page %d\n", res.NewPage)
		}
		fmt.Fprintln(w, res.Message)
	})
}

// WriteSearchResults writes the pages matching a search.
func WriteSearchResults(w io.Writer, res *models.PageSearchResponse, format OutputFormat) error {
	return write(w, res, format, func(w io.Writer) {
		fmt.Fprintf(w, "\nFound %d pages in %dms\n", res.Total, res.QueryTime)
		if res.Suggestion != "" {
			fmt.Fprintf(w, "Did you mean: %s\n", res.Suggestion)
		}
		fmt.Fprintln(w)
		for _, hit := range res.Hits {
			fmt.Fprintln(w, rule)
			fmt.Fprintf(w, "Page %d | Score: %.4f\n", hit.PageNumber, hit.Score)
			if hit.Title != "" {
				fmt.Fprintf(w, "Title: %s\n", hit.Title)
			}
			if len(hit.Fragments) > 0 {
				fmt.Fprintf(w, "\n%s\n", strings.Join(hit.Fragments, "\n"))
			}
			fmt.Fprintln(w)
		}
	})
}

// WriteDelete writes the confirmation of a deleted session.
func WriteDelete(w io.Writer, res *models.DeleteResult, format OutputFormat) error {
	return write(w, res, format, func(w io.Writer) {
		fmt.Fprintf(w, "%s: %s\n", res.SessionID, res.Message)
	})
}

// WriteStatus writes server status.
func WriteStatus(w io.Writer, status *StatusResponse, format OutputFormat) error {
	return write(w, status, format, func(w io.Writer) {
		fmt.Fprintf(w, "active_sessions:    %d   # open document sessions\n", status.ActiveSessions)
		fmt.Fprintf(w, "search_indexes:     %d   # in-memory page indexes\n", status.SearchIndexes)
		fmt.Fprintf(w, "cached_audio:       %d   # synthesized speech responses in memory\n", status.CachedAudio)
		if status.AnalysisCache.Enabled {
			fmt.Fprintf(w, "analysis_cache:     %d   # cached AI analyses\n", status.AnalysisCache.Entries)
			fmt.Fprintf(w, "cache_disk_bytes:   %d\n", status.AnalysisCache.DiskBytes)
		} else {
			fmt.Fprintln(w, "analysis_cache:     disabled")
		}
		if status.Config != nil {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "# configuration")
			fmt.Fprintf(w, "ai_enabled:         %t\n", status.Config.AIEnabled)
			if status.Config.AIModel != "" {
				fmt.Fprintf(w, "ai_model:           %s\n", status.Config.AIModel)
			}
			fmt.Fprintf(w, "speech_provider:    %s\n", status.Config.SpeechProvider)
			fmt.Fprintf(w, "render_pages:       %t\n", status.Config.RenderPages)
			fmt.Fprintf(w, "max_upload_mb:      %d\n", status.Config.MaxUploadMB)
		}
	})
}
