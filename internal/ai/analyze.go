package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"go.uber.org/zap"

	"github.com/hyperjump/pagewise/internal/models"
	"github.com/hyperjump/pagewise/pkg/utils"
)

const (
	// maxPageChars bounds the text sent per page.
	maxPageChars = 4000
	// maxAnalysisImages bounds how many images of text-less pages are attached.
	maxAnalysisImages = 10
)

// AnalyzeDocument asks the model for a summary of the document and an analysis per page.
func (c *Client) AnalyzeDocument(ctx context.Context, pages []models.Page, lang models.Language) (*models.AnalysisResult, error) {
	var block strings.Builder
	var images []genai.Part
	for i, p := range pages {
		fmt.Fprintf(&block, "--- Page %d ---\n", i+1)
		if p.Title != "" {
			fmt.Fprintf(&block, "Title: %s\n", p.Title)
		}
		text := strings.TrimSpace(p.Text)
		if text == "" && p.HasImage() && len(images) < maxAnalysisImages {
			if data, err := base64.StdEncoding.DecodeString(p.ImageBase64); err == nil {
				images = append(images, genai.ImageData("png", data))
				fmt.Fprintf(&block, "(no text; see attached image %d)\n", len(images))
				continue
			}
		}
		block.WriteString(utils.Truncate(text, maxPageChars))
		block.WriteString("\n")
	}

	parts := append(images, genai.Text(fmt.Sprintf(analysisPrompt, languageName(lang), block.String())))
	raw, err := c.generate(ctx, c.analysisModel, "analyze document", parts...)
	if err != nil {
		return nil, err
	}
	result, err := ParseAnalysis([]byte(raw))
	if err != nil {
		return nil, err
	}
	c.logger.Debug("document analyzed",
		zap.Int("pages", len(pages)),
		zap.Int("analyses", len(result.SlidesAnalysis)))
	return result, nil
}

func languageName(lang models.Language) string {
	if lang == models.LanguageEnglish {
		return "English"
	}
	return "Arabic"
}

// ParseAnalysis decodes a model answer into an AnalysisResult. It fails only when no JSON
// object can be found. A missing or non-array slides_analysis yields no analyses; fields of
// the wrong type are left empty and key_points may be a single string.
func ParseAnalysis(raw []byte) (*models.AnalysisResult, error) {
	raw = bytes.TrimSpace(raw)
	if start, end := bytes.IndexByte(raw, '{'), bytes.LastIndexByte(raw, '}'); start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}

	result := &models.AnalysisResult{
		PresentationSummary: rawString(top["presentation_summary"]),
		SlidesAnalysis:      []models.PageAnalysis{},
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(top["slides_analysis"], &entries); err != nil {
		return result, nil
	}
	for _, e := range entries {
		result.SlidesAnalysis = append(result.SlidesAnalysis, parseEntry(e))
	}
	return result, nil
}

func parseEntry(raw json.RawMessage) models.PageAnalysis {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.PageAnalysis{KeyPoints: []string{}}
	}
	return models.PageAnalysis{
		Title:           rawString(fields["title"]),
		OriginalText:    rawString(fields["original_text"]),
		Explanation:     rawString(fields["explanation"]),
		KeyPoints:       rawStrings(fields["key_points"]),
		SlideType:       rawString(fields["slide_type"]),
		ImportanceLevel: rawString(fields["importance_level"]),
	}
}

// rawString returns raw as a string, or "" when it is absent or not a JSON string.
func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// rawStrings returns the string elements of a JSON array, or a one-element slice for a
// JSON string. Anything else yields an empty slice.
func rawStrings(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := rawString(raw); s != "" {
			out = append(out, s)
		}
		return out
	}
	for _, item := range items {
		if s := rawString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
