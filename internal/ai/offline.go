package ai

import (
	"context"
	"errors"

	"github.com/hyperjump/pagewise/internal/models"
)

// ErrUnavailable is returned by Offline for operations that need the model.
var ErrUnavailable = errors.New("ai model not configured")

// Offline stands in for Client when no Vertex AI project is configured. Documents get
// fallback analyses and navigation understands only the built-in shortcuts.
type Offline struct{}

func (Offline) AnalyzeDocument(context.Context, []models.Page, models.Language) (*models.AnalysisResult, error) {
	return nil, ErrUnavailable
}

func (Offline) InterpretNavigation(_ context.Context, command string, current, total int) (int, bool, error) {
	page, ok := ResolveShortcut(command, current, total)
	return page, ok, nil
}

func (Offline) AnswerPageQuestion(context.Context, []byte, string, models.Language) (string, error) {
	return "", ErrUnavailable
}
