package models

import (
	"fmt"
	"strings"
)

// NavigationRequest is a natural-language or voice navigation command.
type NavigationRequest struct {
	Command     string `json:"command"`
	CurrentPage int    `json:"current_page"`
}

// Validate rejects empty commands.
func (r *NavigationRequest) Validate() error {
	r.Command = strings.TrimSpace(r.Command)
	if r.Command == "" {
		return fmt.Errorf("%w: command cannot be empty", ErrInvalidRequest)
	}
	return nil
}

// PageQuestionRequest asks a free-form question about a page image.
type PageQuestionRequest struct {
	Question string `json:"question"`
}

// Validate rejects empty questions.
func (r *PageQuestionRequest) Validate() error {
	r.Question = strings.TrimSpace(r.Question)
	if r.Question == "" {
		return fmt.Errorf("%w: question cannot be empty", ErrInvalidRequest)
	}
	return nil
}

// TextToSpeechRequest asks for synthesized speech.
type TextToSpeechRequest struct {
	Text         string `json:"text"`
	Provider     string `json:"provider,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// Validate rejects empty text.
func (r *TextToSpeechRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrInvalidRequest)
	}
	return nil
}

// PageSearchQuery searches the pages of one session.
type PageSearchQuery struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// Validate ensures the query is non-empty and clamps the limit to [1, maxLimit],
// using defaultLimit when unset.
func (q *PageSearchQuery) Validate(defaultLimit, maxLimit int) error {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return fmt.Errorf("%w: query cannot be empty", ErrInvalidRequest)
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return nil
}
