package ai

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"

	"github.com/hyperjump/pagewise/internal/models"
)

// AnswerPageQuestion answers a free-form question about a PNG page image.
func (c *Client) AnswerPageQuestion(ctx context.Context, image []byte, question string, lang models.Language) (string, error) {
	answer, err := c.generate(ctx, c.chatModel, "answer page question",
		genai.ImageData("png", image),
		genai.Text(fmt.Sprintf(questionPrompt, languageName(lang), question)))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("answer page question: empty answer")
	}
	return answer, nil
}

// Transcribe converts recorded speech to text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType, languageCode string) (string, error) {
	text, err := c.generate(ctx, c.transcribeModel, "transcribe",
		genai.Blob{MIMEType: mimeType, Data: audio},
		genai.Text(fmt.Sprintf(transcribePrompt, languageCode)))
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty transcript", models.ErrTranscriptionFailed)
	}
	return text, nil
}
