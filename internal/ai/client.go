// Package ai talks to Gemini on Vertex AI: bulk document analysis, navigation commands,
// questions about page images and speech transcription.
package ai

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/hyperjump/pagewise/pkg/utils"
)

// Config selects the model and how it is called.
type Config struct {
	ProjectID   string
	Region      string
	Model       string
	Temperature float32
	MaxRetries  int

	// TranscribeModel is used for speech transcription; empty means Model.
	TranscribeModel string
}

// generator is the subset of *genai.GenerativeModel the client uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client holds the pre-configured generative models.
type Client struct {
	// analysisModel answers in JSON; chatModel answers in plain text.
	analysisModel   generator
	chatModel       generator
	transcribeModel generator
	retry           RetryConfig
	logger          *zap.Logger
	baseClient      *genai.Client
}

// NewClient creates a Vertex AI client for cfg. opts are passed to the underlying client
// (for example option.WithCredentialsFile).
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("ai: project id and region cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ai: model cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region, opts...)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	analysisModel := baseClient.GenerativeModel(cfg.Model)
	analysisModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(analysisSystemPrompt)},
	}
	analysisModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(cfg.Temperature),
	}

	chatModel := baseClient.GenerativeModel(cfg.Model)
	chatModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(assistantSystemPrompt)},
	}
	chatModel.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr(cfg.Temperature),
	}

	transcribeModel := chatModel
	if cfg.TranscribeModel != "" && cfg.TranscribeModel != cfg.Model {
		tm := baseClient.GenerativeModel(cfg.TranscribeModel)
		tm.GenerationConfig = genai.GenerationConfig{Temperature: genai.Ptr[float32](0)}
		transcribeModel = tm
	}

	retry := DefaultRetryConfig()
	if cfg.MaxRetries >= 0 {
		retry.MaxRetries = cfg.MaxRetries
	}

	return &Client{
		analysisModel:   analysisModel,
		chatModel:       chatModel,
		transcribeModel: transcribeModel,
		retry:           retry,
		logger:          utils.OrNop(logger),
		baseClient:      baseClient,
	}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// generate calls model with retries and returns the text of the first candidate.
func (c *Client) generate(ctx context.Context, model generator, op string, parts ...genai.Part) (string, error) {
	var resp *genai.GenerateContentResponse
	err := withRetry(ctx, c.retry, c.logger.With(zap.String("op", op)), func() error {
		var err error
		resp, err = model.GenerateContent(ctx, parts...)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, classifyError(err))
	}
	return responseText(resp), nil
}

// responseText concatenates the text parts of the first candidate, without code fences.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return stripFences(b.String())
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the language tag on the opening fence
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
