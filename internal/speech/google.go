package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/texttospeech/v1"

	"github.com/hyperjump/pagewise/internal/models"
)

// GoogleConfig selects Cloud Text-to-Speech voices and encoding.
type GoogleConfig struct {
	VoiceArabic   string
	VoiceEnglish  string
	AudioEncoding string
}

// GoogleSynthesizer implements Synthesizer with Cloud Text-to-Speech.
type GoogleSynthesizer struct {
	svc *texttospeech.Service
	cfg GoogleConfig
}

// NewGoogleSynthesizer creates a Cloud Text-to-Speech client. opts are passed to the
// underlying service (for example option.WithCredentialsFile).
func NewGoogleSynthesizer(ctx context.Context, cfg GoogleConfig, opts ...option.ClientOption) (*GoogleSynthesizer, error) {
	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("texttospeech.NewService: %w", err)
	}
	if cfg.AudioEncoding == "" {
		cfg.AudioEncoding = "MP3"
	}
	return &GoogleSynthesizer{svc: svc, cfg: cfg}, nil
}

// Synthesize converts text to speech in the voice configured for languageCode.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, string, error) {
	locale, voice := g.voiceFor(languageCode)
	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: locale,
			Name:         voice,
		},
		AudioConfig: &texttospeech.AudioConfig{AudioEncoding: g.cfg.AudioEncoding},
	}
	resp, err := g.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 429 {
			return nil, "", fmt.Errorf("%w: %v", models.ErrQuotaExceeded, err)
		}
		return nil, "", fmt.Errorf("synthesize speech: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, "", fmt.Errorf("decode audio content: %w", err)
	}
	return audio, MimeTypeFor(g.cfg.AudioEncoding), nil
}

// voiceFor returns the BCP-47 locale and voice name for a language code. Region-qualified
// codes keep their region; the voice is chosen by language.
func (g *GoogleSynthesizer) voiceFor(languageCode string) (string, string) {
	code := strings.ToLower(strings.TrimSpace(languageCode))
	switch {
	case code == "en" || code == "english":
		return "en-US", g.cfg.VoiceEnglish
	case strings.HasPrefix(code, "en-"):
		return languageCode, voiceIfLocale(g.cfg.VoiceEnglish, languageCode)
	case code == "" || code == "ar" || code == "arabic":
		return "ar-XA", g.cfg.VoiceArabic
	case strings.HasPrefix(code, "ar-"):
		return languageCode, voiceIfLocale(g.cfg.VoiceArabic, languageCode)
	default:
		return languageCode, ""
	}
}

// voiceIfLocale returns voice when it belongs to locale, so that the service picks a
// default voice instead of rejecting a mismatched one.
func voiceIfLocale(voice, locale string) string {
	if strings.HasPrefix(strings.ToLower(voice), strings.ToLower(locale)+"-") {
		return voice
	}
	return ""
}

// MimeTypeFor returns the media type of a Cloud Text-to-Speech audio encoding.
func MimeTypeFor(encoding string) string {
	switch strings.ToUpper(encoding) {
	case "OGG_OPUS":
		return "audio/ogg"
	case "LINEAR16":
		return "audio/wav"
	case "MULAW", "ALAW":
		return "audio/basic"
	default:
		return "audio/mpeg"
	}
}
