// Package speech converts text to speech and speech to text for readers who listen to and
// talk to their documents.
package speech

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/pagewise/internal/fileid"
	"github.com/hyperjump/pagewise/internal/models"
	"github.com/hyperjump/pagewise/internal/textnorm"
	"github.com/hyperjump/pagewise/pkg/utils"
)

// MinAudioBytes is the smallest recording accepted for transcription.
const MinAudioBytes = 100

// DefaultProvider is the speech provider used when a request names none.
const DefaultProvider = "google"

// Synthesizer converts text to audio. Quota errors wrap models.ErrQuotaExceeded.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, string, error)
}

// Transcriber converts audio to text. An empty result wraps models.ErrTranscriptionFailed.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType, languageCode string) (string, error)
}

// Service validates speech requests, caches synthesized audio and cleans transcripts.
type Service struct {
	synth           Synthesizer
	trans           Transcriber
	provider        string
	defaultLanguage string
	cache           *AudioCache
	logger          *zap.Logger
}

// NewService creates a Service for the given provider. Either collaborator may be nil, in
// which case the matching operation reports the provider as unavailable.
func NewService(provider string, synth Synthesizer, trans Transcriber, cache *AudioCache, logger *zap.Logger) *Service {
	if provider == "" {
		provider = DefaultProvider
	}
	if cache == nil {
		cache = NewAudioCache(0)
	}
	return &Service{
		synth:           synth,
		trans:           trans,
		provider:        provider,
		defaultLanguage: "ar",
		cache:           cache,
		logger:          utils.OrNop(logger),
	}
}

// Synthesize returns speech for req.Text, serving repeated requests from the cache.
func (s *Service) Synthesize(ctx context.Context, req models.TextToSpeechRequest) (*models.SpeechAudio, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if provider == "" {
		provider = s.provider
	}
	if provider != s.provider {
		return nil, fmt.Errorf("%w: unsupported speech provider %q", models.ErrInvalidRequest, req.Provider)
	}
	if s.synth == nil {
		return nil, fmt.Errorf("speech synthesis is not configured")
	}
	lang := req.LanguageCode
	if lang == "" {
		lang = s.defaultLanguage
	}

	key := fileid.SpeechKey(provider, lang, req.Text)
	if audio, ok := s.cache.Get(key); ok {
		return audio, nil
	}
	data, mime, err := s.synth.Synthesize(ctx, req.Text, lang)
	if err != nil {
		s.logger.Warn("speech synthesis failed", zap.String("language_code", lang), zap.Error(err))
		return nil, err
	}
	audio := &models.SpeechAudio{Data: data, MimeType: mime}
	s.cache.Set(key, audio)
	return audio, nil
}

// Transcribe converts a recording to cleaned-up text.
func (s *Service) Transcribe(ctx context.Context, audio []byte, mimeType, languageCode string) (*models.Transcript, error) {
	if len(audio) < MinAudioBytes {
		return nil, fmt.Errorf("%w: audio too short (%d bytes)", models.ErrInvalidRequest, len(audio))
	}
	if s.trans == nil {
		return nil, fmt.Errorf("speech transcription is not configured")
	}
	if languageCode == "" {
		languageCode = s.defaultLanguage
	}
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	raw, err := s.trans.Transcribe(ctx, audio, mimeType, languageCode)
	if err != nil {
		s.logger.Warn("speech transcription failed", zap.String("language_code", languageCode), zap.Error(err))
		return nil, err
	}
	text := textnorm.ProcessTranscript(raw, languageCode)
	if text == "" {
		return nil, fmt.Errorf("%w: no speech recognized", models.ErrTranscriptionFailed)
	}
	return &models.Transcript{Text: text, LanguageCode: languageCode}, nil
}

// CachedAudio returns the number of cached speech responses.
func (s *Service) CachedAudio() int {
	return s.cache.Len()
}
