package speech

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hyperjump/pagewise/internal/models"
)

type fakeSynth struct {
	calls int
	err   error
	lang  string
}

func (f *fakeSynth) Synthesize(_ context.Context, text, languageCode string) ([]byte, string, error) {
	f.calls++
	f.lang = languageCode
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("audio:" + text), "audio/mpeg", nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(context.Context, []byte, string, string) (string, error) {
	return f.text, f.err
}

func TestService_Synthesize(t *testing.T) {
	synth := &fakeSynth{}
	s := NewService("", synth, nil, NewAudioCache(4), nil)
	ctx := context.Background()

	audio, err := s.Synthesize(ctx, models.TextToSpeechRequest{Text: "hello", LanguageCode: "en-US"})
	if err != nil {
		t.Fatal(err)
	}
	if string(audio.Data) != "audio:hello" || audio.MimeType != "audio/mpeg" {
		t.Errorf("audio = %+v", audio)
	}

	// second identical request is served from the cache
	if _, err := s.Synthesize(ctx, models.TextToSpeechRequest{Text: "hello", Provider: "Google", LanguageCode: "en-US"}); err != nil {
		t.Fatal(err)
	}
	if synth.calls != 1 {
		t.Errorf("synthesizer called %d times, want 1", synth.calls)
	}
	if s.CachedAudio() != 1 {
		t.Errorf("CachedAudio = %d", s.CachedAudio())
	}

	if _, err := s.Synthesize(ctx, models.TextToSpeechRequest{Text: "مرحبا"}); err != nil {
		t.Fatal(err)
	}
	if synth.lang != "ar" {
		t.Errorf("default language = %q, want ar", synth.lang)
	}
}

func TestService_SynthesizeErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		synth Synthesizer
		req   models.TextToSpeechRequest
		want  error
	}{
		{"empty text", &fakeSynth{}, models.TextToSpeechRequest{Text: "  "}, models.ErrInvalidRequest},
		{"unknown provider", &fakeSynth{}, models.TextToSpeechRequest{Text: "x", Provider: "acme"}, models.ErrInvalidRequest},
		{"quota", &fakeSynth{err: models.ErrQuotaExceeded}, models.TextToSpeechRequest{Text: "x"}, models.ErrQuotaExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService("google", tt.synth, nil, nil, nil)
			if _, err := s.Synthesize(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	s := NewService("google", nil, nil, nil, nil)
	if _, err := s.Synthesize(ctx, models.TextToSpeechRequest{Text: "x"}); err == nil {
		t.Error("expected error without a synthesizer")
	}
}

func TestService_Transcribe(t *testing.T) {
	ctx := context.Background()
	audio := bytes.Repeat([]byte{1}, MinAudioBytes)

	s := NewService("google", nil, &fakeTranscriber{text: "um next page"}, nil, nil)
	got, err := s.Transcribe(ctx, audio, "audio/webm", "en-US")
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "Next page." || got.LanguageCode != "en-US" {
		t.Errorf("transcript = %+v", got)
	}

	if _, err := s.Transcribe(ctx, audio[:MinAudioBytes-1], "audio/webm", "en"); !errors.Is(err, models.ErrInvalidRequest) {
		t.Errorf("short audio: err = %v, want ErrInvalidRequest", err)
	}

	s = NewService("google", nil, &fakeTranscriber{text: "uh"}, nil, nil)
	if _, err := s.Transcribe(ctx, audio, "", "en"); !errors.Is(err, models.ErrTranscriptionFailed) {
		t.Errorf("filler only: err = %v, want ErrTranscriptionFailed", err)
	}

	s = NewService("google", nil, &fakeTranscriber{err: models.ErrQuotaExceeded}, nil, nil)
	if _, err := s.Transcribe(ctx, audio, "", ""); !errors.Is(err, models.ErrQuotaExceeded) {
		t.Errorf("quota: err = %v", err)
	}
}

func TestAudioCache(t *testing.T) {
	c := NewAudioCache(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Set("a", &models.SpeechAudio{Data: []byte("1")})
	c.Set("b", &models.SpeechAudio{Data: []byte("2")})
	// a becomes most recent, so c evicts b
	c.Get("a")
	c.Set("c", &models.SpeechAudio{Data: []byte("3")})
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || string(v.Data) != "1" {
		t.Error("expected a to remain")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d", c.Len())
	}

	disabled := NewAudioCache(0)
	disabled.Set("a", &models.SpeechAudio{})
	if disabled.Len() != 0 {
		t.Error("disabled cache should stay empty")
	}
}

func TestVoiceFor(t *testing.T) {
	g := &GoogleSynthesizer{cfg: GoogleConfig{VoiceArabic: "ar-XA-Standard-A", VoiceEnglish: "en-US-Standard-C"}}
	tests := []struct {
		code, locale, voice string
	}{
		{"", "ar-XA", "ar-XA-Standard-A"},
		{"ar", "ar-XA", "ar-XA-Standard-A"},
		{"ar-XA", "ar-XA", "ar-XA-Standard-A"},
		{"ar-SA", "ar-SA", ""},
		{"english", "en-US", "en-US-Standard-C"},
		{"en-GB", "en-GB", ""},
		{"fr-FR", "fr-FR", ""},
	}
	for _, tt := range tests {
		locale, voice := g.voiceFor(tt.code)
		if locale != tt.locale || voice != tt.voice {
			t.Errorf("voiceFor(%q) = %q, %q; want %q, %q", tt.code, locale, voice, tt.locale, tt.voice)
		}
	}
}

func TestMimeTypeFor(t *testing.T) {
	for enc, want := range map[string]string{"MP3": "audio/mpeg", "ogg_opus": "audio/ogg", "LINEAR16": "audio/wav", "": "audio/mpeg"} {
		if got := MimeTypeFor(enc); got != want {
			t.Errorf("MimeTypeFor(%q) = %q, want %q", enc, got, want)
		}
	}
}
