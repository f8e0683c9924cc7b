package fileid

import (
	"strings"
	"testing"
)

func TestAnalysisKey(t *testing.T) {
	content := []byte("%PDF-1.7 fake")
	id1 := AnalysisKey(content, "arabic", "gemini-1.5-flash")
	id2 := AnalysisKey(content, "arabic", "gemini-1.5-flash")
	if id1 != id2 {
		t.Errorf("same input should give same key: %q vs %q", id1, id2)
	}
	if !strings.HasPrefix(id1, analysisPrefix) {
		t.Errorf("key should have prefix %q: got %q", analysisPrefix, id1)
	}
	if len(id1) != len(analysisPrefix)+64 {
		t.Errorf("unexpected key length: %q", id1)
	}
}

func TestAnalysisKey_inputsMatter(t *testing.T) {
	base := AnalysisKey([]byte("deck"), "arabic", "m1")
	others := []string{
		AnalysisKey([]byte("deck2"), "arabic", "m1"),
		AnalysisKey([]byte("deck"), "english", "m1"),
		AnalysisKey([]byte("deck"), "arabic", "m2"),
	}
	for _, o := range others {
		if o == base {
			t.Errorf("different inputs should give different keys: %q", o)
		}
	}
}

func TestAnalysisKey_fieldBoundaries(t *testing.T) {
	// the separator keeps "ab"+"c" apart from "a"+"bc"
	if AnalysisKey([]byte("x"), "ab", "c") == AnalysisKey([]byte("x"), "a", "bc") {
		t.Error("field boundaries should be unambiguous")
	}
}

func TestSpeechKey(t *testing.T) {
	k := SpeechKey("google", "ar-SA", "مرحبا")
	if k != SpeechKey("google", "ar-SA", "مرحبا") {
		t.Error("same request should be deterministic")
	}
	if !strings.HasPrefix(k, speechPrefix) {
		t.Errorf("key should have prefix %q: got %q", speechPrefix, k)
	}
	if k == SpeechKey("google", "en-US", "مرحبا") {
		t.Error("language should change the key")
	}
}
