// Package fileid derives deterministic cache keys from document content and speech requests.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	analysisPrefix = "analysis:"
	speechPrefix   = "speech:"
)

// AnalysisKey returns a stable key for the bulk analysis of content in the given language by
// the given model. Same inputs always yield the same key.
func AnalysisKey(content []byte, language, model string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(language))
	h.Write([]byte{0})
	h.Write(content)
	return analysisPrefix + hex.EncodeToString(h.Sum(nil))
}

// SpeechKey returns a stable key for synthesized speech of text.
func SpeechKey(provider, languageCode, text string) string {
	hash := sha256.Sum256([]byte(provider + "\x00" + languageCode + "\x00" + text))
	return speechPrefix + hex.EncodeToString(hash[:])
}
