// Package language provides the statistical language detection adapter.
// Clean Architecture: Adapter implementing ports.LanguageDetector.
package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LinguaDetector implements ports.LanguageDetector using the lingua-go
// statistical language guesser.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector over all supported languages.
// Models are loaded lazily on first detection.
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of the best guess, or "unknown"
// when the text is too short or ambiguous for a confident call.
func (d *LinguaDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return "unknown"
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "unknown"
	}

	return strings.ToLower(lang.IsoCode639_1().String())
}
