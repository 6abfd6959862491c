// Package engine wraps the external transcription engines behind a common
// per-line interface. Engines return raw marker-separated strings; all
// boundary handling and normalization happens in the g2p package.
package engine

import "context"

// Engine converts one line of text into a raw phoneme string using the
// separator conventions the engine was constructed with. A non-nil error
// marks that line as failed; it never aborts a batch.
type Engine interface {
	Name() string
	Phonemize(ctx context.Context, line string) (string, error)
}

// LanguageLister enumerates the language codes an engine currently supports.
// Implementations recover probe failures internally and return an empty
// slice rather than an error, logging the condition.
type LanguageLister interface {
	Languages(ctx context.Context) []string
}
