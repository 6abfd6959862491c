// Package g2p converts written text into a normalized stream of phoneme
// tokens annotated with word boundaries. It dispatches batches to an
// external transcription engine selected by language and post-processes
// every engine's output into one consistent token vocabulary.
package g2p

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/example/go-g2p/internal/config"
	"github.com/example/go-g2p/internal/engine"
	"github.com/example/go-g2p/internal/separator"
)

// ErrConfiguration marks faults that abort a batch before any line is
// processed: a missing engine dependency, an empty language code, or an
// unsupported language for a single-language adapter.
var ErrConfiguration = errors.New("g2p: configuration error")

// Languages with dedicated adapters. Everything else goes through espeak-ng.
const (
	// LanguageMandarin is transcribed from (or romanized to) numbered
	// pinyin and converted by syllable table lookup.
	LanguageMandarin = "mandarin"

	// LanguageJapanese needs segmentation before phonemization and is
	// handled by the in-process goruut engine.
	LanguageJapanese = "ja"
)

const defaultJobs = 4

// Config holds the wrapper options. It is resolved once at construction
// and read-only afterwards.
type Config struct {
	// KeepWordBoundaries appends WORD_BOUNDARY tokens after each word and
	// at the end of every non-empty line.
	KeepWordBoundaries bool

	// AllowPossiblyFaultyWordBoundaries keeps lines whose engine word count
	// disagrees with the input instead of dropping them.
	AllowPossiblyFaultyWordBoundaries bool

	// PreservePunctuation passes punctuation through to the engine instead
	// of stripping it beforehand.
	PreservePunctuation bool

	// WithStress keeps espeak stress markers in the output.
	WithStress bool

	// Jobs bounds the engine fanout of the general path.
	Jobs int

	// Backend selects the general engine: config.BackendEspeak (default)
	// or config.BackendGoruut.
	Backend string

	// EspeakCommand overrides the espeak-ng invocation (parsed with shell
	// word splitting). Empty means the configured environment default.
	EspeakCommand string

	// Logger receives failure counts and engine diagnostics. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the wrapper defaults: boundaries kept, strict
// mismatch policy, punctuation stripped, no stress markers.
func DefaultConfig() Config {
	return Config{KeepWordBoundaries: true, Jobs: defaultJobs}
}

// ConfigFrom maps the application configuration onto wrapper options.
func ConfigFrom(c config.Config, log *slog.Logger) Config {
	return Config{
		KeepWordBoundaries:                c.Phonemize.KeepWordBoundaries,
		AllowPossiblyFaultyWordBoundaries: c.Phonemize.AllowPossiblyFaultyWordBoundaries,
		PreservePunctuation:               c.Phonemize.PreservePunctuation,
		WithStress:                        c.Phonemize.WithStress,
		Jobs:                              c.Engine.Jobs,
		Backend:                           c.Engine.Backend,
		EspeakCommand:                     c.Engine.EspeakCommand,
		Logger:                            log,
	}
}

// adapter is the uniform batch operation both engine paths implement.
type adapter interface {
	phonemize(ctx context.Context, lines []string) []Result
}

// Wrapper converts batches of text lines for one language. It is safe for
// concurrent use; batches through the general path serialize on the
// diagnostic suppression guard.
type Wrapper struct {
	language string
	adapter  adapter
	log      *slog.Logger
}

// New classifies the language once and builds the matching adapter:
// mandarin → syllabic pinyin adapter; ja → general adapter on the goruut
// segmentation engine; everything else → general adapter on espeak-ng.
// Engine availability and language support are verified here, so batch
// calls cannot fail on configuration.
func New(language string, cfg Config) (*Wrapper, error) {
	if language == "" {
		return nil, fmt.Errorf("%w: language code must not be empty", ErrConfiguration)
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = defaultJobs
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	backend, err := config.NormalizeBackend(cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	var ad adapter
	switch {
	case language == LanguageMandarin:
		ad, err = newPinyinAdapter(language, cfg, log)
		if err != nil {
			return nil, err
		}

	case language == LanguageJapanese || backend == config.BackendGoruut:
		eng, gerr := engine.NewGoruut(language, separator.Default())
		if gerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, gerr)
		}
		ad = newGeneralAdapter(eng, cfg, log)

	default:
		eng, eerr := engine.NewEspeak(
			cfg.EspeakCommand, language, separator.Default(), cfg.WithStress, diagnosticLogger(log))
		if eerr != nil {
			return nil, fmt.Errorf(
				"%w: %v (install espeak-ng or set G2P_ESPEAK_PATH to the espeak-ng binary)",
				ErrConfiguration, eerr)
		}

		// Reject unsupported languages up front. An empty inventory means
		// enumeration itself failed; the per-line calls will surface that.
		if langs := eng.Languages(context.Background()); len(langs) > 0 && !slices.Contains(langs, language) {
			return nil, fmt.Errorf("%w: language %q is not supported by espeak-ng", ErrConfiguration, language)
		}

		ad = newGeneralAdapter(eng, cfg, log)
	}

	return &Wrapper{language: language, adapter: ad, log: log}, nil
}

// Language returns the language code the wrapper was built for.
func (w *Wrapper) Language() string { return w.language }

// PhonemizeBatch converts lines in order. The returned slice always has
// exactly len(lines) entries; a failed line is an empty string, never
// omitted. Failure counts are reported at debug level only.
func (w *Wrapper) PhonemizeBatch(ctx context.Context, lines []string) []string {
	results := w.PhonemizeBatchResults(ctx, lines)

	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Tokens
	}
	return out
}

// PhonemizeBatchResults is PhonemizeBatch with per-line statuses, for
// callers that want corpus-quality metrics beyond the aggregate counts.
func (w *Wrapper) PhonemizeBatchResults(ctx context.Context, lines []string) []Result {
	results := w.adapter.phonemize(ctx, lines)

	var conversions, mismatches int
	for _, r := range results {
		switch r.Status {
		case StatusFailedConversion:
			conversions++
		case StatusFailedBoundaryMismatch:
			mismatches++
		}
	}

	if conversions > 0 {
		w.log.Debug("lines were not phonemized",
			slog.String("language", w.language), slog.Int("count", conversions))
	}
	if mismatches > 0 {
		w.log.Debug("lines dropped for word boundary mismatches",
			slog.String("language", w.language), slog.Int("count", mismatches))
	}

	return results
}

// SupportedLanguages enumerates the language codes the installed general
// engine accepts, plus the dedicated-adapter languages. A missing engine
// yields only the dedicated languages, never an error.
func SupportedLanguages(ctx context.Context, espeakCommand string, log *slog.Logger) []string {
	if log == nil {
		log = slog.Default()
	}

	langs := []string{LanguageMandarin, LanguageJapanese}

	eng, err := engine.NewEspeak(espeakCommand, "", separator.Default(), false, log)
	if err != nil {
		log.Warn("espeak-ng not available; only dedicated-adapter languages are usable",
			slog.String("error", err.Error()))
		return langs
	}

	return append(langs, eng.Languages(ctx)...)
}
