package g2p

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/example/go-g2p/internal/engine"
)

// Word-boundary-mismatch policies, mirroring the engine-level options of
// the general path.
const (
	mismatchIgnore = "ignore"
	mismatchRemove = "remove"
)

// generalAdapter runs the multi-language engine path: bounded fanout over
// lines, per-line failure isolation, and the boundary-mismatch policy.
type generalAdapter struct {
	eng      engine.Engine
	cfg      Config
	mismatch string
	jobs     int
	log      *slog.Logger
}

func newGeneralAdapter(eng engine.Engine, cfg Config, log *slog.Logger) *generalAdapter {
	// Mismatches are tolerated when the caller accepts faulty boundaries or
	// is not tracking boundaries at all; otherwise affected lines are
	// removed rather than silently misaligned.
	mismatch := mismatchRemove
	if cfg.AllowPossiblyFaultyWordBoundaries || !cfg.KeepWordBoundaries {
		mismatch = mismatchIgnore
	}

	return &generalAdapter{
		eng:      eng,
		cfg:      cfg,
		mismatch: mismatch,
		jobs:     cfg.Jobs,
		log:      log,
	}
}

// phonemize converts lines in input order. Results are assembled
// positionally, never by completion order, so the fanout degree has no
// observable effect on the output.
func (a *generalAdapter) phonemize(ctx context.Context, lines []string) []Result {
	restore := suppressDiagnostics()
	defer restore()

	results := make([]Result, len(lines))

	sem := make(chan struct{}, a.jobs)
	var wg sync.WaitGroup
	wg.Add(len(lines))

	for i, line := range lines {
		sem <- struct{}{}
		go func(i int, line string) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = a.phonemizeLine(ctx, line)
		}(i, line)
	}
	wg.Wait()

	return results
}

func (a *generalAdapter) phonemizeLine(ctx context.Context, line string) Result {
	if strings.TrimSpace(line) == "" {
		return Result{Status: StatusOK}
	}

	input := line
	if !a.cfg.PreservePunctuation {
		input = stripPunctuation(input)
		if strings.TrimSpace(input) == "" {
			// The line was punctuation-only; nothing to transcribe.
			return Result{Status: StatusOK}
		}
	}

	raw, err := a.eng.Phonemize(ctx, input)
	if err != nil || strings.TrimSpace(raw) == "" {
		return Result{Status: StatusFailedConversion}
	}

	if a.mismatch == mismatchRemove && countWords(raw) != countWords(input) {
		return Result{Status: StatusFailedBoundaryMismatch}
	}

	return Result{
		Tokens: Normalize(raw, a.cfg.KeepWordBoundaries),
		Status: StatusOK,
	}
}

// countWords counts space-separated groups. Raw engine lines keep words
// space-separated while phones are joined by the marker, so this counts the
// same unit on both sides of the engine call.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// stripPunctuation drops punctuation runes. Apostrophes survive because
// they are lexical in many espeak languages (contractions, elision).
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\'' {
			return r
		}
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
}
