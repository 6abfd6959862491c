package g2p

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/example/go-g2p/internal/pinyinipa"
	"github.com/example/go-g2p/internal/separator"
	"github.com/mozillazg/go-pinyin"
)

// syllablePattern extracts pinyin syllable candidates from a word: maximal
// alphabetic runs with an optional trailing tone number.
var syllablePattern = regexp.MustCompile(`[a-zA-Z]+[0-9]*`)

// lookupFunc is the syllable→pronunciation-variants table contract,
// satisfied by pinyinipa.Lookup.
type lookupFunc func(string) ([][]string, error)

// pinyinAdapter runs the syllabic/tonal path: whitespace-split words,
// per-syllable table lookup, whole-line failure granularity. Lines are
// processed sequentially; table lookups are cheap and stateless, so there
// is no fanout.
type pinyinAdapter struct {
	cfg    Config
	lookup lookupFunc
	log    *slog.Logger
}

func newPinyinAdapter(language string, cfg Config, log *slog.Logger) (*pinyinAdapter, error) {
	// The table covers exactly one language family. Anything else is a
	// construction-time configuration fault, not a per-call one.
	if language != LanguageMandarin {
		return nil, fmt.Errorf("%w: pinyin adapter supports only %q, got %q",
			ErrConfiguration, LanguageMandarin, language)
	}

	return &pinyinAdapter{cfg: cfg, lookup: pinyinipa.Lookup, log: log}, nil
}

func (a *pinyinAdapter) phonemize(_ context.Context, lines []string) []Result {
	results := make([]Result, len(lines))
	failed := 0

	for i, line := range lines {
		results[i] = a.phonemizeLine(line)
		if results[i].Status.Failed() {
			failed++
		}
	}

	if failed > 0 {
		a.log.Debug("lines failed pinyin to ipa conversion", slog.Int("count", failed))
	}

	return results
}

// phonemizeLine converts one line of numbered pinyin (or raw hanzi, which
// is romanized first). A lookup failure for any syllable discards the whole
// line's accumulated output: partial output would mislead downstream
// alignment.
func (a *pinyinAdapter) phonemizeLine(line string) Result {
	if strings.TrimSpace(line) == "" {
		return Result{Status: StatusOK}
	}

	line = a.romanize(line)

	var b strings.Builder
	for _, word := range strings.Fields(line) {
		for _, syll := range syllablePattern.FindAllString(word, -1) {
			// A literal 0 marks the neutral/unmarked tone, not a tone id.
			syll = strings.ReplaceAll(syll, "0", "")

			variants, err := a.lookup(syll)
			if err != nil {
				return Result{Status: StatusFailedConversion}
			}

			b.WriteString(strings.Join(primaryVariant(variants), " "))
			b.WriteByte(' ')
		}

		if a.cfg.KeepWordBoundaries {
			b.WriteString(separator.WordBoundary)
			b.WriteByte(' ')
		}
	}

	return Result{Tokens: strings.TrimSpace(b.String()), Status: StatusOK}
}

// primaryVariant picks the pronunciation used when a syllable has several.
// The table orders variants by priority, so index 0 is the policy; keeping
// the choice behind this function makes the policy a one-line change.
func primaryVariant(variants [][]string) []string {
	return variants[0]
}

// romanize converts hanzi input to numbered pinyin so raw Mandarin text is
// accepted alongside pre-romanized corpora. Lines without Han runes pass
// through untouched.
func (a *pinyinAdapter) romanize(line string) string {
	if !strings.ContainsFunc(line, func(r rune) bool { return unicode.Is(unicode.Han, r) }) {
		return line
	}

	args := pinyin.NewArgs()
	args.Style = pinyin.Tone3
	args.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{string(r)}
	}

	words := make([]string, 0, len(line))
	for _, p := range pinyin.Pinyin(line, args) {
		words = append(words, p[0])
	}

	return strings.Join(words, " ")
}
