package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/example/go-g2p/internal/separator"
	"github.com/neurlang/goruut/lib"
	"github.com/neurlang/goruut/models/requests"
)

// goruutLanguages maps language codes to the spelled-out names goruut uses.
// Japanese is the primary consumer (the segmentation path); the others make
// goruut usable as a general fallback backend when espeak-ng is absent.
var goruutLanguages = map[string]string{
	"ja":    "Japanese",
	"en":    "English",
	"en-us": "English",
	"de":    "German",
	"fr":    "French",
	"es":    "Spanish",
}

// Goruut is an in-process phonemizer used where a segmentation step is
// required before phonemization (Japanese), or as an espeak-free fallback.
type Goruut struct {
	p        *lib.Phonemizer
	language string
	sep      separator.Separator
}

// NewGoruut returns an engine for the given language code. Codes outside
// goruutLanguages are rejected at construction time.
func NewGoruut(code string, sep separator.Separator) (*Goruut, error) {
	name, ok := goruutLanguages[code]
	if !ok {
		return nil, fmt.Errorf("goruut backend does not support language %q", code)
	}

	return &Goruut{
		p:        lib.NewPhonemizer(nil),
		language: name,
		sep:      sep,
	}, nil
}

func (g *Goruut) Name() string { return "goruut" }

// Phonemize transcribes one line. Each word's phonetic string is split into
// per-phone tokens joined by the phone marker, matching the raw conventions
// of the general path.
func (g *Goruut) Phonemize(_ context.Context, line string) (string, error) {
	resp := g.p.Sentence(requests.PhonemizeSentence{
		Language: g.language,
		Sentence: line,
	})
	if len(resp.Words) == 0 {
		return "", fmt.Errorf("goruut produced no words for %q", line)
	}

	words := make([]string, 0, len(resp.Words))
	for _, w := range resp.Words {
		if w.Phonetic == "" {
			continue
		}
		words = append(words, strings.Join(splitPhones(w.Phonetic), g.sep.Phone))
	}

	return strings.Join(words, g.sep.Word), nil
}

// Languages lists the codes this wrapper accepts, sorted for stable output.
func (g *Goruut) Languages(_ context.Context) []string {
	langs := make([]string, 0, len(goruutLanguages))
	for code := range goruutLanguages {
		langs = append(langs, code)
	}
	sort.Strings(langs)
	return langs
}

// splitPhones splits an IPA string into per-phone tokens. Combining marks
// and modifier letters (length marks, diacritics such as the non-syllabic
// arc) attach to the preceding base symbol instead of becoming tokens.
func splitPhones(s string) []string {
	var phones []string
	for _, r := range s {
		if len(phones) > 0 && (unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Lm, r)) {
			phones[len(phones)-1] += string(r)
			continue
		}
		phones = append(phones, string(r))
	}
	return phones
}
