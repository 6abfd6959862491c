// Package pinyinipa converts numbered Mandarin pinyin syllables to IPA
// phone sequences. It is a pure table lookup: initial, final, and tone
// contour tables composed per syllable, with multiple pronunciation
// variants where Mandarin phonology admits them.
package pinyinipa

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSyllable is wrapped by Lookup for any syllable the tables
// cannot account for.
var ErrUnknownSyllable = errors.New("unknown pinyin syllable")

// initials maps pinyin onsets to IPA. Double-letter initials must be
// matched before their single-letter prefixes (zh before z).
var doubleInitials = []string{"zh", "ch", "sh"}

var initials = map[string]string{
	"b": "p", "p": "pʰ", "m": "m", "f": "f",
	"d": "t", "t": "tʰ", "n": "n", "l": "l",
	"g": "k", "k": "kʰ", "h": "x",
	"j": "tɕ", "q": "tɕʰ", "x": "ɕ",
	"zh": "ʈʂ", "ch": "ʈʂʰ", "sh": "ʂ", "r": "ʐ",
	"z": "ts", "c": "tsʰ", "s": "s",
	"y": "j", "w": "w",
}

// finals maps pinyin rimes to pronunciation variants, primary first.
// Each variant is a space-joined phone sequence.
var finals = map[string][]string{
	"a":    {"a"},
	"o":    {"ɔ", "o"},
	"e":    {"ɤ", "ə"},
	"i":    {"i"},
	"u":    {"u"},
	"v":    {"y"},
	"ü":    {"y"},
	"ai":   {"aɪ̯"},
	"ei":   {"eɪ̯"},
	"ao":   {"aʊ̯"},
	"ou":   {"oʊ̯"},
	"an":   {"a n"},
	"en":   {"ə n"},
	"ang":  {"a ŋ"},
	"eng":  {"ə ŋ"},
	"ong":  {"ʊ ŋ"},
	"er":   {"ɚ", "ɑ˞"},
	"ia":   {"j a"},
	"ie":   {"j e"},
	"iao":  {"j aʊ̯"},
	"iu":   {"j oʊ̯"},
	"iou":  {"j oʊ̯"},
	"ian":  {"j ɛ n"},
	"in":   {"i n"},
	"iang": {"j a ŋ"},
	"ing":  {"i ŋ"},
	"iong": {"j ʊ ŋ"},
	"ua":   {"w a"},
	"uo":   {"w o"},
	"uai":  {"w aɪ̯"},
	"ui":   {"w eɪ̯"},
	"uei":  {"w eɪ̯"},
	"uan":  {"w a n"},
	"un":   {"w ə n"},
	"uen":  {"w ə n"},
	"uang": {"w a ŋ"},
	"ueng": {"w ə ŋ"},
	"ve":   {"ɥ e"},
	"üe":   {"ɥ e"},
	"van":  {"ɥ ɛ n"},
	"üan":  {"ɥ ɛ n"},
	"vn":   {"y n"},
	"ün":   {"y n"},
}

// tones maps tone digits to contour letters. Tone 5 (neutral) carries no
// contour token. The 0 digit is not a tone id: callers strip it before
// lookup, so it is rejected here.
var tones = map[byte]string{
	'1': "˥",
	'2': "˧˥",
	'3': "˨˩˦",
	'4': "˥˩",
	'5': "",
}

// retroflexSyllabic covers zhi/chi/shi/ri, apicoalveolar covers zi/ci/si:
// the written "i" is a syllabic consonant, not the vowel i.
var retroflexSyllabic = map[string]bool{"zh": true, "ch": true, "sh": true, "r": true}
var apicoSyllabic = map[string]bool{"z": true, "c": true, "s": true}

// Lookup converts one numbered pinyin syllable (e.g. "ni3", "hao3", "ma")
// to its pronunciation variants, primary variant first. Each variant is a
// phone slice with the tone contour, if any, as its last element.
//
// A missing tone digit and tone 5 both mean the neutral tone. The 0 digit
// denotes "unmarked" and must be stripped by the caller; it is an error
// here so malformed corpus tokens surface as lookup failures.
func Lookup(syllable string) ([][]string, error) {
	s := strings.ToLower(strings.TrimSpace(syllable))
	if s == "" {
		return nil, fmt.Errorf("%w: empty syllable", ErrUnknownSyllable)
	}

	base, tone, err := splitTone(s)
	if err != nil {
		return nil, err
	}

	initial := matchInitial(base)
	final := base[len(initial):]

	var onset string
	if initial != "" {
		onset = initials[initial]
	}

	rimes, err := rimeVariants(initial, final)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSyllable, syllable)
	}

	variants := make([][]string, 0, len(rimes))
	for _, rime := range rimes {
		var phones []string
		if onset != "" {
			phones = append(phones, onset)
		}
		phones = append(phones, strings.Fields(rime)...)
		if tone != "" {
			phones = append(phones, tone)
		}
		variants = append(variants, phones)
	}

	return variants, nil
}

// splitTone separates the optional trailing tone digit from the syllable
// body. More than one digit, or a digit outside 1-5, is malformed.
func splitTone(s string) (base, contour string, err error) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	base, digits := s[:i], s[i:]

	if base == "" {
		return "", "", fmt.Errorf("%w: %q has no syllable body", ErrUnknownSyllable, s)
	}
	if len(digits) > 1 {
		return "", "", fmt.Errorf("%w: %q has multiple tone digits", ErrUnknownSyllable, s)
	}
	if digits == "" {
		return base, "", nil
	}

	contour, ok := tones[digits[0]]
	if !ok {
		return "", "", fmt.Errorf("%w: %q has invalid tone digit %q", ErrUnknownSyllable, s, digits)
	}
	return base, contour, nil
}

// matchInitial returns the pinyin onset of base, longest match first, or ""
// for vowel-initial syllables.
func matchInitial(base string) string {
	for _, d := range doubleInitials {
		if strings.HasPrefix(base, d) && len(base) > len(d) {
			return d
		}
	}
	if len(base) > 1 {
		if _, ok := initials[base[:1]]; ok {
			return base[:1]
		}
	}
	return ""
}

// rimeVariants resolves the written final against the tables, applying the
// syllabic-consonant readings of "i" after retroflex and apicoalveolar
// onsets.
func rimeVariants(initial, final string) ([]string, error) {
	if final == "i" {
		switch {
		case retroflexSyllabic[initial]:
			return []string{"ʐ̩"}, nil
		case apicoSyllabic[initial]:
			return []string{"z̩"}, nil
		}
	}

	rimes, ok := finals[final]
	if !ok {
		return nil, fmt.Errorf("no final %q", final)
	}
	return rimes, nil
}
