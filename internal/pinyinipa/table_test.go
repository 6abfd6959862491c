package pinyinipa

import (
	"errors"
	"reflect"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		syllable string
		want     []string // primary variant only
	}{
		{name: "ni third tone", syllable: "ni3", want: []string{"n", "i", "˨˩˦"}},
		{name: "hao third tone", syllable: "hao3", want: []string{"x", "aʊ̯", "˨˩˦"}},
		{name: "first tone", syllable: "ma1", want: []string{"m", "a", "˥"}},
		{name: "second tone", syllable: "guo2", want: []string{"k", "w", "o", "˧˥"}},
		{name: "fourth tone", syllable: "shi4", want: []string{"ʂ", "ʐ̩", "˥˩"}},
		{name: "neutral tone five", syllable: "ma5", want: []string{"m", "a"}},
		{name: "no tone digit", syllable: "le", want: []string{"l", "ɤ"}},
		{name: "retroflex syllabic i", syllable: "zhi1", want: []string{"ʈʂ", "ʐ̩", "˥"}},
		{name: "apicoalveolar syllabic i", syllable: "si1", want: []string{"s", "z̩", "˥"}},
		{name: "vowel initial", syllable: "ai4", want: []string{"aɪ̯", "˥˩"}},
		{name: "rhotic final", syllable: "er2", want: []string{"ɚ", "˧˥"}},
		{name: "velar nasal final", syllable: "zhong1", want: []string{"ʈʂ", "ʊ", "ŋ", "˥"}},
		{name: "aspirated initial", syllable: "tian1", want: []string{"tʰ", "j", "ɛ", "n", "˥"}},
		{name: "uppercase tolerated", syllable: "NI3", want: []string{"n", "i", "˨˩˦"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variants, err := Lookup(tt.syllable)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tt.syllable, err)
			}
			if len(variants) == 0 {
				t.Fatalf("Lookup(%q) returned no variants", tt.syllable)
			}
			if !reflect.DeepEqual(variants[0], tt.want) {
				t.Errorf("Lookup(%q)[0] = %v, want %v", tt.syllable, variants[0], tt.want)
			}
		})
	}
}

func TestLookupVariantOrdering(t *testing.T) {
	// "e" admits two readings; the primary one must come first so the
	// first-variant policy in the syllabic adapter stays deterministic.
	variants, err := Lookup("e4")
	if err != nil {
		t.Fatal(err)
	}
	if len(variants) < 2 {
		t.Fatalf("expected at least 2 variants for e4, got %d", len(variants))
	}
	if variants[0][0] != "ɤ" {
		t.Errorf("primary variant starts with %q, want ɤ", variants[0][0])
	}
	if variants[1][0] != "ə" {
		t.Errorf("secondary variant starts with %q, want ə", variants[1][0])
	}
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name     string
		syllable string
	}{
		{name: "unknown letters", syllable: "zzz"},
		{name: "invalid tone digit", syllable: "zzz9"},
		{name: "tone digit zero", syllable: "ma0"},
		{name: "multiple tone digits", syllable: "ma33"},
		{name: "digits only", syllable: "42"},
		{name: "empty", syllable: ""},
		{name: "bad final", syllable: "nq3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lookup(tt.syllable)
			if err == nil {
				t.Fatalf("Lookup(%q) succeeded, want error", tt.syllable)
			}
			if !errors.Is(err, ErrUnknownSyllable) {
				t.Errorf("Lookup(%q) error = %v, want ErrUnknownSyllable", tt.syllable, err)
			}
		})
	}
}
