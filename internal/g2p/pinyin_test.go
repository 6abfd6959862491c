package g2p

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func newTestPinyinAdapter(t *testing.T, cfg Config) *pinyinAdapter {
	t.Helper()
	ad, err := newPinyinAdapter(LanguageMandarin, cfg, slog.Default())
	if err != nil {
		t.Fatalf("newPinyinAdapter: %v", err)
	}
	return ad
}

func TestPinyinAdapterBoundaries(t *testing.T) {
	tests := []struct {
		name           string
		keepBoundaries bool
		line           string
		want           string
	}{
		{
			name:           "numbered pinyin with boundaries",
			keepBoundaries: true,
			line:           "ni3 hao3",
			want:           "n i ˨˩˦ WORD_BOUNDARY x aʊ̯ ˨˩˦ WORD_BOUNDARY",
		},
		{
			name:           "numbered pinyin without boundaries",
			keepBoundaries: false,
			line:           "ni3 hao3",
			want:           "n i ˨˩˦ x aʊ̯ ˨˩˦",
		},
		{
			name:           "neutral tone zero stripped",
			keepBoundaries: false,
			line:           "ma0",
			want:           "m a",
		},
		{
			name:           "punctuation ignored by syllable extraction",
			keepBoundaries: true,
			line:           "ni3, hao3!",
			want:           "n i ˨˩˦ WORD_BOUNDARY x aʊ̯ ˨˩˦ WORD_BOUNDARY",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.KeepWordBoundaries = tt.keepBoundaries
			ad := newTestPinyinAdapter(t, cfg)

			res := ad.phonemizeLine(tt.line)
			if res.Status.Failed() {
				t.Fatalf("phonemizeLine(%q) failed", tt.line)
			}
			if res.Tokens != tt.want {
				t.Errorf("phonemizeLine(%q) = %q, want %q", tt.line, res.Tokens, tt.want)
			}
		})
	}
}

func TestPinyinAdapterWholeLineFailure(t *testing.T) {
	ad := newTestPinyinAdapter(t, DefaultConfig())

	lines := []string{"ni3 hao3", "ni3 zzz9 hao3", "ma1"}
	results := ad.phonemize(context.Background(), lines)

	if len(results) != len(lines) {
		t.Fatalf("got %d results for %d lines", len(results), len(lines))
	}

	// An unknown syllable anywhere discards the entire line, not just the
	// offending word; neighbours are unaffected.
	if results[1].Status != StatusFailedConversion {
		t.Errorf("line with unknown syllable: status = %v, want StatusFailedConversion", results[1].Status)
	}
	if results[1].Tokens != "" {
		t.Errorf("failed line carries tokens %q, want empty", results[1].Tokens)
	}
	if results[0].Status.Failed() || results[2].Status.Failed() {
		t.Error("healthy neighbour lines must not fail")
	}
	if results[0].Tokens == "" || results[2].Tokens == "" {
		t.Error("healthy neighbour lines must keep their output")
	}
}

func TestPinyinAdapterEmptyLines(t *testing.T) {
	ad := newTestPinyinAdapter(t, DefaultConfig())

	for _, line := range []string{"", "   ", "\t"} {
		res := ad.phonemizeLine(line)
		if res.Status.Failed() {
			t.Errorf("phonemizeLine(%q) recorded a failure", line)
		}
		if res.Tokens != "" {
			t.Errorf("phonemizeLine(%q) = %q, want empty", line, res.Tokens)
		}
	}
}

func TestPinyinAdapterHanziRomanization(t *testing.T) {
	ad := newTestPinyinAdapter(t, DefaultConfig())

	res := ad.phonemizeLine("你好")
	if res.Status.Failed() {
		t.Fatal("hanzi input failed")
	}
	want := "n i ˨˩˦ WORD_BOUNDARY x aʊ̯ ˨˩˦ WORD_BOUNDARY"
	if res.Tokens != want {
		t.Errorf("phonemizeLine(你好) = %q, want %q", res.Tokens, want)
	}
}

func TestPinyinAdapterSingleLanguage(t *testing.T) {
	_, err := newPinyinAdapter("ja", DefaultConfig(), slog.Default())
	if err == nil {
		t.Fatal("expected configuration error for non-mandarin language")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("error = %v, want ErrConfiguration", err)
	}
}

func TestPinyinAdapterBatchAlignment(t *testing.T) {
	ad := newTestPinyinAdapter(t, DefaultConfig())

	lines := []string{"ni3", "", "zzz", "hao3 ma5", "  "}
	results := ad.phonemize(context.Background(), lines)

	if len(results) != len(lines) {
		t.Fatalf("got %d results for %d lines", len(results), len(lines))
	}
	for i, r := range results {
		if lines[i] == "" || lines[i] == "  " {
			if r.Tokens != "" || r.Status.Failed() {
				t.Errorf("line %d: empty input must yield empty output with no failure", i)
			}
		}
	}
}
