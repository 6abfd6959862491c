package g2p

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/go-g2p/internal/engine"
	"github.com/example/go-g2p/internal/separator"
)

func TestGeneralAdapterBoundariesKept(t *testing.T) {
	mock := &engine.Mock{Script: map[string]string{
		"hi there": "hPHONE_BOUNDARYaɪ ðPHONE_BOUNDARYɛPHONE_BOUNDARYr",
	}}
	ad := newGeneralAdapter(mock, DefaultConfig(), slog.Default())

	out := ad.phonemize(context.Background(), []string{"hi there"})
	want := "h aɪ WORD_BOUNDARY ð ɛ r WORD_BOUNDARY"
	if out[0].Tokens != want {
		t.Errorf("tokens = %q, want %q", out[0].Tokens, want)
	}
	if !strings.HasSuffix(out[0].Tokens, separator.WordBoundary) {
		t.Error("kept-boundary output must end with WORD_BOUNDARY")
	}
}

func TestGeneralAdapterBoundariesDropped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeepWordBoundaries = false

	mock := &engine.Mock{Script: map[string]string{
		"hi there": "hPHONE_BOUNDARYaɪ ðPHONE_BOUNDARYɛPHONE_BOUNDARYr",
	}}
	ad := newGeneralAdapter(mock, cfg, slog.Default())

	out := ad.phonemize(context.Background(), []string{"hi there"})
	if want := "h aɪ ð ɛ r"; out[0].Tokens != want {
		t.Errorf("tokens = %q, want %q", out[0].Tokens, want)
	}
}

func TestGeneralAdapterBoundaryMismatch(t *testing.T) {
	// The engine merges two input words into one output group.
	script := map[string]string{
		"of course": "əPHONE_BOUNDARYvPHONE_BOUNDARYkPHONE_BOUNDARYɔːPHONE_BOUNDARYs",
	}

	tests := []struct {
		name        string
		allowFaulty bool
		keep        bool
		wantStatus  Status
	}{
		{name: "strict policy drops the line", allowFaulty: false, keep: true, wantStatus: StatusFailedBoundaryMismatch},
		{name: "faulty boundaries allowed", allowFaulty: true, keep: true, wantStatus: StatusOK},
		{name: "boundaries not kept tolerates mismatch", allowFaulty: false, keep: false, wantStatus: StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.AllowPossiblyFaultyWordBoundaries = tt.allowFaulty
			cfg.KeepWordBoundaries = tt.keep
			ad := newGeneralAdapter(&engine.Mock{Script: script}, cfg, slog.Default())

			out := ad.phonemize(context.Background(), []string{"of course"})
			if out[0].Status != tt.wantStatus {
				t.Errorf("status = %v, want %v", out[0].Status, tt.wantStatus)
			}
			if tt.wantStatus.Failed() && out[0].Tokens != "" {
				t.Errorf("dropped line carries tokens %q", out[0].Tokens)
			}
		})
	}
}

func TestGeneralAdapterPerLineFailure(t *testing.T) {
	mock := &engine.Mock{Script: map[string]string{
		"good": "ɡPHONE_BOUNDARYʊPHONE_BOUNDARYd",
		// "bad" has no script entry, so the engine fails that line.
	}}
	ad := newGeneralAdapter(mock, DefaultConfig(), slog.Default())

	out := ad.phonemize(context.Background(), []string{"good", "bad", "good"})
	if len(out) != 3 {
		t.Fatalf("got %d results, want 3", len(out))
	}
	if out[1].Status != StatusFailedConversion || out[1].Tokens != "" {
		t.Errorf("failed line: %+v, want empty FailedConversion", out[1])
	}
	if out[0].Status.Failed() || out[2].Status.Failed() {
		t.Error("a failed line must not affect its neighbours")
	}
}

func TestGeneralAdapterEmptyLines(t *testing.T) {
	mock := &engine.Mock{Script: map[string]string{}}
	ad := newGeneralAdapter(mock, DefaultConfig(), slog.Default())

	out := ad.phonemize(context.Background(), []string{"", "   "})
	for i, r := range out {
		if r.Status.Failed() || r.Tokens != "" {
			t.Errorf("line %d: %+v, want empty OK", i, r)
		}
	}
	if calls := mock.Calls(); len(calls) != 0 {
		t.Errorf("engine was called for empty lines: %v", calls)
	}
}

func TestGeneralAdapterPunctuation(t *testing.T) {
	mock := &engine.Mock{Script: map[string]string{
		"hello": "hPHONE_BOUNDARYəPHONE_BOUNDARYlPHONE_BOUNDARYoʊ",
	}}
	cfg := DefaultConfig()
	ad := newGeneralAdapter(mock, cfg, slog.Default())

	// Punctuation is stripped before the engine sees the line.
	out := ad.phonemize(context.Background(), []string{"hello!"})
	if out[0].Status.Failed() {
		t.Fatalf("line failed: %+v", out[0])
	}
	calls := mock.Calls()
	if len(calls) != 1 || calls[0] != "hello" {
		t.Errorf("engine saw %v, want [hello]", calls)
	}

	// A punctuation-only line never reaches the engine and records no failure.
	out = ad.phonemize(context.Background(), []string{"?!..."})
	if out[0].Status.Failed() || out[0].Tokens != "" {
		t.Errorf("punctuation-only line: %+v, want empty OK", out[0])
	}
}

func TestGeneralAdapterOrderingUnderFanout(t *testing.T) {
	script := make(map[string]string, 64)
	lines := make([]string, 0, 64)
	for i := 0; i < 64; i++ {
		line := fmt.Sprintf("word%d", i)
		lines = append(lines, line)
		script[line] = fmt.Sprintf("wPHONE_BOUNDARY%d", i)
	}

	cfg := DefaultConfig()
	cfg.KeepWordBoundaries = false
	cfg.Jobs = 8
	ad := newGeneralAdapter(&engine.Mock{Script: script}, cfg, slog.Default())

	out := ad.phonemize(context.Background(), lines)
	if len(out) != len(lines) {
		t.Fatalf("got %d results for %d lines", len(out), len(lines))
	}
	for i, r := range out {
		want := fmt.Sprintf("w %d", i)
		if r.Tokens != want {
			t.Fatalf("line %d out of order: got %q, want %q", i, r.Tokens, want)
		}
	}
}
