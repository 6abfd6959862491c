package main

import (
	"context"
	"strings"
	"testing"
)

func TestCheckPinyinTable(t *testing.T) {
	if err := checkPinyinTable(); err != nil {
		t.Fatalf("checkPinyinTable: %v", err)
	}
}

func TestProbeEspeakVersion_MissingBinary(t *testing.T) {
	_, err := probeEspeakVersion(context.Background(), "definitely-not-espeak-ng")
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "--version failed") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestProbeEspeakVersion_EmptyCommand(t *testing.T) {
	_, err := probeEspeakVersion(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestCollectEspeakLanguages_MissingBinary(t *testing.T) {
	probe := collectEspeakLanguages(context.Background(), "en-us", "definitely-not-espeak-ng")
	if got := probe(); len(got) != 0 {
		t.Errorf("expected empty inventory for missing binary, got %v", got)
	}
}
