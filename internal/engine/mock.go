package engine

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a scripted engine for tests: each input line maps to a canned raw
// output. Unscripted lines fail, which exercises per-line failure paths.
type Mock struct {
	Script    map[string]string
	Supported []string

	mu    sync.Mutex
	calls []string
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Phonemize(_ context.Context, line string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, line)
	m.mu.Unlock()

	out, ok := m.Script[line]
	if !ok {
		return "", fmt.Errorf("mock engine: no script for %q", line)
	}
	return out, nil
}

func (m *Mock) Languages(_ context.Context) []string { return m.Supported }

// Calls returns the lines the engine has been asked to phonemize.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
