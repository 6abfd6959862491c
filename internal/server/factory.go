package server

import (
	"log/slog"
	"sync"

	"github.com/example/go-g2p/internal/config"
	"github.com/example/go-g2p/internal/g2p"
)

// cachingFactory builds one wrapper per language and reuses it, so engine
// availability and language support are probed once, not per request.
type cachingFactory struct {
	cfg config.Config

	mu       sync.Mutex
	wrappers map[string]Phonemizer
}

func newCachingFactory(cfg config.Config) PhonemizerFactory {
	f := &cachingFactory{
		cfg:      cfg,
		wrappers: make(map[string]Phonemizer),
	}
	return f.get
}

func (f *cachingFactory) get(language string) (Phonemizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if w, ok := f.wrappers[language]; ok {
		return w, nil
	}

	w, err := g2p.New(language, g2p.ConfigFrom(f.cfg, slog.Default()))
	if err != nil {
		return nil, err
	}

	f.wrappers[language] = w
	return w, nil
}
