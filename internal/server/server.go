package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-g2p/internal/config"
	"github.com/example/go-g2p/internal/g2p"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Phonemizer converts a batch of lines for one language. The per-line
// statuses distinguish real failures from lines that legitimately produce
// no tokens (empty or punctuation-only input).
type Phonemizer interface {
	PhonemizeBatchResults(ctx context.Context, lines []string) []g2p.Result
}

// PhonemizerFactory builds (or fetches) a Phonemizer for a language code.
// Construction-time configuration errors surface per request.
type PhonemizerFactory func(language string) (Phonemizer, error)

// LanguageLister enumerates the supported language codes.
type LanguageLister func(ctx context.Context) []string

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxLines       int
	workers        int
	requestTimeout time.Duration
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxLines:       10000,
		workers:        2,
		requestTimeout: 60 * time.Second,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxLines sets the maximum number of lines per POST /phonemize batch.
func WithMaxLines(n int) Option {
	return func(o *options) { o.maxLines = n }
}

// WithWorkers sets the maximum number of concurrent batch conversions.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request conversion deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	factory   PhonemizerFactory
	languages LanguageLister
	opts      options
	sem       chan struct{} // semaphore for worker pool
	log       *slog.Logger
}

// NewHandler returns an http.Handler serving /health, /languages, and
// POST /phonemize.
func NewHandler(factory PhonemizerFactory, languages LanguageLister, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		factory:   factory,
		languages: languages,
		opts:      opts,
		log:       opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/languages", h.handleLanguages)
	mux.HandleFunc("/phonemize", h.handlePhonemize)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs := h.languages(r.Context())
	if langs == nil {
		langs = []string{}
	}
	writeJSON(w, http.StatusOK, langs)
}

type phonemizeRequest struct {
	Language string   `json:"language"`
	Lines    []string `json:"lines"`
}

type phonemizeResponse struct {
	Lines  []string `json:"lines"`
	Failed int      `json:"failed"`
}

func (h *handler) handlePhonemize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}

	var req phonemizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Language == "" {
		writeError(w, http.StatusBadRequest, "language field is required")
		return
	}

	if len(req.Lines) > h.opts.maxLines {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("batch exceeds maximum of %d lines", h.opts.maxLines))
		return
	}

	// Acquire a worker slot — honour context cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
			// slot acquired
		case <-r.Context().Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return
		}
		defer func() { <-h.sem }()
	}

	ph, err := h.factory(req.Language)
	if err != nil {
		h.log.WarnContext(r.Context(), "phonemizer construction rejected",
			slog.String("language", req.Language),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Apply per-request timeout.
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	start := time.Now()
	results := ph.PhonemizeBatchResults(ctx, req.Lines)
	durationMS := time.Since(start).Milliseconds()

	out := make([]string, len(results))
	failed := 0
	for i, res := range results {
		out[i] = res.Tokens
		if res.Status.Failed() {
			failed++
		}
	}

	h.log.InfoContext(r.Context(), "batch phonemized",
		slog.String("language", req.Language),
		slog.Int("lines", len(req.Lines)),
		slog.Int("failed", failed),
		slog.Int64("duration_ms", durationMS),
	)

	writeJSON(w, http.StatusOK, phonemizeResponse{Lines: out, Failed: failed})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server — wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful
// shutdown. Wrappers are built once per language and reused across
// requests, so engine availability is probed at most once per language.
type Server struct {
	cfg             config.Config
	shutdownTimeout time.Duration
}

func New(cfg config.Config) *Server {
	return &Server{
		cfg:             cfg,
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	factory := newCachingFactory(s.cfg)

	languages := func(ctx context.Context) []string {
		return g2p.SupportedLanguages(ctx, s.cfg.Engine.EspeakCommand, slog.Default())
	}

	h := NewHandler(factory, languages,
		WithMaxLines(s.cfg.Server.MaxLines),
		WithWorkers(s.cfg.Engine.Jobs),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

// ProbeHTTP checks a running server's health endpoint.
func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
