// Package doctor provides environment preflight checks for the g2p CLI.
package doctor

import (
	"fmt"
	"io"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// VersionFunc returns a version string or an error if the component is
// unavailable.
type VersionFunc func() (string, error)

// LanguagesFunc returns the language codes the general engine reports.
type LanguagesFunc func() []string

// TableCheckFunc exercises the pinyin table with a known syllable.
type TableCheckFunc func() error

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// EspeakVersion returns the output of `espeak-ng --version`.
	EspeakVersion VersionFunc
	// EspeakCommand is the configured espeak invocation, for display.
	EspeakCommand string
	// Languages enumerates the espeak voice inventory.
	Languages LanguagesFunc
	// PinyinTable verifies the mandarin syllable table is intact.
	PinyinTable TableCheckFunc
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- espeak-ng binary -------------------------------------------------
	if cfg.EspeakVersion != nil {
		ver, err := cfg.EspeakVersion()
		if err != nil {
			res.fail(fmt.Sprintf(
				"espeak-ng binary: %v (install espeak-ng or set G2P_ESPEAK_PATH to the espeak-ng binary)", err))
			fmt.Fprintf(w, "%s espeak-ng binary (%s): not found (%v)\n", FailMark, cfg.EspeakCommand, err)
		} else {
			fmt.Fprintf(w, "%s espeak-ng binary (%s): %s\n", PassMark, cfg.EspeakCommand, ver)
		}
	}

	// ---- voice inventory --------------------------------------------------
	if cfg.Languages != nil {
		langs := cfg.Languages()
		if len(langs) == 0 {
			res.fail("voice inventory: `espeak-ng --voices` returned no languages")
			fmt.Fprintf(w, "%s voice inventory: empty\n", FailMark)
		} else {
			fmt.Fprintf(w, "%s voice inventory: %d languages\n", PassMark, len(langs))
		}
	}

	// ---- mandarin table ---------------------------------------------------
	if cfg.PinyinTable != nil {
		if err := cfg.PinyinTable(); err != nil {
			res.fail(fmt.Sprintf("pinyin table: %v", err))
			fmt.Fprintf(w, "%s pinyin table: %v\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s pinyin table: ok\n", PassMark)
		}
	}

	return res
}
