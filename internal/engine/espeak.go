package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/example/go-g2p/internal/separator"
	"github.com/mattn/go-shellwords"
)

// DefaultEspeakCommand is used when no explicit espeak command is configured.
const DefaultEspeakCommand = "espeak-ng"

// Espeak shells out to the espeak-ng binary, one invocation per line.
// The --ipa=3 flag makes espeak-ng join phones with underscores, which are
// rewritten to the configured phone marker; words stay space-separated.
type Espeak struct {
	argv       []string
	language   string
	sep        separator.Separator
	withStress bool
	log        *slog.Logger
}

// NewEspeak parses command into argv and verifies the binary is resolvable.
// An unresolvable binary is a construction-time error so callers can reject
// the configuration before any line is processed.
func NewEspeak(command, language string, sep separator.Separator, withStress bool, log *slog.Logger) (*Espeak, error) {
	if command == "" {
		command = DefaultEspeakCommand
	}
	if log == nil {
		log = slog.Default()
	}

	argv, err := shellwords.NewParser().Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse espeak command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("espeak command %q is empty", command)
	}

	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("locate espeak binary %q: %w", argv[0], err)
	}

	return &Espeak{
		argv:       argv,
		language:   language,
		sep:        sep,
		withStress: withStress,
		log:        log,
	}, nil
}

func (e *Espeak) Name() string { return "espeak" }

// Phonemize transcribes one line. Stderr chatter from espeak-ng is logged at
// warn level through the engine logger, which batch callers gate.
func (e *Espeak) Phonemize(ctx context.Context, line string) (string, error) {
	args := append([]string{}, e.argv[1:]...)
	args = append(args, "-q", "--ipa=3", "-v", e.language, "--", line)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.argv[0], args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stderr.Len() > 0 {
		e.log.Warn("espeak diagnostics",
			slog.String("voice", e.language),
			slog.String("stderr", strings.TrimSpace(stderr.String())),
		)
	}
	if err != nil {
		return "", fmt.Errorf("espeak voice %s: %w", e.language, err)
	}

	raw := strings.TrimSpace(stdout.String())
	raw = strings.ReplaceAll(raw, "\n", " ")
	raw = strings.ReplaceAll(raw, "_", e.sep.Phone)
	if !e.withStress {
		raw = StripStress(raw)
	}

	return raw, nil
}

// Languages runs `espeak-ng --voices` and returns the language column.
// A probe failure is recovered as an empty list so callers can degrade
// instead of crashing.
func (e *Espeak) Languages(ctx context.Context) []string {
	out, err := exec.CommandContext(ctx, e.argv[0], "--voices").Output()
	if err != nil {
		e.log.Error("espeak-ng is not invokable; install espeak-ng or point G2P_ESPEAK_PATH at the binary",
			slog.String("command", e.argv[0]),
			slog.String("error", err.Error()),
		)
		return nil
	}

	return parseVoices(string(out))
}

// parseVoices extracts the language column from `espeak-ng --voices` output.
// The first line is a header and is skipped.
func parseVoices(out string) []string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) <= 1 {
		return nil
	}

	langs := make([]string, 0, len(lines)-1)
	for _, l := range lines[1:] {
		fields := strings.Fields(l)
		if len(fields) < 2 {
			continue
		}
		langs = append(langs, fields[1])
	}

	return langs
}

// StripStress removes espeak stress markers from a raw phoneme string.
func StripStress(s string) string {
	for _, m := range []string{
		separator.PrimaryStress,
		separator.SecondaryStress,
		separator.ApostropheStress,
	} {
		s = strings.ReplaceAll(s, m, "")
	}
	return s
}
