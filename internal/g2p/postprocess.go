package g2p

import (
	"strings"

	"github.com/example/go-g2p/internal/separator"
)

// Normalize converts one raw engine line into the externally visible
// space-separated token stream. The step order is load-bearing: inter-word
// spaces must become boundary tokens before phone markers become spaces,
// or the two separators are indistinguishable afterwards.
//
// Normalize is idempotent: a line that already carries no phone markers and
// ends with the utterance-final boundary passes through with only the
// whitespace cleanup applied.
func Normalize(raw string, keepBoundaries bool) string {
	// Engine output can carry repeated spaces: multi-clause lines are joined
	// with a space and espeak clause lines start with one. Collapse them
	// before the boundary rewrite or every extra space becomes a spurious
	// adjacent boundary token.
	line := strings.Join(strings.Fields(raw), " ")

	if keepBoundaries && !alreadyNormalized(line) {
		line = strings.ReplaceAll(line, " ", " "+separator.WordBoundary+" ")
	}

	line = strings.ReplaceAll(line, separator.PhoneMarker, " ")

	// Shared cleanup for all backends: collapse separator runs, trim.
	line = strings.Join(strings.Fields(line), " ")

	if keepBoundaries && line != "" && !strings.HasSuffix(line, separator.WordBoundary) {
		line += " " + separator.WordBoundary
	}

	return line
}

// alreadyNormalized reports whether line is the output of a previous
// boundary-keeping Normalize call: no internal phone markers remain and the
// utterance-final boundary is present. Raw engine lines never satisfy this,
// because engines emit no boundary tokens.
func alreadyNormalized(line string) bool {
	t := strings.TrimSpace(line)
	return t != "" &&
		!strings.Contains(t, separator.PhoneMarker) &&
		strings.HasSuffix(t, separator.WordBoundary)
}
