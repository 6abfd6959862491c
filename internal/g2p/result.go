package g2p

// Status classifies the outcome of converting one line.
type Status int

const (
	// StatusOK means the line produced a normalized token stream (possibly
	// empty, for empty or whitespace-only input).
	StatusOK Status = iota

	// StatusFailedConversion means the engine could not transcribe the line.
	StatusFailedConversion

	// StatusFailedBoundaryMismatch means the engine emitted a word count
	// that disagrees with the input under the strict boundary policy, so
	// the line was dropped rather than silently misaligned.
	StatusFailedBoundaryMismatch
)

// Failed reports whether the status represents a dropped line.
func (s Status) Failed() bool { return s != StatusOK }

// Result is the outcome for a single input line. Failed lines carry empty
// Tokens so batches keep their 1:1 alignment with the input.
type Result struct {
	Tokens string
	Status Status
}
