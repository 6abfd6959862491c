// Package separator defines the token markers shared by all phonemization
// backends: the reserved word-boundary token of the output vocabulary and
// the internal phone marker used between a backend and the post-processor.
package separator

const (
	// WordBoundary is the reserved output token delimiting word-level
	// segments in the normalized phoneme stream.
	WordBoundary = "WORD_BOUNDARY"

	// PhoneMarker separates phones in raw engine output. It never survives
	// into normalized output.
	PhoneMarker = "PHONE_BOUNDARY"
)

// Stress markers as emitted by espeak-ng.
const (
	PrimaryStress    = "ˈ"
	SecondaryStress  = "ˌ"
	ApostropheStress = "'"
)

// Separator describes the engine-level separator conventions for one batch.
type Separator struct {
	Phone    string
	Word     string
	Syllable string
}

// Default returns the conventions of the general engine path: phones joined
// by PhoneMarker, words by a plain space (reinterpreted as WordBoundary by
// the post-processor), no syllable marker.
func Default() Separator {
	return Separator{Phone: PhoneMarker, Word: " ", Syllable: ""}
}
