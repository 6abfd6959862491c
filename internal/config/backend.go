package config

import (
	"fmt"
	"strings"
)

const (
	BackendEspeak = "espeak"
	BackendGoruut = "goruut"
)

func NormalizeBackend(raw string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(raw))
	if backend == "" {
		backend = BackendEspeak
	}
	switch backend {
	case BackendEspeak, BackendGoruut:
		return backend, nil
	case "espeak-ng":
		return BackendEspeak, nil
	default:
		return "", fmt.Errorf(
			"invalid backend %q (expected %s|%s|espeak-ng)",
			raw,
			BackendEspeak,
			BackendGoruut,
		)
	}
}
