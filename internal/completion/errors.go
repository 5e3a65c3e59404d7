package completion

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials means no API key is set; detected before any call.
	ErrMissingCredentials = errors.New("completion: API key is not set")

	// ErrUnreachable means the provider could not be reached or timed out.
	ErrUnreachable = errors.New("completion: provider unreachable")
)

// ProviderError is a failure reported by the provider itself.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("completion: provider error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("completion: provider error: %s", e.Message)
}
