package transcriber

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials means no API key is set; detected before any call.
	ErrMissingCredentials = errors.New("transcriber: API key is not set")

	// ErrInvalidCredentials means the provider rejected the API key.
	ErrInvalidCredentials = errors.New("transcriber: API key was rejected")

	// ErrInvalidAudio means the audio payload is empty or not decodable.
	ErrInvalidAudio = errors.New("transcriber: invalid audio")

	// ErrUnreachable means the provider could not be reached or timed out.
	ErrUnreachable = errors.New("transcriber: provider unreachable")
)

// ProviderError is a non-transport failure reported by the provider itself.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("transcriber: provider error (HTTP %d): %s", e.Status, e.Message)
}
