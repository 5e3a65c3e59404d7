package transcriber

import "context"

// Options control a single transcription request.
type Options struct {
	Model       string
	Language    string
	SmartFormat bool
}

// Transcriber defines the interface for speech-to-text providers.
// Implementations must not retain the audio slice after Transcribe returns.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, opts Options) (string, error)
	Name() string
}
