package session

import "errors"

// Precondition errors. These are blocking warnings for the presentation
// adapter to show; no external call has been made when one is returned.
var (
	ErrUnsupportedAudio = errors.New("session: unsupported audio format, use mp3, wav or ogg")
	ErrNoAudio          = errors.New("session: no audio uploaded")
	ErrNoTranscript     = errors.New("session: transcribe the audio first")
	ErrEmptyQuestion    = errors.New("session: question is empty")
	ErrQuizInProgress   = errors.New("session: a quiz is already in progress")
	ErrQuizNotActive    = errors.New("session: no quiz in progress")
	ErrQuizNotCompleted = errors.New("session: quiz is not completed yet")
)

// ErrInternal marks invariant violations. An action returning it has been
// aborted without touching session state.
var ErrInternal = errors.New("session: internal error")
