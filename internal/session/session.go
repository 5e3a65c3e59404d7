package session

import (
	"github.com/google/uuid"

	"github.com/speechnotes-ai/speechnotes/internal/completion"
	"github.com/speechnotes-ai/speechnotes/internal/quiz"
)

// LastAction records which view a presentation adapter should foreground.
// Cosmetic only; nothing else depends on it.
type LastAction string

const (
	LastActionNone        LastAction = "none"
	LastActionTranscribed LastAction = "transcribed"
	LastActionSummarized  LastAction = "summarized"
)

// Session holds all state for one user's interaction lifetime. A new audio
// upload replaces the Session wholesale; nothing survives a restart.
type Session struct {
	ID        string
	AudioName string
	Audio     []byte

	Transcript    string
	TranscriptErr string

	Summary string

	Chat []completion.Message

	Quiz    *QuizState
	QuizErr string
	QuizRaw string // raw model output kept when extraction failed

	LastAction LastAction
}

// QuizState tracks progress through a generated quiz. Questions are fixed
// once generated; index is identity.
type QuizState struct {
	Questions    []quiz.Question
	CurrentIndex int
	Score        int
	Completed    bool
}

// InProgress reports whether the quiz has been generated but not finished.
func (q *QuizState) InProgress() bool {
	return q != nil && !q.Completed
}

func newSession() *Session {
	return &Session{
		ID:         uuid.NewString(),
		LastAction: LastActionNone,
	}
}
