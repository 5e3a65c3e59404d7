package session

import "github.com/speechnotes-ai/speechnotes/internal/completion"

// Snapshot is a read-only view of the session for presentation adapters.
// Audio bytes are omitted, and quiz questions are exposed without their
// correct answers so grading stays server-side.
type Snapshot struct {
	ID            string               `json:"id"`
	AudioName     string               `json:"audio_name,omitempty"`
	HasAudio      bool                 `json:"has_audio"`
	Transcript    string               `json:"transcript,omitempty"`
	TranscriptErr string               `json:"transcript_error,omitempty"`
	Summary       string               `json:"summary,omitempty"`
	Chat          []completion.Message `json:"chat"`
	Quiz          *QuizSnapshot        `json:"quiz,omitempty"`
	QuizErr       string               `json:"quiz_error,omitempty"`
	QuizRaw       string               `json:"quiz_raw_output,omitempty"`
	LastAction    LastAction           `json:"last_action"`
}

type QuizSnapshot struct {
	Questions    []QuestionView `json:"questions"`
	CurrentIndex int            `json:"current_index"`
	Score        int            `json:"score"`
	Completed    bool           `json:"completed"`
}

type QuestionView struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

// Snapshot returns the current session state.
func (w *Workflow) Snapshot() Snapshot {
	s := w.session

	snap := Snapshot{
		ID:            s.ID,
		AudioName:     s.AudioName,
		HasAudio:      len(s.Audio) > 0,
		Transcript:    s.Transcript,
		TranscriptErr: s.TranscriptErr,
		Summary:       s.Summary,
		Chat:          append([]completion.Message(nil), s.Chat...),
		QuizErr:       s.QuizErr,
		QuizRaw:       s.QuizRaw,
		LastAction:    s.LastAction,
	}

	if s.Quiz != nil {
		qs := &QuizSnapshot{
			Questions:    make([]QuestionView, 0, len(s.Quiz.Questions)),
			CurrentIndex: s.Quiz.CurrentIndex,
			Score:        s.Quiz.Score,
			Completed:    s.Quiz.Completed,
		}
		for _, q := range s.Quiz.Questions {
			qs.Questions = append(qs.Questions, QuestionView{
				Text:    q.Text,
				Options: append([]string(nil), q.Options...),
			})
		}
		snap.Quiz = qs
	}

	return snap
}

// Transcript returns the current transcript text (may be empty).
func (w *Workflow) Transcript() string { return w.session.Transcript }

// Summary returns the current summary text (may be empty).
func (w *Workflow) Summary() string { return w.session.Summary }
