package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/speechnotes-ai/speechnotes/internal/completion"
	"github.com/speechnotes-ai/speechnotes/internal/config"
	"github.com/speechnotes-ai/speechnotes/internal/logger"
	"github.com/speechnotes-ai/speechnotes/internal/quiz"
	"github.com/speechnotes-ai/speechnotes/internal/transcriber"
)

// Workflow owns one Session and the legal transitions between workflow
// stages. It is not safe for concurrent use; callers must serialize actions.
//
// External call failures degrade into visible error text inside the relevant
// session field and return nil: the workflow stays usable after any single
// failure and retry is always a deliberate user action. Only precondition
// violations and internal faults are returned as errors.
type Workflow struct {
	transcriber transcriber.Transcriber
	completer   completion.Client
	cfg         *config.Config
	logger      logger.Logger
	session     *Session
}

// New creates a Workflow with a fresh, empty session.
func New(t transcriber.Transcriber, c completion.Client, cfg *config.Config, log logger.Logger) *Workflow {
	return &Workflow{
		transcriber: t,
		completer:   c,
		cfg:         cfg,
		logger:      log,
		session:     newSession(),
	}
}

var supportedAudioExts = map[string]bool{
	".mp3": true,
	".wav": true,
	".ogg": true,
}

// Upload replaces the session with a fresh one holding the new audio.
// Transcript, summary, chat and quiz from the previous upload are gone
// before any transcription starts; stale derivative state must not outlive
// its source audio.
func (w *Workflow) Upload(name string, audio []byte) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !supportedAudioExts[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedAudio, ext)
	}
	if len(audio) == 0 {
		return ErrNoAudio
	}

	s := newSession()
	s.AudioName = name
	s.Audio = make([]byte, len(audio))
	copy(s.Audio, audio)
	w.session = s

	w.logger.Info(context.Background(), "New session %s: uploaded %s (%d bytes)", s.ID, name, len(audio))
	return nil
}

// Transcribe runs the uploaded audio through the transcription provider.
// On success the transcript is set and all derivative state (summary, chat,
// quiz) is cleared. On provider failure the error is stored as a displayable
// message and any prior transcript is left untouched.
func (w *Workflow) Transcribe(ctx context.Context) error {
	s := w.session
	if len(s.Audio) == 0 {
		return ErrNoAudio
	}

	opts := transcriber.Options{
		Model:       w.cfg.Deepgram.Model,
		Language:    w.cfg.Deepgram.Language,
		SmartFormat: w.cfg.Deepgram.SmartFormat,
	}

	text, err := w.transcriber.Transcribe(ctx, s.Audio, opts)
	if err != nil {
		if errors.Is(err, transcriber.ErrMissingCredentials) {
			return err
		}
		w.logger.Warn(ctx, "Transcription failed for session %s: %v", s.ID, err)
		s.TranscriptErr = fmt.Sprintf("Error during transcription: %v", err)
		return nil
	}

	s.Transcript = text
	s.TranscriptErr = ""
	s.Summary = ""
	s.Chat = nil
	s.Quiz = nil
	s.QuizErr = ""
	s.QuizRaw = ""
	// The audio is only owned for the upload -> transcription cycle.
	s.Audio = nil
	s.LastAction = LastActionTranscribed

	w.logger.Info(ctx, "Transcribed session %s: %d characters", s.ID, len(text))
	return nil
}

// Summarize generates (or regenerates) the bullet-point summary. A provider
// failure becomes the displayed summary text rather than a hard failure.
func (w *Workflow) Summarize(ctx context.Context) error {
	s := w.session
	if s.Transcript == "" {
		return ErrNoTranscript
	}

	messages := []completion.Message{
		{Role: completion.RoleSystem, Content: summarySystemPrompt},
		{Role: completion.RoleUser, Content: fmt.Sprintf(summaryPrompt, s.Transcript)},
	}

	out, err := w.completer.Complete(ctx, messages, completion.Params{})
	if err != nil {
		if errors.Is(err, completion.ErrMissingCredentials) {
			return err
		}
		w.logger.Warn(ctx, "Summary failed for session %s: %v", s.ID, err)
		s.Summary = fmt.Sprintf("Error generating summary: %v", err)
	} else {
		s.Summary = strings.TrimSpace(out)
	}

	s.LastAction = LastActionSummarized
	return nil
}

// AskTutor appends the user's question to the chat and asks the tutor
// persona for a reply. The full chat history is replayed in append order on
// every call; the tutor has no memory beyond what is in the history. An
// error reply is appended as a normal assistant turn.
func (w *Workflow) AskTutor(ctx context.Context, question string) error {
	s := w.session
	if s.Transcript == "" {
		return ErrNoTranscript
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyQuestion
	}

	s.Chat = append(s.Chat, completion.Message{Role: completion.RoleUser, Content: question})

	messages := make([]completion.Message, 0, len(s.Chat)+1)
	messages = append(messages, completion.Message{
		Role:    completion.RoleSystem,
		Content: fmt.Sprintf(tutorSystemPrompt, s.Transcript),
	})
	messages = append(messages, s.Chat...)

	reply, err := w.completer.Complete(ctx, messages, completion.Params{})
	if err != nil {
		w.logger.Warn(ctx, "Tutor reply failed for session %s: %v", s.ID, err)
		reply = fmt.Sprintf("Sorry, I couldn't answer that: %v", err)
	}

	s.Chat = append(s.Chat, completion.Message{Role: completion.RoleAssistant, Content: strings.TrimSpace(reply)})
	return nil
}

// ClearChat empties the tutor chat history. Always legal.
func (w *Workflow) ClearChat() {
	w.session.Chat = nil
}

// GenerateQuiz asks the completion provider for quiz questions and runs the
// extractor over the result. On extraction failure the parse error and the
// raw model output are stored for diagnosis and the quiz stays unset so the
// user can retry.
func (w *Workflow) GenerateQuiz(ctx context.Context) error {
	s := w.session
	if s.Transcript == "" {
		return ErrNoTranscript
	}
	if s.Quiz.InProgress() {
		return ErrQuizInProgress
	}

	messages := []completion.Message{
		{Role: completion.RoleSystem, Content: "You write rigorous multiple-choice quizzes and respond only with JSON."},
		{Role: completion.RoleUser, Content: fmt.Sprintf(quizPrompt, w.cfg.Quiz.QuestionCount, s.Transcript)},
	}

	out, err := w.completer.Complete(ctx, messages, completion.Params{})
	if err != nil {
		if errors.Is(err, completion.ErrMissingCredentials) {
			return err
		}
		w.logger.Warn(ctx, "Quiz generation failed for session %s: %v", s.ID, err)
		s.QuizErr = fmt.Sprintf("Error generating quiz: %v", err)
		s.QuizRaw = ""
		return nil
	}

	questions, err := quiz.Extract(out)
	if err != nil {
		w.logger.Warn(ctx, "Quiz extraction failed for session %s: %v", s.ID, err)
		s.QuizErr = err.Error()
		s.QuizRaw = out
		return nil
	}

	s.Quiz = &QuizState{Questions: questions}
	s.QuizErr = ""
	s.QuizRaw = ""

	w.logger.Info(ctx, "Generated quiz for session %s: %d questions", s.ID, len(questions))
	return nil
}

// Answer grades the current question against the selected option index,
// increments the score on a match and advances. Returns whether the answer
// was correct.
func (w *Workflow) Answer(selected int) (bool, error) {
	st, err := w.activeQuiz()
	if err != nil {
		return false, err
	}

	correct := selected == st.Questions[st.CurrentIndex].CorrectAnswer
	if correct {
		st.Score++
	}
	w.advance(st)
	return correct, nil
}

// Skip advances past the current question without touching the score.
func (w *Workflow) Skip() error {
	st, err := w.activeQuiz()
	if err != nil {
		return err
	}
	w.advance(st)
	return nil
}

// EndQuiz marks an in-progress quiz as completed without advancing.
func (w *Workflow) EndQuiz() error {
	st := w.session.Quiz
	if !st.InProgress() {
		return ErrQuizNotActive
	}
	st.Completed = true
	return nil
}

// RestartQuiz clears a completed quiz entirely. Questions are not cached;
// the user must generate a new quiz.
func (w *Workflow) RestartQuiz() error {
	st := w.session.Quiz
	if st == nil || !st.Completed {
		return ErrQuizNotCompleted
	}
	w.session.Quiz = nil
	return nil
}

func (w *Workflow) activeQuiz() (*QuizState, error) {
	st := w.session.Quiz
	if !st.InProgress() {
		return nil, ErrQuizNotActive
	}
	if st.CurrentIndex < 0 || st.CurrentIndex >= len(st.Questions) {
		return nil, fmt.Errorf("%w: quiz index %d out of range [0,%d)", ErrInternal, st.CurrentIndex, len(st.Questions))
	}
	return st, nil
}

func (w *Workflow) advance(st *QuizState) {
	st.CurrentIndex++
	if st.CurrentIndex >= len(st.Questions) {
		st.Completed = true
	}
}
