package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/speechnotes-ai/speechnotes/internal/export"
	"github.com/speechnotes-ai/speechnotes/internal/session"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	s.mu.Lock()
	snap := s.workflow.Snapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	maxBytes := int64(s.cfg.Server.MaxUploadSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse upload: %v", err))
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, `multipart field "audio" is required`)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read upload: %v", err))
		return
	}

	s.transition(w, func() error {
		return s.workflow.Upload(header.Filename, audio)
	})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.transition(w, func() error {
		return s.workflow.Transcribe(r.Context())
	})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.transition(w, func() error {
		return s.workflow.Summarize(r.Context())
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	s.transition(w, func() error {
		return s.workflow.AskTutor(r.Context(), req.Question)
	})
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.transition(w, func() error {
		s.workflow.ClearChat()
		return nil
	})
}

func (s *Server) handleQuizGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.transition(w, func() error {
		return s.workflow.GenerateQuiz(r.Context())
	})
}

func (s *Server) handleQuizAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req struct {
		Selected int `json:"selected"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	correct, err := s.workflow.Answer(req.Selected)
	snap := s.workflow.Snapshot()
	s.mu.Unlock()

	if err != nil {
		writeTransitionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"correct": correct,
		"session": snap,
	})
}

func (s *Server) handleQuizSkip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.transition(w, s.workflow.Skip)
}

func (s *Server) handleQuizEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.transition(w, s.workflow.EndQuiz)
}

func (s *Server) handleQuizRestart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	s.transition(w, s.workflow.RestartQuiz)
}

func (s *Server) handleDownloadTranscript(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	content := s.workflow.Transcript()
	s.mu.Unlock()
	s.serveDownload(w, r, "transcript", content)
}

func (s *Server) handleDownloadSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	content := s.workflow.Summary()
	s.mu.Unlock()
	s.serveDownload(w, r, "summary", content)
}

func (s *Server) serveDownload(w http.ResponseWriter, r *http.Request, name, content string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	if content == "" {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no %s available yet", name))
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "txt":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.txt", name))
		w.Write(export.Text(content))
	case "docx":
		s.serveDocx(w, r, name, content)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}
}

// serveDocx renders to a temp file and streams it back; the file is removed
// immediately after the response, mirroring how uploaded audio is handled.
func (s *Server) serveDocx(w http.ResponseWriter, r *http.Request, name, content string) {
	dir, err := os.MkdirTemp("", "speechnotes-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create temp dir")
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, name+".docx")
	if err := export.WriteDocx(titleFor(name), content, path); err != nil {
		s.logger.Error(r.Context(), "Docx export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "docx export failed")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "read docx output")
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.docx", name))
	w.Write(data)
}

func titleFor(name string) string {
	if name == "summary" {
		return "Bullet Point Summary"
	}
	return "Transcription"
}

// transition runs one serialized workflow transition and responds with the
// resulting snapshot, mapping precondition errors to 409 and internal faults
// to 500.
func (s *Server) transition(w http.ResponseWriter, fn func() error) {
	s.mu.Lock()
	err := fn()
	snap := s.workflow.Snapshot()
	s.mu.Unlock()

	if err != nil {
		writeTransitionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeTransitionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrInternal) {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeError(w, http.StatusConflict, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return false
	}
	return true
}
