// Package api is the HTTP presentation adapter. It routes user actions into
// workflow transitions and renders session snapshots back as JSON. One
// process serves one interactive session; a mutex serializes transitions
// because the workflow itself is not designed for interleaved actions.
package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/speechnotes-ai/speechnotes/internal/config"
	"github.com/speechnotes-ai/speechnotes/internal/logger"
	"github.com/speechnotes-ai/speechnotes/internal/session"
)

type Server struct {
	workflow *session.Workflow
	cfg      *config.Config
	logger   logger.Logger
	server   *http.Server

	mu sync.Mutex // serializes workflow transitions
}

// NewServer creates the HTTP server wired to the given workflow.
func NewServer(cfg *config.Config, wf *session.Workflow, log logger.Logger) *Server {
	s := &Server{
		workflow: wf,
		cfg:      cfg,
		logger:   log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/session", s.handleSession)
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/transcribe", s.handleTranscribe)
	mux.HandleFunc("/summarize", s.handleSummarize)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/chat/clear", s.handleChatClear)
	mux.HandleFunc("/quiz/generate", s.handleQuizGenerate)
	mux.HandleFunc("/quiz/answer", s.handleQuizAnswer)
	mux.HandleFunc("/quiz/skip", s.handleQuizSkip)
	mux.HandleFunc("/quiz/end", s.handleQuizEnd)
	mux.HandleFunc("/quiz/restart", s.handleQuizRestart)
	mux.HandleFunc("/download/transcript", s.handleDownloadTranscript)
	mux.HandleFunc("/download/summary", s.handleDownloadSummary)

	s.server = &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}
	return s
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves HTTP requests until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.server.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}
