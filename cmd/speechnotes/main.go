package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/speechnotes-ai/speechnotes/internal/api"
	"github.com/speechnotes-ai/speechnotes/internal/completion"
	"github.com/speechnotes-ai/speechnotes/internal/config"
	"github.com/speechnotes-ai/speechnotes/internal/logger"
	"github.com/speechnotes-ai/speechnotes/internal/session"
	"github.com/speechnotes-ai/speechnotes/internal/transcriber"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "SpeechNotes AI Study Service")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Transcription: deepgram (%s, %s)", cfg.Deepgram.Model, cfg.Deepgram.Language)
	log.Info(ctx, "Completion provider: %s", cfg.Completion.Provider)
	log.Info(ctx, "Configuration loaded successfully")

	// Credentials come from the environment, never from the config file.
	if cfg.Deepgram.APIKey() == "" {
		log.Warn(ctx, "%s is not set; transcription will be unavailable", cfg.Deepgram.APIKeyEnv)
	}

	// Initialize dependencies
	stt := transcriber.New(cfg.Deepgram, log)
	llm, err := completion.New(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to create completion client: %v", err)
		os.Exit(1)
	}

	wf := session.New(stt, llm, cfg, log)
	srv := api.NewServer(cfg, wf, log)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	log.Info(ctx, "Listening on %s", cfg.Server.Addr)
	log.Info(ctx, "Press Ctrl+C to stop")

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	log.Info(ctx, "SpeechNotes stopped")
}
