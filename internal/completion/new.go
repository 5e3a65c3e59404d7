package completion

import (
	"fmt"

	"github.com/speechnotes-ai/speechnotes/internal/config"
	"github.com/speechnotes-ai/speechnotes/internal/logger"
)

// New selects the completion provider named by the config.
func New(cfg *config.Config, log logger.Logger) (Client, error) {
	switch cfg.Completion.Provider {
	case "groq":
		return NewGroq(cfg.Groq, log), nil
	case "gemini":
		return NewGemini(cfg.Gemini, log), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Completion.Provider)
	}
}
