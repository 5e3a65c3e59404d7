package completion

import (
	"context"
	"errors"
	"testing"

	"github.com/speechnotes-ai/speechnotes/internal/config"
	"github.com/speechnotes-ai/speechnotes/internal/logger"
)

func TestGeminiMissingCredentials(t *testing.T) {
	cfg := config.GeminiConfig{APIKeyEnv: "GEMINI_API_KEY_UNSET", Model: "gemini-2.5-flash"}
	g := NewGemini(cfg, logger.New("error"))

	_, err := g.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Params{})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("error = %v, want ErrMissingCredentials", err)
	}
}

func TestGeminiBuildRequest(t *testing.T) {
	g := &implGemini{cfg: config.GeminiConfig{Model: "gemini-2.5-flash"}, logger: logger.New("error")}

	messages := []Message{
		{Role: RoleSystem, Content: "You are a tutor."},
		{Role: RoleUser, Content: "What is entropy?"},
		{Role: RoleAssistant, Content: "What do you already know about it?"},
		{Role: RoleUser, Content: "Not much."},
	}

	contents, genCfg := g.buildRequest(messages, Params{Temperature: 0.5, MaxTokens: 512})

	if genCfg.SystemInstruction == nil || genCfg.SystemInstruction.Parts[0].Text != "You are a tutor." {
		t.Fatalf("system instruction not mapped: %+v", genCfg.SystemInstruction)
	}
	if genCfg.Temperature == nil || *genCfg.Temperature != 0.5 {
		t.Errorf("temperature not mapped")
	}
	if genCfg.MaxOutputTokens != 512 {
		t.Errorf("MaxOutputTokens = %d, want 512", genCfg.MaxOutputTokens)
	}

	if len(contents) != 3 {
		t.Fatalf("contents = %d turns, want 3", len(contents))
	}
	wantRoles := []string{"user", "model", "user"}
	for i, c := range contents {
		if string(c.Role) != wantRoles[i] {
			t.Errorf("turn %d role = %q, want %q", i, c.Role, wantRoles[i])
		}
	}
	if contents[1].Parts[0].Text != "What do you already know about it?" {
		t.Errorf("assistant turn content lost: %+v", contents[1])
	}
}

func TestGeminiBuildRequestNoSystem(t *testing.T) {
	g := &implGemini{cfg: config.GeminiConfig{Model: "gemini-2.5-flash"}, logger: logger.New("error")}

	contents, genCfg := g.buildRequest([]Message{{Role: RoleUser, Content: "hi"}}, Params{})
	if genCfg.SystemInstruction != nil {
		t.Error("system instruction should be nil without a system message")
	}
	if len(contents) != 1 {
		t.Errorf("contents = %d turns, want 1", len(contents))
	}
}
