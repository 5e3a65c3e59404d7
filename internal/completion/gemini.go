package completion

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/speechnotes-ai/speechnotes/internal/config"
	"github.com/speechnotes-ai/speechnotes/internal/logger"
)

type implGemini struct {
	cfg    config.GeminiConfig
	logger logger.Logger
}

// NewGemini creates a Client backed by the Gemini API.
func NewGemini(cfg config.GeminiConfig, log logger.Logger) Client {
	return &implGemini{cfg: cfg, logger: log}
}

func (g *implGemini) Name() string { return "gemini" }

func (g *implGemini) Complete(ctx context.Context, messages []Message, p Params) (string, error) {
	apiKey := g.cfg.APIKey()
	if apiKey == "" {
		return "", ErrMissingCredentials
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	contents, genCfg := g.buildRequest(messages, p)

	model := g.cfg.Model
	if p.Model != "" {
		model = p.Model
	}

	g.logger.Debug(ctx, "Requesting completion (model=%s, messages=%d)", model, len(messages))

	result, err := client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		return "", &ProviderError{Message: err.Error()}
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", &ProviderError{Message: "empty response from Gemini"}
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}

// buildRequest maps role-tagged messages onto Gemini content turns. The
// leading system message, if any, becomes the system instruction; assistant
// turns map to the "model" role.
func (g *implGemini) buildRequest(messages []Message, p Params) ([]*genai.Content, *genai.GenerateContentConfig) {
	genCfg := &genai.GenerateContentConfig{}
	if p.Temperature > 0 {
		temp := float32(p.Temperature)
		genCfg.Temperature = &temp
	}
	if p.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(p.MaxTokens)
	}

	var contents []*genai.Content
	for i, m := range messages {
		if i == 0 && m.Role == RoleSystem {
			genCfg.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}
			continue
		}

		role := genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	return contents, genCfg
}
