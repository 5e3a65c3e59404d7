package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/speechnotes-ai/speechnotes/internal/config"
	"github.com/speechnotes-ai/speechnotes/internal/logger"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

type implGroq struct {
	cfg     config.GroqConfig
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

// NewGroq creates a Client backed by Groq's OpenAI-compatible chat API.
func NewGroq(cfg config.GroqConfig, log logger.Logger) Client {
	return &implGroq{
		cfg:     cfg,
		baseURL: groqBaseURL,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:  log,
	}
}

func (g *implGroq) Name() string { return "groq" }

type groqRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *implGroq) Complete(ctx context.Context, messages []Message, p Params) (string, error) {
	apiKey := g.cfg.APIKey()
	if apiKey == "" {
		return "", ErrMissingCredentials
	}

	reqBody := groqRequest{
		Model:       g.cfg.Model,
		Messages:    messages,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	}
	if p.Model != "" {
		reqBody.Model = p.Model
	}
	if p.Temperature > 0 {
		reqBody.Temperature = p.Temperature
	}
	if p.MaxTokens > 0 {
		reqBody.MaxTokens = p.MaxTokens
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	g.logger.Debug(ctx, "Requesting completion (model=%s, messages=%d)", reqBody.Model, len(messages))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var gr groqResponse
	if jsonErr := json.Unmarshal(body, &gr); jsonErr != nil && resp.StatusCode < 300 {
		return "", &ProviderError{Status: resp.StatusCode, Message: fmt.Sprintf("undecodable response: %v", jsonErr)}
	}

	if resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if gr.Error != nil && gr.Error.Message != "" {
			msg = gr.Error.Message
		}
		return "", &ProviderError{Status: resp.StatusCode, Message: msg}
	}

	if len(gr.Choices) == 0 {
		return "", &ProviderError{Status: resp.StatusCode, Message: "response contains no choices"}
	}

	return gr.Choices[0].Message.Content, nil
}
