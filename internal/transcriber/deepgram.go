package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/speechnotes-ai/speechnotes/internal/config"
	"github.com/speechnotes-ai/speechnotes/internal/logger"
)

const deepgramBaseURL = "https://api.deepgram.com"

type implDeepgram struct {
	cfg     config.DeepgramConfig
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

// New creates a Deepgram-backed Transcriber.
func New(cfg config.DeepgramConfig, log logger.Logger) Transcriber {
	return &implDeepgram{
		cfg:     cfg,
		baseURL: deepgramBaseURL,
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:  log,
	}
}

func (d *implDeepgram) Name() string { return "deepgram" }

type dgResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

type dgError struct {
	ErrCode string `json:"err_code"`
	ErrMsg  string `json:"err_msg"`
}

// Transcribe sends the raw audio bytes to Deepgram's prerecorded endpoint
// and returns the first alternative of the first channel.
func (d *implDeepgram) Transcribe(ctx context.Context, audio []byte, opts Options) (string, error) {
	apiKey := d.cfg.APIKey()
	if apiKey == "" {
		return "", ErrMissingCredentials
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio payload", ErrInvalidAudio)
	}

	q := url.Values{}
	q.Set("model", opts.Model)
	q.Set("language", opts.Language)
	q.Set("smart_format", strconv.FormatBool(opts.SmartFormat))

	endpoint := d.baseURL + "/v1/listen?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	d.logger.Debug(ctx, "Transcribing %d bytes (model=%s, language=%s)", len(audio), opts.Model, opts.Language)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", d.decodeError(resp)
	}

	var dr dgResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return "", &ProviderError{Status: resp.StatusCode, Message: fmt.Sprintf("undecodable response: %v", err)}
	}

	if len(dr.Results.Channels) == 0 || len(dr.Results.Channels[0].Alternatives) == 0 {
		return "", &ProviderError{Status: resp.StatusCode, Message: "response contains no transcript"}
	}

	transcript := dr.Results.Channels[0].Alternatives[0].Transcript
	d.logger.Debug(ctx, "Transcription returned %d characters", len(transcript))
	return transcript, nil
}

func (d *implDeepgram) decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	msg := strings.TrimSpace(string(body))
	var de dgError
	if err := json.Unmarshal(body, &de); err == nil && de.ErrMsg != "" {
		msg = de.ErrMsg
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnsupportedMediaType:
		return fmt.Errorf("%w: %s", ErrInvalidAudio, msg)
	default:
		return &ProviderError{Status: resp.StatusCode, Message: msg}
	}
}
