package transcriber

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/speechnotes-ai/speechnotes/internal/config"
	"github.com/speechnotes-ai/speechnotes/internal/logger"
)

func newTestTranscriber(t *testing.T, handler http.HandlerFunc) (*implDeepgram, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("DEEPGRAM_API_KEY_TEST", "dg-test-key")
	cfg := config.DeepgramConfig{
		APIKeyEnv:      "DEEPGRAM_API_KEY_TEST",
		Model:          "nova-2",
		Language:       "en-US",
		SmartFormat:    true,
		TimeoutSeconds: 5,
	}

	tr := New(cfg, logger.New("error")).(*implDeepgram)
	tr.baseURL = srv.URL
	return tr, srv
}

func TestTranscribeSuccess(t *testing.T) {
	var gotAuth, gotQuery string
	tr, _ := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"hello world"}]}]}}`))
	})

	text, err := tr.Transcribe(context.Background(), []byte("RIFFaudio"), Options{
		Model: "nova-2", Language: "en-US", SmartFormat: true,
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "hello world" {
		t.Errorf("transcript = %q, want %q", text, "hello world")
	}
	if gotAuth != "Token dg-test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	for _, want := range []string{"model=nova-2", "language=en-US", "smart_format=true"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestTranscribeMissingCredentials(t *testing.T) {
	cfg := config.DeepgramConfig{APIKeyEnv: "DEEPGRAM_API_KEY_UNSET", TimeoutSeconds: 1}
	tr := New(cfg, logger.New("error"))

	_, err := tr.Transcribe(context.Background(), []byte("audio"), Options{})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("error = %v, want ErrMissingCredentials", err)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	tr, _ := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for empty audio")
	})

	_, err := tr.Transcribe(context.Background(), nil, Options{})
	if !errors.Is(err, ErrInvalidAudio) {
		t.Errorf("error = %v, want ErrInvalidAudio", err)
	}
}

func TestTranscribeErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"err_msg":"invalid credentials"}`,
			func(err error) bool { return errors.Is(err, ErrInvalidCredentials) }},
		{"bad audio", http.StatusBadRequest, `{"err_msg":"failed to decode audio"}`,
			func(err error) bool { return errors.Is(err, ErrInvalidAudio) }},
		{"server error", http.StatusInternalServerError, `boom`,
			func(err error) bool {
				var pe *ProviderError
				return errors.As(err, &pe) && pe.Status == http.StatusInternalServerError
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := tr.Transcribe(context.Background(), []byte("audio"), Options{})
			if err == nil || !tt.check(err) {
				t.Errorf("error = %v, does not match expected class", err)
			}
		})
	}
}

func TestTranscribeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	t.Setenv("DEEPGRAM_API_KEY_TEST", "dg-test-key")
	tr := New(config.DeepgramConfig{APIKeyEnv: "DEEPGRAM_API_KEY_TEST", TimeoutSeconds: 1}, logger.New("error")).(*implDeepgram)
	tr.baseURL = srv.URL

	_, err := tr.Transcribe(context.Background(), []byte("audio"), Options{})
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("error = %v, want ErrUnreachable", err)
	}
}

func TestTranscribeTimeout(t *testing.T) {
	tr, _ := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	tr.client.Timeout = 20 * time.Millisecond

	_, err := tr.Transcribe(context.Background(), []byte("audio"), Options{})
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("error = %v, want ErrUnreachable", err)
	}
}
