package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Deepgram   DeepgramConfig   `yaml:"deepgram"`
	Groq       GroqConfig       `yaml:"groq"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Completion CompletionConfig `yaml:"completion"`
	Quiz       QuizConfig       `yaml:"quiz"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	MaxUploadSizeMB int    `yaml:"max_upload_size_mb"`
}

type DeepgramConfig struct {
	APIKeyEnv      string `yaml:"api_key_env"`
	Model          string `yaml:"model"`
	Language       string `yaml:"language"`
	SmartFormat    bool   `yaml:"smart_format"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type GroqConfig struct {
	APIKeyEnv      string  `yaml:"api_key_env"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

type GeminiConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

type CompletionConfig struct {
	Provider string `yaml:"provider"`
}

type QuizConfig struct {
	QuestionCount int `yaml:"question_count"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML config at path, validates it and fills defaults.
// A missing file is not an error; every field has a usable default.
func Load(path string) (*Config, error) {
	// smart_format defaults to on; unmarshal over the default so an
	// explicit "smart_format: false" still takes effect.
	cfg := &Config{
		Deepgram: DeepgramConfig{SmartFormat: true},
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Completion.Provider == "" {
		c.Completion.Provider = "groq"
	}
	if c.Completion.Provider != "groq" && c.Completion.Provider != "gemini" {
		return fmt.Errorf("completion.provider must be \"groq\" or \"gemini\", got %q", c.Completion.Provider)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxUploadSizeMB <= 0 {
		c.Server.MaxUploadSizeMB = 25
	}

	if c.Deepgram.APIKeyEnv == "" {
		c.Deepgram.APIKeyEnv = "DEEPGRAM_API_KEY"
	}
	if c.Deepgram.Model == "" {
		c.Deepgram.Model = "nova-2"
	}
	if c.Deepgram.Language == "" {
		c.Deepgram.Language = "en-US"
	}
	if c.Deepgram.TimeoutSeconds <= 0 {
		c.Deepgram.TimeoutSeconds = 60
	}

	if c.Groq.APIKeyEnv == "" {
		c.Groq.APIKeyEnv = "GROQ_API_KEY"
	}
	if c.Groq.Model == "" {
		c.Groq.Model = "llama-3.3-70b-versatile"
	}
	if c.Groq.Temperature <= 0 {
		c.Groq.Temperature = 0.3
	}
	if c.Groq.Temperature > 1 {
		return fmt.Errorf("groq.temperature must be within [0,1], got %v", c.Groq.Temperature)
	}
	if c.Groq.MaxTokens <= 0 {
		c.Groq.MaxTokens = 1024
	}
	if c.Groq.TimeoutSeconds <= 0 {
		c.Groq.TimeoutSeconds = 60
	}

	if c.Gemini.APIKeyEnv == "" {
		c.Gemini.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}

	if c.Quiz.QuestionCount <= 0 {
		c.Quiz.QuestionCount = 5
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// APIKey resolves the Deepgram credential from the environment.
// Keys are never stored in the config file itself.
func (c DeepgramConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// APIKey resolves the Groq credential from the environment.
func (c GroqConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// APIKey resolves the Gemini credential from the environment.
func (c GeminiConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}
