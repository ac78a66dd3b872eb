// Package config reads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Storage and secrets (Lambda)
	StateTable  string `env:"STATE_TABLE"`
	ParamPrefix string `env:"PARAM_PREFIX"`

	// Assistant
	OwnerName         string        `env:"OWNER_NAME" envDefault:"Alex"`
	UseRealAI         bool          `env:"USE_REAL_AI" envDefault:"true"`
	OpenAIModel       string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	CompletionTimeout time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"20s"`
	MaxMessageLength  int           `env:"MAX_MESSAGE_LENGTH" envDefault:"500"`

	// In-memory conversations
	TranscriptTTL    time.Duration `env:"TRANSCRIPT_TTL" envDefault:"24h"`
	MaxConversations int           `env:"MAX_CONVERSATIONS" envDefault:"10000"`

	// Web search augmentation
	SearchEnabled     bool          `env:"SEARCH_ENABLED" envDefault:"true"`
	SearchBaseURL     string        `env:"SEARCH_BASE_URL"`
	SearchResultLimit int           `env:"SEARCH_RESULT_LIMIT" envDefault:"3"`
	SearchTimeout     time.Duration `env:"SEARCH_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile   string `env:"LOG_FILE"`

	// Dev server only. Keys here replace the parameter store lookups.
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8080"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	SearchAPIKey string `env:"SEARCH_API_KEY"`
}

// Load reads .env (if present) and then the environment. Real environment
// variables win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.OwnerName = strings.TrimSpace(cfg.OwnerName)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.OwnerName == "" {
		return errors.New("config: OWNER_NAME must not be empty")
	}
	if c.MaxMessageLength <= 0 {
		return errors.New("config: MAX_MESSAGE_LENGTH must be positive")
	}
	if c.SearchResultLimit <= 0 {
		return errors.New("config: SEARCH_RESULT_LIMIT must be positive")
	}
	if c.TranscriptTTL <= 0 {
		return errors.New("config: TRANSCRIPT_TTL must be positive")
	}
	if c.MaxConversations <= 0 {
		return errors.New("config: MAX_CONVERSATIONS must be positive")
	}
	if c.CompletionTimeout <= 0 || c.SearchTimeout <= 0 {
		return errors.New("config: timeouts must be positive")
	}
	return nil
}

// RequireLambda checks the settings only the Lambda deployment needs.
func (c Config) RequireLambda() error {
	var missing []string
	if strings.TrimSpace(c.StateTable) == "" {
		missing = append(missing, "STATE_TABLE")
	}
	if strings.TrimSpace(c.ParamPrefix) == "" {
		missing = append(missing, "PARAM_PREFIX")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}
