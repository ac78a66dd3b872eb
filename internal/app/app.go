// Package app assembles the request handler from configuration. Both the
// Lambda and the dev server entry points go through it.
package app

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"portfolio-site/handler"
	"portfolio-site/internal/config"
	"portfolio-site/internal/integrations/openai"
	"portfolio-site/internal/integrations/paramstore"
	"portfolio-site/internal/integrations/search"
	"portfolio-site/internal/usecase"
)

type Deps struct {
	// Secrets holds the API keys as {"token": ...} parameters under ParamPrefix.
	Secrets     paramstore.Getter
	ParamPrefix string
	Transcripts usecase.TranscriptStore
	Preferences usecase.PreferenceStore
	Logger      *zap.Logger
}

func NewHandler(cfg config.Config, deps Deps) (*handler.Handler, error) {
	if deps.Logger == nil {
		return nil, errors.New("app: logger must not be nil")
	}

	var opts []usecase.ReplyOption
	if cfg.UseRealAI {
		llm, err := openai.NewClient(deps.Secrets, deps.ParamPrefix,
			openai.WithBaseURL(cfg.OpenAIBaseURL),
			openai.WithHTTPClient(&http.Client{Timeout: cfg.CompletionTimeout}),
		)
		if err != nil {
			return nil, fmt.Errorf("app: openai client: %w", err)
		}
		opts = append(opts, usecase.WithCompleter(llm))

		if cfg.SearchEnabled {
			sc, err := search.NewClient(deps.Secrets, deps.ParamPrefix,
				search.WithBaseURL(cfg.SearchBaseURL),
				search.WithHTTPClient(&http.Client{Timeout: cfg.SearchTimeout}),
			)
			if err != nil {
				return nil, fmt.Errorf("app: search client: %w", err)
			}
			opts = append(opts, usecase.WithSearcher(sc))
		}
	}

	replies, err := usecase.NewReplyService(deps.Transcripts, deps.Logger, usecase.ReplyConfig{
		OwnerName:     cfg.OwnerName,
		Model:         cfg.OpenAIModel,
		SearchLimit:   cfg.SearchResultLimit,
		MaxMessageLen: cfg.MaxMessageLength,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("app: reply service: %w", err)
	}

	themes, err := usecase.NewThemeService(deps.Preferences, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("app: theme service: %w", err)
	}

	deps.Logger.Info("handler assembled",
		zap.Bool("remote_ai", cfg.UseRealAI),
		zap.Bool("search", cfg.UseRealAI && cfg.SearchEnabled),
		zap.String("model", cfg.OpenAIModel),
	)
	return handler.NewHandler(replies, themes, deps.Logger)
}

// LocalSecrets builds an in-memory parameter store from API keys taken from
// the environment, laid out the way the Lambda reads them from SSM.
func LocalSecrets(prefix, openAIKey, searchKey string) paramstore.Map {
	m := paramstore.Map{}
	if openAIKey != "" {
		m[openai.TokenParameterName(prefix)] = paramstore.EncodeToken(openAIKey)
	}
	if searchKey != "" {
		m[search.TokenParameterName(prefix)] = paramstore.EncodeToken(searchKey)
	}
	return m
}
