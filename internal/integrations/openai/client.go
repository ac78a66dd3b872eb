package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"portfolio-site/internal/domain"
	"portfolio-site/internal/integrations/paramstore"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 20 * time.Second
)

// chatRequest is the minimal request shape for the Chat Completions endpoint.
type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
}

// chatResponse covers both the success payload and the error envelope, which
// can arrive with any status code.
type chatResponse struct {
	Choices []struct {
		Index   int                `json:"index"`
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
	Error *apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// code returns the error code, falling back to the type when the code is
// absent or not a string.
func (b *apiErrorBody) code() string {
	if s, ok := b.Code.(string); ok && s != "" {
		return s
	}
	return b.Type
}

// Client is a focused OpenAI-compatible client for chat completions.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      *paramstore.TokenCache
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client whose API key lives in the parameter store at
// <paramPrefix>/open-ai-token. The key is fetched on the first call to
// Complete and reused once it has been read successfully.
func NewClient(ps paramstore.Getter, paramPrefix string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("openai: paramstore getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("openai: parameter prefix must not be empty")
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		token:      paramstore.NewTokenCache(ps, TokenParameterName(paramPrefix)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TokenParameterName is where the API key is stored under prefix.
func TokenParameterName(prefix string) string {
	return strings.TrimRight(prefix, "/") + "/open-ai-token"
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

func chatURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}

// Complete runs one chat completion. It never returns nil: every outcome is
// reported as a domain.Success, domain.APIError or domain.TransportError.
func (c *Client) Complete(ctx context.Context, model string, messages []domain.ChatMessage) domain.Completion {
	if strings.TrimSpace(model) == "" {
		return domain.TransportError{Err: errors.New("openai: model must not be empty")}
	}

	apiKey, err := c.token.Token(ctx)
	if err != nil {
		return domain.TransportError{Err: fmt.Errorf("openai: resolve api key: %w", err)}
	}

	body, err := json.Marshal(chatRequest{Model: model, Messages: messages})
	if err != nil {
		return domain.TransportError{Err: fmt.Errorf("openai: marshal request: %w", err)}
	}

	url := chatURL(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.TransportError{Err: fmt.Errorf("openai: create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return domain.TransportError{Err: fmt.Errorf("openai: request failed: %w", err)}
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return domain.TransportError{Err: fmt.Errorf("openai: read response body: %w", err)}
	}
	return decodeCompletion(res.StatusCode, raw)
}

func decodeCompletion(status int, raw []byte) domain.Completion {
	var payload chatResponse
	decErr := json.Unmarshal(raw, &payload)

	if decErr == nil && payload.Error != nil {
		return domain.APIError{
			StatusCode: status,
			Code:       payload.Error.code(),
			Message:    payload.Error.Message,
		}
	}
	if status < 200 || status >= 300 {
		return domain.APIError{
			StatusCode: status,
			Code:       http.StatusText(status),
			Message:    truncate(string(raw), 512),
		}
	}
	if decErr != nil {
		return domain.APIError{
			StatusCode: status,
			Code:       domain.CodeMalformedResponse,
			Message:    fmt.Sprintf("decode response: %v", decErr),
		}
	}
	if len(payload.Choices) == 0 || strings.TrimSpace(payload.Choices[0].Message.Content) == "" {
		return domain.APIError{
			StatusCode: status,
			Code:       domain.CodeMalformedResponse,
			Message:    "no generated text in response",
		}
	}
	return domain.Success{Text: payload.Choices[0].Message.Content}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
