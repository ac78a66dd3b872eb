package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"portfolio-site/internal/domain"
	"portfolio-site/internal/integrations/paramstore"
)

const (
	defaultBaseURL = "https://serpapi.com"
	defaultTimeout = 10 * time.Second
	defaultLimit   = 3
)

// searchResponse is the subset of the search API payload we read.
type searchResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

// HTTPStatusError captures non-2xx search responses.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("search: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client queries a SerpApi-compatible web search endpoint.
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
// <paramPrefix>/search-token.
func NewClient(ps paramstore.Getter, paramPrefix string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("search: paramstore getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("search: parameter prefix must not be empty")
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

// TokenParameterName is where the search API key is stored under prefix.
func TokenParameterName(prefix string) string {
	return strings.TrimRight(prefix, "/") + "/search-token"
}

func searchURL(baseURL, query, apiKey string, limit int) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("api_key", apiKey)
	q.Set("num", strconv.Itoa(limit))
	return base + "/search.json?" + q.Encode()
}

// Search returns up to limit results for query. An empty result list is not
// an error: it means there is nothing to ground the answer with.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search: query must not be empty")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	apiKey, err := c.token.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: resolve api key: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL(c.baseURL, query, apiKey, limit), nil)
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{StatusCode: res.StatusCode, Body: string(buf)}
	}

	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("search: api error: %s", payload.Error)
	}

	results := make([]domain.SearchResult, 0, len(payload.OrganicResults))
	for _, r := range payload.OrganicResults {
		if len(results) == limit {
			break
		}
		results = append(results, domain.SearchResult{
			Title:   r.Title,
			Snippet: r.Snippet,
			Link:    r.Link,
		})
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results, nil
}
