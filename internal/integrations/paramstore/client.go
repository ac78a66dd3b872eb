package paramstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ssmAPI is the minimal AWS SSM interface required by Client.
// *ssm.Client from aws-sdk-go-v2 satisfies this interface.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Getter is the interface that wraps GetParameter.
// The completion and search clients depend on this rather than on *Client so
// they stay testable without AWS.
type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// Client wraps an AWS SSM API for parameter retrieval.
type Client struct {
	api ssmAPI
}

// New creates a Client with the given SSM API implementation.
func New(api ssmAPI) (*Client, error) {
	if api == nil {
		return nil, errors.New("paramstore: api must not be nil")
	}
	return &Client{api: api}, nil
}

func (c *Client) GetParameter(ctx context.Context, name string) (string, error) {
	if c.api == nil {
		return "", errors.New("paramstore: client not initialized")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("paramstore: name is required")
	}

	withDecryption := true
	out, err := c.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: &withDecryption,
	})
	if err != nil {
		return "", fmt.Errorf("paramstore: get parameter %q: %w", name, err)
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", errors.New("paramstore: parameter missing value")
	}
	return *out.Parameter.Value, nil
}

// Map is a Getter over fixed values. The dev server uses it to feed secrets
// from the environment when no parameter store is available.
type Map map[string]string

func (m Map) GetParameter(_ context.Context, name string) (string, error) {
	v, ok := m[strings.TrimSpace(name)]
	if !ok {
		return "", fmt.Errorf("paramstore: parameter %q not found", name)
	}
	return v, nil
}

// tokenPayload is the JSON shape stored for API tokens.
type tokenPayload struct {
	Token string `json:"token"`
}

// EncodeToken renders a token the way FetchToken expects to find it.
func EncodeToken(token string) string {
	raw, _ := json.Marshal(tokenPayload{Token: token})
	return string(raw)
}

// FetchToken reads a parameter holding {"token":"..."} and returns the token.
func FetchToken(ctx context.Context, getter Getter, name string) (string, error) {
	if getter == nil {
		return "", errors.New("paramstore: getter is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("paramstore: token parameter name is empty")
	}

	raw, err := getter.GetParameter(ctx, name)
	if err != nil {
		return "", fmt.Errorf("paramstore: fetch token: %w", err)
	}
	var tp tokenPayload
	if err := json.Unmarshal([]byte(raw), &tp); err != nil {
		return "", fmt.Errorf("paramstore: unmarshal token value as JSON: %w", err)
	}
	if strings.TrimSpace(tp.Token) == "" {
		return "", fmt.Errorf("paramstore: token in %q is empty", name)
	}
	return tp.Token, nil
}

// TokenCache resolves a token once it has been fetched successfully. Failed
// fetches are not cached so a later call can recover.
type TokenCache struct {
	getter Getter
	name   string

	mu    sync.Mutex
	token string
}

func NewTokenCache(getter Getter, name string) *TokenCache {
	return &TokenCache{getter: getter, name: name}
}

func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	token, err := FetchToken(ctx, c.getter, c.name)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}
