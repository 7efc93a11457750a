// Package ai talks to OpenAI-compatible chat completion backends.
package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/ports"
)

var (
	errNoChoices    = errors.New("response contained no choices")
	errEmptyContent = errors.New("response message content is empty")
)

// Client implements ports.Invoker with the go-openai SDK.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a Client sharing one http.Client across calls.
func NewClient() *Client {
	return NewClientWithHTTP(&http.Client{Timeout: domain.DefaultHTTPClientTimeout})
}

// NewClientWithHTTP returns a Client using the given transport.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: domain.DefaultHTTPClientTimeout}
	}
	return &Client{httpClient: httpClient}
}

// Invoke posts one system and one user message to {base_url}/chat/completions
// and returns the first choice's content. Nothing is retried here.
func (c *Client) Invoke(ctx context.Context, cfg domain.Config, system, user string) (string, error) {
	if err := requireCredentials(cfg); err != nil {
		return "", err
	}

	resp, err := c.client(cfg).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: strings.TrimSpace(cfg.Model),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", &domain.BackendError{Op: "chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.BackendError{Op: "decode response", Err: errNoChoices}
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &domain.BackendError{Op: "decode response", Err: errEmptyContent}
	}
	return content, nil
}

// Ping lists models to confirm the backend accepts the configured credentials.
func (c *Client) Ping(ctx context.Context, cfg domain.Config) error {
	if err := requireCredentials(cfg); err != nil {
		return err
	}
	if _, err := c.client(cfg).ListModels(ctx); err != nil {
		return &domain.BackendError{Op: "list models", Err: err}
	}
	return nil
}

func (c *Client) client(cfg domain.Config) *openai.Client {
	clientCfg := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	clientCfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	clientCfg.HTTPClient = c.httpClient
	return openai.NewClientWithConfig(clientCfg)
}

func requireCredentials(cfg domain.Config) error {
	if missing := cfg.MissingFields(); len(missing) > 0 {
		return &domain.BackendError{
			Op:  "validate config",
			Err: &domain.ConfigError{Field: strings.Join(missing, ", "), Reason: "not set"},
		}
	}
	return nil
}

var (
	_ ports.Invoker       = (*Client)(nil)
	_ ports.BackendProber = (*Client)(nil)
)
