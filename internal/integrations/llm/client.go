package llm

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

	"llm-notify-bridge/internal/domain"
)

// DefaultModel is sent when no model is configured.
const DefaultModel = "meta-llama/Llama-3.3-70B-Instruct-Turbo"

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// Completion is the raw outcome of a chat-completion call. Any status code is
// reported as-is; callers decide what a non-200 means.
type Completion struct {
	StatusCode int
	Body       string
	// Truncated is set when the body exceeded the read limit and was cut.
	Truncated bool
}

// OK reports whether the endpoint answered 200.
func (c Completion) OK() bool {
	return c.StatusCode == http.StatusOK
}

// Client posts single-message chat-completion requests to an
// OpenAI-compatible endpoint.
type Client struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) {
		if m := strings.TrimSpace(model); m != "" {
			c.model = m
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client for the full completion endpoint url.
func NewClient(url, apiKey string, opts ...Option) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("llm: url must not be empty")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("llm: api key must not be empty")
	}
	c := &Client{
		url:        url,
		apiKey:     apiKey,
		model:      DefaultModel,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: defaultTimeout}
}

// Complete sends message as the single user turn and returns the response
// status and body. Only transport and read failures are returned as errors.
func (c *Client) Complete(ctx context.Context, message string) (Completion, error) {
	body, err := json.Marshal(domain.NewUserRequest(c.model, message))
	if err != nil {
		return Completion{}, fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("llm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		return Completion{}, fmt.Errorf("llm: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes+1))
	if err != nil {
		return Completion{StatusCode: res.StatusCode}, fmt.Errorf("llm: read response body: %w", err)
	}
	out := Completion{StatusCode: res.StatusCode}
	if len(buf) > maxBodyBytes {
		buf = buf[:maxBodyBytes]
		out.Truncated = true
	}
	out.Body = string(buf)
	return out, nil
}
