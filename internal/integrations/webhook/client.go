package webhook

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

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4096
)

// Delivery is what the webhook answered.
type Delivery struct {
	StatusCode int
	Body       string
}

// HTTPStatusError captures a non-200 webhook response.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("webhook: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client posts text payloads to a chat webhook.
type Client struct {
	url        string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(url string, opts ...Option) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("webhook: url must not be empty")
	}
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// EncodePayload serializes {"text": text}. Backslashes, quotes and control
// characters are escaped; HTML characters are left alone.
func EncodePayload(text string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(domain.NotifyPayload{Text: text}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Post sends text to the webhook once. A non-200 answer returns the populated
// Delivery together with an *HTTPStatusError.
func (c *Client) Post(ctx context.Context, text string) (Delivery, error) {
	body, err := EncodePayload(text)
	if err != nil {
		return Delivery{}, fmt.Errorf("webhook: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Delivery{}, fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return Delivery{}, fmt.Errorf("webhook: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	out := Delivery{StatusCode: res.StatusCode, Body: string(buf)}
	if err != nil {
		return out, fmt.Errorf("webhook: read response body: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return out, &HTTPStatusError{StatusCode: res.StatusCode, Body: out.Body}
	}
	return out, nil
}
