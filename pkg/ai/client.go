// Package ai talks to an OpenAI-compatible chat completions endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

var ErrEmptyResponse = errors.New("no choices in response")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature,omitempty"`
}

const systemPrompt = "You are a warm, concise journaling companion."

// Client generates text with a chat completions API. It satisfies
// journal.Generator.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
	limiter  *rate.Limiter
}

type Option func(*Client)

// WithHTTPClient replaces the default client (which times out after 30s).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithRatePerMinute caps outgoing requests. Zero disables the limit.
func WithRatePerMinute(n float64) Option {
	return func(cl *Client) {
		if n <= 0 {
			cl.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		cl.limiter = rate.NewLimiter(rate.Limit(n/60), 1)
	}
}

func NewClient(endpoint, apiKey, model string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		http:     &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends prompt as a single user message and returns the first choice.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat marshal failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chat request create failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("chat read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("chat http %d: %s", resp.StatusCode, msg)
	}
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("chat decode failed: invalid json")
	}

	content := gjson.GetBytes(raw, "choices.0.message.content")
	if !content.Exists() || content.String() == "" {
		return "", ErrEmptyResponse
	}
	return content.String(), nil
}
