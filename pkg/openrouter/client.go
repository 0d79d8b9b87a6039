// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openrouter

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/time/rate"

	"github.com/walteh/reporeadme/pkg/config"
)

// DefaultBaseURL is the OpenRouter API root
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const (
	referer   = "https://github.com/dev-alt/RepoReadme"
	title     = "RepoReadme AI Bio Generator"
	userAgent = "RepoReadme-AI-Bio-Generator/1.0"

	statsTimeout = 10 * time.Second
)

var (
	// ErrNotConfigured is returned when no API key is available
	ErrNotConfigured = errors.New("OpenRouter API key not configured")
	// ErrEmptyResponse is returned when the API answers without a completion
	ErrEmptyResponse = errors.New("invalid API response")
	// ErrAPI wraps non-2xx answers from the API
	ErrAPI = errors.New("openrouter request failed")
)

// 🔧 Config holds everything needed to talk to OpenRouter
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64

	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
	RateLimit rate.Limit
	Burst     int
}

// DefaultConfig returns the defaults used when settings are absent
func DefaultConfig() Config {
	return Config{
		Model:       ModelGPT35Turbo,
		BaseURL:     DefaultBaseURL,
		MaxTokens:   1000,
		Temperature: 0.7,
		Timeout:     60 * time.Second,
		Retries:     2,
		RetryWait:   time.Second,
		RateLimit:   rate.Limit(2),
		Burst:       1,
	}
}

// ConfigFromSettings maps the persisted settings onto a client config
func ConfigFromSettings(s *config.Settings) Config {
	cfg := DefaultConfig()
	if s == nil {
		return cfg
	}
	cfg.APIKey = strings.TrimSpace(s.OpenRouterAPIKey)
	if s.OpenRouterModel != "" {
		cfg.Model = s.OpenRouterModel
	}
	if s.OpenRouterMaxTokens > 0 {
		cfg.MaxTokens = s.OpenRouterMaxTokens
	}
	cfg.Temperature = s.OpenRouterTemperature
	return cfg
}

// Configured reports whether an API key is present
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Request is a single-prompt chat completion
type Request struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Usage is the token accounting returned with a completion
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the first choice of a chat completion response
type Completion struct {
	ID      string
	Model   string
	Content string
	Usage   Usage
}

// Completer sends prompts to a chat completion endpoint
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// 🌐 Client is the resty-backed OpenRouter transport
type Client struct {
	cfg     Config
	http    *resty.Client
	limiter *rate.Limiter
}

var _ Completer = (*Client)(nil)

// NewClient creates a client with retry, backoff and rate limiting
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = rate.Inf
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	wait := cfg.RetryWait
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", referer).
		SetHeader("X-Title", title).
		SetHeader("User-Agent", userAgent).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(wait << max(cfg.Retries-1, 0)).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			attempt := max(resp.Request.Attempt, 1)
			return wait << (attempt - 1), nil
		}).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			code := resp.StatusCode()
			return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
		})

	return &Client{
		cfg:     cfg,
		http:    client,
		limiter: rate.NewLimiter(cfg.RateLimit, cfg.Burst),
	}
}

// Config returns the client configuration
func (c *Client) Config() Config {
	return c.cfg
}

// Complete posts a single user message and returns the first choice
func (c *Client) Complete(ctx context.Context, req Request) (*Completion, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.cfg.MaxTokens
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Errorf("waiting for rate limiter: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("model", model).Int("max_tokens", maxTokens).Msg("sending openrouter completion")

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model": model,
			"messages": []map[string]string{
				{"role": "user", "content": req.Prompt},
			},
			"max_tokens":  maxTokens,
			"temperature": req.Temperature,
		}).
		Post("/chat/completions")
	if err != nil {
		return nil, errors.Errorf("calling openrouter: %w", err)
	}
	if resp.IsError() {
		msg := gjson.GetBytes(resp.Body(), "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return nil, errors.Errorf("%w: status %d: %s", ErrAPI, resp.StatusCode(), msg)
	}

	body := gjson.ParseBytes(resp.Body())
	content := body.Get("choices.0.message.content")
	if !content.Exists() {
		return nil, ErrEmptyResponse
	}

	out := &Completion{
		ID:      body.Get("id").String(),
		Model:   model,
		Content: content.String(),
		Usage: Usage{
			PromptTokens:     int(body.Get("usage.prompt_tokens").Int()),
			CompletionTokens: int(body.Get("usage.completion_tokens").Int()),
			TotalTokens:      int(body.Get("usage.total_tokens").Int()),
		},
	}

	logger.Debug().
		Str("generation_id", out.ID).
		Int("total_tokens", out.Usage.TotalTokens).
		Msg("openrouter completion received")

	return out, nil
}

// GenerationStats fetches the accounting record for a generation.
// It returns nil without error when unconfigured or when id is empty.
func (c *Client) GenerationStats(ctx context.Context, id string) (map[string]any, error) {
	if !c.cfg.Configured() || id == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("id", id).
		Get("/generation")
	if err != nil {
		return nil, errors.Errorf("querying generation stats: %w", err)
	}
	if resp.IsError() {
		return nil, errors.Errorf("%w: generation stats status %d", ErrAPI, resp.StatusCode())
	}

	body := gjson.ParseBytes(resp.Body())
	if data := body.Get("data"); data.IsObject() {
		body = data
	}
	stats, ok := body.Value().(map[string]any)
	if !ok {
		return nil, errors.Errorf("%w: generation stats are not an object", ErrEmptyResponse)
	}
	return stats, nil
}
