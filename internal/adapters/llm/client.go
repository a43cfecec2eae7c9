// Package llm sends compiled prompts to an OpenAI-compatible chat
// completions API (OpenRouter by default) and returns the whole reply.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"trip_planner/internal/adapters/observability"
)

var ErrEmptyResponse = errors.New("llm: empty response")

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Referer     string // OpenRouter attribution headers
	Title       string
	// Consecutive failures before calls fail fast for a cool-down period.
	BreakerFailures int
}

type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	cb          *gobreaker.CircuitBreaker
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.BreakerFailures <= 0 {
		cfg.BreakerFailures = 5
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Transport: &headerTransport{
		base:    http.DefaultTransport,
		referer: cfg.Referer,
		title:   cfg.Title,
	}}

	failures := uint32(cfg.BreakerFailures)
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "llm",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		// a caller hanging up says nothing about backend health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &Client{
		api:         openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		cb:          cb,
	}, nil
}

// Generate makes a single chat completion call. There are no retries; while
// the breaker is open calls fail immediately with gobreaker.ErrOpenState.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
			Temperature: c.temperature,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			return nil, ErrEmptyResponse
		}
		log.Debug().Int("total_tokens", resp.Usage.TotalTokens).Msg("chat completion received")
		return resp.Choices[0].Message.Content, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests) {
		observability.ObserveExternal("llm", "chat_completions", statusOf(err), time.Since(start))
	}
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return out.(string), nil
}

// statusOf extracts the HTTP status from go-openai errors; 0 when unknown.
func statusOf(err error) int {
	if err == nil || errors.Is(err, ErrEmptyResponse) {
		return http.StatusOK
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

type headerTransport struct {
	base           http.RoundTripper
	referer, title string
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		r.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(r)
}
