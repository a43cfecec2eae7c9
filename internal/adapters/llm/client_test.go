package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"trip_planner/internal/adapters/llm"
)

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "cmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

func newClient(t *testing.T, base string, failures int) *llm.Client {
	t.Helper()
	c, err := llm.New(llm.Config{
		BaseURL:         base,
		APIKey:          "test-key",
		Model:           "gpt-4o-mini",
		Temperature:     0.7,
		Timeout:         2 * time.Second,
		Referer:         "http://localhost:3000",
		Title:           "Trip Planner",
		BreakerFailures: failures,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return c
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := llm.New(llm.Config{Model: "m"}); err == nil {
		t.Fatalf("expected error without API key")
	}
}

func TestGenerate_SendsPromptAndHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if r.Header.Get("HTTP-Referer") != "http://localhost:3000" || r.Header.Get("X-Title") != "Trip Planner" {
			t.Errorf("missing attribution headers: %v", r.Header)
		}
		b, _ := io.ReadAll(r.Body)
		var req struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role, Content string
			} `json:"messages"`
		}
		if err := json.Unmarshal(b, &req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.Model != "gpt-4o-mini" || len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "plan Goa" {
			t.Errorf("unexpected request: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("DAY 1: Beaches"))
	}))
	defer ts.Close()

	got, err := newClient(t, ts.URL, 5).Generate(context.Background(), "plan Goa")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "DAY 1: Beaches" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerate_BackendErrorPropagates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL, 5).Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "chat completion") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestGenerate_EmptyChoicesIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("   "))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL, 5).Generate(context.Background(), "p")
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGenerate_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := newClient(t, ts.URL, 2)
	for i := 0; i < 2; i++ {
		if _, err := c.Generate(context.Background(), "p"); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	_, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("open breaker must not reach the backend; hits=%d", hits)
	}
}
