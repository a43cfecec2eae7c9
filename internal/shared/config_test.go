package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "LLM_MODEL", "STREAM_CHUNK_SIZE", "STREAM_DELAY_MS", "CONTEXT_ISOLATE_FAILURES", "LLM_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.HTTPAddr != ":3000" {
		t.Fatalf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.LLMModel != "gpt-4o-mini" || c.LLMTemperature != 0.7 {
		t.Fatalf("llm defaults: %q %v", c.LLMModel, c.LLMTemperature)
	}
	if c.ChunkSize != 5 || c.ChunkDelay != 5*time.Millisecond {
		t.Fatalf("stream defaults: %d %v", c.ChunkSize, c.ChunkDelay)
	}
	if c.IsolateErrors {
		t.Fatalf("isolation must be opt-in")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("STREAM_CHUNK_SIZE", "12")
	t.Setenv("CONTEXT_ISOLATE_FAILURES", "true")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	c := Load()
	if c.LLMKey != "sk-fallback" {
		t.Fatalf("LLMKey = %q", c.LLMKey)
	}
	if c.ChunkSize != 12 {
		t.Fatalf("ChunkSize = %d", c.ChunkSize)
	}
	if !c.IsolateErrors {
		t.Fatalf("IsolateErrors not parsed")
	}
	if c.RateLimit != 10 {
		t.Fatalf("bad int should fall back to default, got %d", c.RateLimit)
	}
}
