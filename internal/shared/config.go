package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config is read once at startup and handed to constructors; nothing below
// cmd/ reads the environment.
type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	StaticDir   string

	LLMBaseURL      string
	LLMKey          string
	LLMModel        string
	LLMTemperature  float32
	LLMTimeout      time.Duration
	LLMReferer      string
	LLMTitle        string
	BreakerFailures int

	NominatimBase string
	OverpassBase  string
	OSMUserAgent  string
	OSMRPS        float64
	SearchRadius  int
	ContextLimit  int
	IsolateErrors bool

	MySQLDSN  string
	RedisAddr string
	RedisDB   int
	RedisPass string
	RateLimit int

	ChunkSize  int
	ChunkDelay time.Duration

	CatalogPath string
	Workers     int
}

func Load() Config {
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":3000"),
		MetricsAddr: env("METRICS_ADDR", ""),
		StaticDir:   env("STATIC_DIR", ""),

		LLMBaseURL:      env("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMKey:          env("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
		LLMModel:        env("LLM_MODEL", "gpt-4o-mini"),
		LLMTemperature:  float32(atof("LLM_TEMPERATURE", 0.7)),
		LLMTimeout:      time.Duration(atoi("LLM_TIMEOUT_SECONDS", 90)) * time.Second,
		LLMReferer:      env("LLM_REFERER", "http://localhost:3000"),
		LLMTitle:        env("LLM_TITLE", "Trip Planner"),
		BreakerFailures: atoi("LLM_BREAKER_FAILURES", 5),

		NominatimBase: env("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		OverpassBase:  env("OVERPASS_BASE_URL", "https://overpass-api.de/api"),
		OSMUserAgent:  env("OSM_USER_AGENT", "trip-planner/1.0"),
		OSMRPS:        atof("OSM_RPS", 1),
		SearchRadius:  atoi("SEARCH_RADIUS_METERS", 5000),
		ContextLimit:  atoi("CONTEXT_LIMIT", 10),
		IsolateErrors: atob("CONTEXT_ISOLATE_FAILURES", false),

		MySQLDSN:  env("MYSQL_DSN", ""),
		RedisAddr: env("REDIS_ADDR", ""),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		RateLimit: atoi("RATE_LIMIT_PER_MINUTE", 10),

		ChunkSize:  atoi("STREAM_CHUNK_SIZE", 5),
		ChunkDelay: time.Duration(atoi("STREAM_DELAY_MS", 5)) * time.Millisecond,

		CatalogPath: env("CATALOG_PATH", "data/processed/database.json"),
		Workers:     atoi("INGEST_WORKERS", 4),
	}
	if c.LLMKey == "" {
		log.Warn().Msg("LLM_API_KEY / OPENAI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func atob(k string, def bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
