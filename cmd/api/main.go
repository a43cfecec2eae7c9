package main

import (
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "trip_planner/internal/adapters/http_server"
	"trip_planner/internal/adapters/llm"
	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/adapters/osm"
	redisad "trip_planner/internal/adapters/redis"
	"trip_planner/internal/app"
	"trip_planner/internal/domain"
	"trip_planner/internal/shared"
	mysqlrepo "trip_planner/internal/storage/mysql"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// context providers
	geo, err := osm.New(osm.Options{
		NominatimBase: cfg.NominatimBase,
		OverpassBase:  cfg.OverpassBase,
		UserAgent:     cfg.OSMUserAgent,
		RPS:           cfg.OSMRPS,
		RadiusMeters:  cfg.SearchRadius,
		Limit:         cfg.ContextLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OSM client")
	}

	var places domain.PlacesProvider = geo
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok; places come from the catalogue")
		places = mysqlrepo.New(db, cfg.ContextLimit)
	}

	gen, err := llm.New(llm.Config{
		BaseURL:         cfg.LLMBaseURL,
		APIKey:          cfg.LLMKey,
		Model:           cfg.LLMModel,
		Temperature:     cfg.LLMTemperature,
		Timeout:         cfg.LLMTimeout,
		Referer:         cfg.LLMReferer,
		Title:           cfg.LLMTitle,
		BreakerFailures: cfg.BreakerFailures,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize generation client")
	}

	// deps
	agg := app.NewAggregator(geo, places, geo, geo, cfg.IsolateErrors)
	h := &server.Handlers{
		Planner:     app.NewPlanner(agg, gen),
		Transmitter: app.NewTransmitter(cfg.ChunkSize, cfg.ChunkDelay),
		StaticDir:   cfg.StaticDir,
	}
	if cfg.RedisAddr != "" {
		rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		h.Limiter = redisad.NewLimiter(rdb, cfg.RateLimit, time.Minute)
		log.Info().Str("addr", cfg.RedisAddr).Int("per_minute", cfg.RateLimit).Msg("rate limiting enabled")
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("model", cfg.LLMModel).
		Bool("isolate_failures", cfg.IsolateErrors).
		Msg("API listening")
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
