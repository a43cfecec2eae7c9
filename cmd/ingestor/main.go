package main

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/app"
	"trip_planner/internal/domain"
	"trip_planner/internal/shared"
	mysqlrepo "trip_planner/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("catalog", cfg.CatalogPath).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	f, err := os.Open(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open catalogue failed")
	}
	places, err := app.DecodeCatalog(f)
	_ = f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("read catalogue failed")
	}
	log.Info().Int("places", len(places)).Msg("catalogue loaded")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	ing := app.NewIngestionService(mysqlrepo.New(db, cfg.ContextLimit))
	sem := semaphore.NewWeighted(int64(max(cfg.Workers, 1)))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, p := range places {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(p domain.CatalogPlace) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := ing.IngestPlace(ctx, p); err != nil {
				failed.Add(1)
				log.Warn().Str("id", p.ExternalID).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Str("id", p.ExternalID).Str("name", p.Name).Int("attractions", len(p.Attractions)).Msg("ingest ok")
		}(p)
	}

	wg.Wait()
	log.Info().Int32("failed", failed.Load()).Int("total", len(places)).Msg("ingestion completed")
}
