package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/domain"
)

type Aggregator struct {
	geo     domain.Geocoder
	places  domain.PlacesProvider
	dining  domain.DiningProvider
	lodging domain.LodgingProvider
	isolate bool
}

// NewAggregator wires the context collaborators. With isolate set, a failing
// collaborator degrades its own category to empty instead of failing the
// whole aggregation.
func NewAggregator(g domain.Geocoder, p domain.PlacesProvider, d domain.DiningProvider, l domain.LodgingProvider, isolate bool) *Aggregator {
	return &Aggregator{geo: g, places: p, dining: d, lodging: l, isolate: isolate}
}

// Aggregate resolves coordinates and fetches places, dining and lodging.
// The places lookup never waits on geocoding; dining and lodging only run
// once coordinates are known, and are skipped entirely when they are not.
func (a *Aggregator) Aggregate(ctx context.Context, destination string) (domain.ContextBundle, error) {
	var out domain.ContextBundle
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ps, err := a.places.LookupByName(gctx, destination)
		if err != nil {
			return a.degrade("places", err)
		}
		out.Places = ps
		return nil
	})

	g.Go(func() error {
		coords, err := a.geo.Resolve(gctx, destination)
		if err != nil {
			return a.degrade("geocode", err)
		}
		if coords == nil {
			log.Info().Str("destination", destination).Msg("destination not geocoded; skipping dining and lodging")
			return nil
		}
		out.Coords = coords

		g.Go(func() error {
			ds, err := a.dining.RestaurantsNear(gctx, coords.Lat, coords.Lon)
			if err != nil {
				return a.degrade("dining", err)
			}
			out.Dining = ds
			return nil
		})
		g.Go(func() error {
			ls, err := a.lodging.StaysNear(gctx, coords.Lat, coords.Lon)
			if err != nil {
				return a.degrade("lodging", err)
			}
			out.Lodging = ls
			return nil
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.ContextBundle{}, err
	}
	return out, nil
}

func (a *Aggregator) degrade(source string, err error) error {
	if !a.isolate {
		return fmt.Errorf("%w: %s: %w", domain.ErrContext, source, err)
	}
	observability.ObserveDegraded(source)
	log.Warn().Err(err).Str("source", source).Msg("context source failed; continuing without it")
	return nil
}
