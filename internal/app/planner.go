package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"trip_planner/internal/domain"
)

// Planner runs everything that happens before the first byte is streamed:
// aggregation, prompt compilation and generation. Any error it returns is
// still reportable with a status code.
type Planner struct {
	agg *Aggregator
	gen domain.Generator
}

func NewPlanner(agg *Aggregator, gen domain.Generator) *Planner {
	return &Planner{agg: agg, gen: gen}
}

func (p *Planner) Itinerary(ctx context.Context, plan domain.Plan) (string, error) {
	start := time.Now()
	l := log.With().Str("destination", plan.Destination).Str("tier", string(plan.Tier)).Logger()

	l.Info().Msg("fetching context")
	bundle, err := p.agg.Aggregate(ctx, plan.Destination)
	if err != nil {
		return "", err
	}
	l.Info().
		Bool("geocoded", bundle.Coords != nil).
		Int("places", len(bundle.Places)).
		Int("dining", len(bundle.Dining)).
		Int("lodging", len(bundle.Lodging)).
		Msg("context ready")

	prompt, err := CompilePrompt(plan, bundle)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrContext, err)
	}
	l.Info().Int("prompt_len", len(prompt)).Bool("extended", plan.Extended()).Msg("calling generation backend")

	text, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	l.Info().Int("itinerary_len", len(text)).Dur("elapsed", time.Since(start)).Msg("itinerary generated")
	return text, nil
}
