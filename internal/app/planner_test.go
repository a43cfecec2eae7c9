package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trip_planner/internal/app"
	"trip_planner/internal/domain"
)

func TestPlanner_Itinerary(t *testing.T) {
	g, p, d, l := fullProviders()
	gen := &fakeGen{text: "DAY 1: Baga Beach"}
	pl := app.NewPlanner(app.NewAggregator(g, p, d, l, false), gen)

	out, err := pl.Itinerary(context.Background(), goaPlan(15000))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != "DAY 1: Baga Beach" {
		t.Fatalf("out = %q", out)
	}
	if !strings.Contains(gen.prompt, "Baga Beach") || !strings.Contains(gen.prompt, "(Low Budget)") {
		t.Fatalf("prompt was not built from context: %s", gen.prompt)
	}
}

func TestPlanner_ErrorKinds(t *testing.T) {
	g, p, d, l := fullProviders()
	g.err = errors.New("nominatim down")
	pl := app.NewPlanner(app.NewAggregator(g, p, d, l, false), &fakeGen{text: "x"})
	if _, err := pl.Itinerary(context.Background(), goaPlan(15000)); !errors.Is(err, domain.ErrContext) {
		t.Fatalf("expected context error, got %v", err)
	}

	g, p, d, l = fullProviders()
	pl = app.NewPlanner(app.NewAggregator(g, p, d, l, false), &fakeGen{err: errors.New("429")})
	if _, err := pl.Itinerary(context.Background(), goaPlan(15000)); !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected generation error, got %v", err)
	}
}
