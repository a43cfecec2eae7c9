package domain

import "context"

// Outbound collaborators used by the aggregation pipeline.

type Geocoder interface {
	// Resolve returns nil coordinates (and no error) when the name is unknown.
	Resolve(ctx context.Context, name string) (*Coordinates, error)
}

type PlacesProvider interface {
	LookupByName(ctx context.Context, name string) ([]Place, error)
}

type DiningProvider interface {
	RestaurantsNear(ctx context.Context, lat, lon float64) ([]Diner, error)
}

type LodgingProvider interface {
	StaysNear(ctx context.Context, lat, lon float64) ([]Lodging, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Catalogue write paths (ingestor only).
type CatalogWriter interface {
	UpsertPlace(ctx context.Context, p CatalogPlace) (int64, error)
	ReplaceAttractions(ctx context.Context, placeID int64, as []Attraction) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
