package app_test

import (
	"context"
	"sync/atomic"

	"trip_planner/internal/domain"
)

// ---- fakes ----

type fakeGeo struct {
	coords *domain.Coordinates
	err    error
	calls  atomic.Int32
}

func (f *fakeGeo) Resolve(ctx context.Context, name string) (*domain.Coordinates, error) {
	f.calls.Add(1)
	return f.coords, f.err
}

type fakePlaces struct {
	out   []domain.Place
	err   error
	calls atomic.Int32
}

func (f *fakePlaces) LookupByName(ctx context.Context, name string) ([]domain.Place, error) {
	f.calls.Add(1)
	return f.out, f.err
}

type fakeDining struct {
	out   []domain.Diner
	err   error
	calls atomic.Int32
}

func (f *fakeDining) RestaurantsNear(ctx context.Context, lat, lon float64) ([]domain.Diner, error) {
	f.calls.Add(1)
	return f.out, f.err
}

type fakeLodging struct {
	out   []domain.Lodging
	err   error
	calls atomic.Int32
}

func (f *fakeLodging) StaysNear(ctx context.Context, lat, lon float64) ([]domain.Lodging, error) {
	f.calls.Add(1)
	return f.out, f.err
}

type fakeGen struct {
	text   string
	err    error
	prompt string
}

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

type fakeCatalog struct {
	places      []domain.CatalogPlace
	attractions map[int64][]domain.Attraction
	upsertErr   error
}

func (f *fakeCatalog) UpsertPlace(ctx context.Context, p domain.CatalogPlace) (int64, error) {
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	f.places = append(f.places, p)
	return int64(len(f.places)), nil
}

func (f *fakeCatalog) ReplaceAttractions(ctx context.Context, placeID int64, as []domain.Attraction) error {
	if f.attractions == nil {
		f.attractions = map[int64][]domain.Attraction{}
	}
	f.attractions[placeID] = as
	return nil
}

var goa = &domain.Coordinates{Lat: 15.4909, Lon: 73.8278}

func fullProviders() (*fakeGeo, *fakePlaces, *fakeDining, *fakeLodging) {
	return &fakeGeo{coords: goa},
		&fakePlaces{out: []domain.Place{{Name: "Baga Beach"}}},
		&fakeDining{out: []domain.Diner{{Name: "Britto's", Cuisine: "Goan"}}},
		&fakeLodging{out: []domain.Lodging{{Name: "Sea Breeze"}}}
}
