package domain

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Optional string fields are empty when the provider had no value; the
// prompt compiler owns the fallbacks.

type Place struct {
	Name string `json:"name"`
}

type Diner struct {
	Name    string `json:"name"`
	Cuisine string `json:"cuisine,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

type Lodging struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	City string `json:"city,omitempty"`
}

// ContextBundle is the joined result of all lookups for one request.
// Coords is nil when the destination could not be geocoded.
type ContextBundle struct {
	Coords  *Coordinates
	Places  []Place
	Dining  []Diner
	Lodging []Lodging
}

// Catalogue records loaded by the ingestor.

type CatalogPlace struct {
	ExternalID  string
	Name        string
	State       string
	Description string
	Attractions []Attraction
}

type Attraction struct {
	ExternalID  string
	Name        string
	Description string
}
