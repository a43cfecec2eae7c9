package osm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"trip_planner/internal/domain"
)

type overpassResponse struct {
	Elements []struct {
		Type string            `json:"type"`
		ID   int64             `json:"id"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

const (
	restaurantFilter = `["amenity"="restaurant"]["name"]`
	stayFilter       = `["tourism"~"^(hotel|guest_house|hostel|motel|apartment)$"]["name"]`
)

func (c *Client) query(ctx context.Context, endpoint, filter string, lat, lon float64) (overpassResponse, error) {
	q := fmt.Sprintf("[out:json][timeout:25];nwr%s(around:%d,%s,%s);out tags %d;",
		filter, c.radius, coord(lat), coord(lon), c.limit)
	var out overpassResponse
	err := c.do(ctx, call{
		service:  serviceOverpass,
		endpoint: endpoint,
		method:   http.MethodPost,
		url:      c.overpass + "/interpreter",
		form:     url.Values{"data": {q}},
	}, &out)
	return out, err
}

// RestaurantsNear returns named restaurants around the point.
func (c *Client) RestaurantsNear(ctx context.Context, lat, lon float64) ([]domain.Diner, error) {
	resp, err := c.query(ctx, "restaurants", restaurantFilter, lat, lon)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Diner, 0, len(resp.Elements))
	for _, e := range resp.Elements {
		name := strings.TrimSpace(e.Tags["name"])
		if name == "" {
			continue
		}
		out = append(out, domain.Diner{
			Name:    name,
			Cuisine: humanize(e.Tags["cuisine"]),
			Address: address(e.Tags),
			City:    e.Tags["addr:city"],
		})
		if len(out) == c.limit {
			break
		}
	}
	return out, nil
}

// StaysNear returns named hotels, guest houses and hostels around the point.
func (c *Client) StaysNear(ctx context.Context, lat, lon float64) ([]domain.Lodging, error) {
	resp, err := c.query(ctx, "stays", stayFilter, lat, lon)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Lodging, 0, len(resp.Elements))
	for _, e := range resp.Elements {
		name := strings.TrimSpace(e.Tags["name"])
		if name == "" {
			continue
		}
		out = append(out, domain.Lodging{
			Name: name,
			Type: humanize(e.Tags["tourism"]),
			City: e.Tags["addr:city"],
		})
		if len(out) == c.limit {
			break
		}
	}
	return out, nil
}

// address prefers addr:full, else "housenumber street".
func address(tags map[string]string) string {
	if full := strings.TrimSpace(tags["addr:full"]); full != "" {
		return full
	}
	return strings.TrimSpace(strings.TrimSpace(tags["addr:housenumber"]) + " " + strings.TrimSpace(tags["addr:street"]))
}

// humanize turns OSM values like "guest_house" or "indian;seafood" into
// "guest house" / "indian, seafood".
func humanize(v string) string {
	v = strings.ReplaceAll(v, "_", " ")
	parts := strings.Split(v, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Trim(strings.Join(parts, ", "), ", ")
}
