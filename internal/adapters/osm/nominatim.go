package osm

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"trip_planner/internal/domain"
)

// searchResult mirrors the parts of the Nominatim jsonv2 search payload we use.
type searchResult struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

func (c *Client) search(ctx context.Context, q string, limit int) ([]searchResult, error) {
	v := url.Values{}
	v.Set("q", q)
	v.Set("format", "jsonv2")
	v.Set("limit", strconv.Itoa(limit))
	var out []searchResult
	err := c.do(ctx, call{
		service:  serviceNominatim,
		endpoint: "search",
		method:   http.MethodGet,
		url:      c.nominatim + "/search?" + v.Encode(),
	}, &out)
	return out, err
}

// Resolve geocodes a destination. No match is not an error: it returns nil.
func (c *Client) Resolve(ctx context.Context, name string) (*domain.Coordinates, error) {
	rs, err := c.search(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, nil
	}
	lat, err1 := strconv.ParseFloat(rs[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(rs[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &domain.Coordinates{Lat: lat, Lon: lon}, nil
}

// LookupByName lists attractions Nominatim knows for the destination.
func (c *Client) LookupByName(ctx context.Context, name string) ([]domain.Place, error) {
	rs, err := c.search(ctx, "tourist attractions in "+name, c.limit)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(rs))
	out := make([]domain.Place, 0, len(rs))
	for _, r := range rs {
		n := strings.TrimSpace(r.Name)
		if n == "" {
			// display_name starts with the feature's own name
			n = strings.TrimSpace(strings.SplitN(r.DisplayName, ",", 2)[0])
		}
		key := strings.ToLower(n)
		if n == "" || strings.EqualFold(n, name) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.Place{Name: n})
	}
	return out, nil
}
