package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"trip_planner/internal/domain"
)

/********** alias registries (single source of truth) **********/

var placeAliases = map[string][]string{
	"id":          {"place_id", "id", "placeId"},
	"name":        {"place_name", "name", "city", "destination"},
	"state":       {"state", "region", "address.state"},
	"description": {"description", "summary", "about"},
}

var attractionAliases = map[string][]string{
	"id":          {"spot_id", "id", "attraction_id"},
	"name":        {"spot_name", "name", "title"},
	"description": {"description", "summary"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the value at path as a string; ids are often numbers.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// firstAlias: first non-empty string for a named alias set.
func firstAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

/********** catalogue mapper **********/

// DecodeCatalog reads the destination catalogue export: a JSON array of
// places, each with an "attractions" list.
func DecodeCatalog(r io.Reader) ([]domain.CatalogPlace, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	out := make([]domain.CatalogPlace, 0, len(raw))
	for i, p := range raw {
		cp := mapPlace(p)
		if cp.ExternalID == "" {
			// stable fallback so re-runs upsert instead of duplicating
			cp.ExternalID = "idx-" + strconv.Itoa(i)
			log.Warn().Int("index", i).Str("name", cp.Name).Msg("catalogue place without id")
		}
		out = append(out, cp)
	}
	return out, nil
}

func mapPlace(p map[string]any) domain.CatalogPlace {
	cp := domain.CatalogPlace{
		ExternalID:  firstAlias(p, placeAliases, "id"),
		Name:        firstAlias(p, placeAliases, "name"),
		State:       firstAlias(p, placeAliases, "state"),
		Description: firstAlias(p, placeAliases, "description"),
	}
	for _, key := range []string{"attractions", "tourist_spots", "spots"} {
		items, ok := lookupAny(p, key).([]any)
		if !ok {
			continue
		}
		for _, it := range items {
			switch a := it.(type) {
			case map[string]any:
				cp.Attractions = append(cp.Attractions, domain.Attraction{
					ExternalID:  firstAlias(a, attractionAliases, "id"),
					Name:        firstAlias(a, attractionAliases, "name"),
					Description: firstAlias(a, attractionAliases, "description"),
				})
			case string:
				cp.Attractions = append(cp.Attractions, domain.Attraction{Name: strings.TrimSpace(a)})
			}
		}
		break
	}
	return cp
}
