package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trip_planner/internal/domain"
)

var ErrMissingName = errors.New("place has no name")

type IngestionService struct {
	repo domain.CatalogWriter
}

func NewIngestionService(r domain.CatalogWriter) *IngestionService {
	return &IngestionService{repo: r}
}

// IngestPlace upserts a destination and replaces its attraction list.
func (s *IngestionService) IngestPlace(ctx context.Context, p domain.CatalogPlace) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("place %q: %w", p.ExternalID, ErrMissingName)
	}

	// Parent first so attractions satisfy the FK.
	id, err := s.repo.UpsertPlace(ctx, p)
	if err != nil {
		return fmt.Errorf("upsert place %q: %w", p.Name, err)
	}

	// Unnamed spots carry nothing the planner can use.
	keep := make([]domain.Attraction, 0, len(p.Attractions))
	for _, a := range p.Attractions {
		if strings.TrimSpace(a.Name) != "" {
			keep = append(keep, a)
		}
	}
	if err := s.repo.ReplaceAttractions(ctx, id, keep); err != nil {
		return fmt.Errorf("replace attractions for %q: %w", p.Name, err)
	}
	return nil
}
