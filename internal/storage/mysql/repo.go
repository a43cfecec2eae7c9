package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"trip_planner/internal/adapters/observability"
	"trip_planner/internal/domain"
)

func valStr(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Catalog is the destination catalogue: written by the ingestor and read by
// the API as a places provider.
type Catalog struct {
	db    *sql.DB
	limit int
}

func New(db *sql.DB, limit int) *Catalog {
	if limit <= 0 {
		limit = 10
	}
	return &Catalog{db: db, limit: limit}
}

func (c *Catalog) UpsertPlace(ctx context.Context, p domain.CatalogPlace) (int64, error) {
	res, err := c.db.ExecContext(ctx, upsertPlaceSQL,
		p.ExternalID,
		strings.TrimSpace(p.Name),
		valStr(p.State),
		valStr(p.Description),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (c *Catalog) ReplaceAttractions(ctx context.Context, placeID int64, as []domain.Attraction) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteAttractionsSQL, placeID); err != nil {
		return fmt.Errorf("delete attractions: %w", err)
	}
	if len(as) > 0 {
		values := make([]string, 0, len(as))
		args := make([]any, 0, len(as)*5) // 5 params per row
		for i, a := range as {
			values = append(values, "(?,?,?,?,?)")
			args = append(args,
				placeID,
				valStr(a.ExternalID),
				strings.TrimSpace(a.Name),
				valStr(a.Description),
				i,
			)
		}
		if _, err := tx.ExecContext(ctx, insertAttractionsPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert attractions: %w", err)
		}
	}
	return tx.Commit()
}

// LookupByName returns the catalogued attractions for a destination. An
// unknown destination yields an empty list.
func (c *Catalog) LookupByName(ctx context.Context, name string) ([]domain.Place, error) {
	start := time.Now()
	rows, err := c.db.QueryContext(ctx, attractionsByPlaceSQL, strings.TrimSpace(name), c.limit)
	if err != nil {
		observability.ObserveExternal("mysql", "attractions", 500, time.Since(start))
		return nil, err
	}
	defer rows.Close()

	out := []domain.Place{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, domain.Place{Name: n})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	observability.ObserveExternal("mysql", "attractions", 200, time.Since(start))
	return out, nil
}
