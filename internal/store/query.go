package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	sq "github.com/Masterminds/squirrel"
)

// Filter narrows list queries. Zero values match everything.
type Filter struct {
	Status      string
	ReporterID  int64
	NewestFirst bool
	Limit       uint64
}

// apply adds the filter's conditions to a select builder.
func (f Filter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	if f.ReporterID != 0 {
		b = b.Where(sq.Eq{"reporter_id": f.ReporterID})
	}
	if f.NewestFirst {
		b = b.OrderBy("created_at DESC", "rowid DESC")
	} else {
		b = b.OrderBy("created_at", "rowid")
	}
	if f.Limit > 0 {
		b = b.Limit(f.Limit)
	}
	return b
}

// queryBuilder renders a squirrel builder and runs it.
func queryBuilder(ctx context.Context, db *sql.DB, b sq.SelectBuilder) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return db.QueryContext(ctx, query, args...)
}

// coordinate converts a raw column value into a finite float. Rows written by
// other tools may hold NULL, text or blobs here; those come back as nil.
func coordinate(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int64:
		f = float64(n)
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func reporterID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}
