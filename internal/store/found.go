package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/lostfound/internal/model"
)

const foundColumns = "id, name, image_url, lat, lng, status, reporter_id, created_at"

// NewFoundItem holds the fields a reporter supplies for a found item.
type NewFoundItem struct {
	Name       string
	ImageURL   string
	Location   model.PickedLocation
	ReporterID *int64
}

// CreateFoundItem stores a new open found-item report.
func CreateFoundItem(ctx context.Context, db *sql.DB, in NewFoundItem) (*model.FoundItem, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO found_items (id, name, image_url, lat, lng, status, reporter_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, in.Name, in.ImageURL, in.Location.Lat, in.Location.Lng, model.ItemStatusOpen, nullableID(in.ReporterID),
	)
	if err != nil {
		return nil, fmt.Errorf("creating found item: %w", err)
	}
	return GetFoundItem(ctx, db, id)
}

// GetFoundItem returns a found item by ID, or nil if it does not exist.
func GetFoundItem(ctx context.Context, db *sql.DB, id string) (*model.FoundItem, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+foundColumns+` FROM found_items WHERE id = ?`, id,
	)
	item, err := scanFoundItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting found item: %w", err)
	}
	return item, nil
}

// ListFoundItems returns found items matching the filter, oldest first unless
// the filter asks otherwise. Items with unusable coordinates are included
// with nil Lat/Lng.
func ListFoundItems(ctx context.Context, db *sql.DB, f Filter) ([]model.FoundItem, error) {
	rows, err := queryBuilder(ctx, db, f.apply(sq.Select(foundColumns).From("found_items")))
	if err != nil {
		return nil, fmt.Errorf("listing found items: %w", err)
	}
	defer rows.Close()

	var items []model.FoundItem
	for rows.Next() {
		item, err := scanFoundItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning found item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetFoundItemStatus changes a found item's status. It reports whether the
// item existed.
func SetFoundItemStatus(ctx context.Context, db *sql.DB, id, status string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE found_items SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return false, fmt.Errorf("setting found item status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking updated rows: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFoundItem(row rowScanner) (*model.FoundItem, error) {
	var (
		item     model.FoundItem
		imageURL sql.NullString
		lat, lng any
		reporter sql.NullInt64
	)
	if err := row.Scan(&item.ID, &item.Name, &imageURL, &lat, &lng, &item.Status, &reporter, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.ImageURL = imageURL.String
	item.Lat = coordinate(lat)
	item.Lng = coordinate(lng)
	item.ReporterID = reporterID(reporter)
	return &item, nil
}
