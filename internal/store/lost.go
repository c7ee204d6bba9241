package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/lostfound/internal/model"
)

const lostColumns = "id, name, description, color, location, status, reporter_id, created_at"

// NewLostItem holds the fields a reporter supplies for a lost item.
type NewLostItem struct {
	Name        string
	Description string
	Color       string
	Location    string
	ReporterID  *int64
}

// CreateLostItem stores a new open lost-item report.
func CreateLostItem(ctx context.Context, db *sql.DB, in NewLostItem) (*model.LostItem, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO lost_items (id, name, description, color, location, status, reporter_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, in.Name, in.Description, in.Color, in.Location, model.ItemStatusOpen, nullableID(in.ReporterID),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lost item: %w", err)
	}
	return GetLostItem(ctx, db, id)
}

// GetLostItem returns a lost item by ID, or nil if it does not exist.
func GetLostItem(ctx context.Context, db *sql.DB, id string) (*model.LostItem, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+lostColumns+` FROM lost_items WHERE id = ?`, id,
	)
	item, err := scanLostItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting lost item: %w", err)
	}
	return item, nil
}

// ListLostItems returns lost items matching the filter.
func ListLostItems(ctx context.Context, db *sql.DB, f Filter) ([]model.LostItem, error) {
	rows, err := queryBuilder(ctx, db, f.apply(sq.Select(lostColumns).From("lost_items")))
	if err != nil {
		return nil, fmt.Errorf("listing lost items: %w", err)
	}
	defer rows.Close()

	var items []model.LostItem
	for rows.Next() {
		item, err := scanLostItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lost item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetLostItemStatus changes a lost item's status. It reports whether the
// item existed.
func SetLostItemStatus(ctx context.Context, db *sql.DB, id, status string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE lost_items SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return false, fmt.Errorf("setting lost item status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking updated rows: %w", err)
	}
	return n > 0, nil
}

func scanLostItem(row rowScanner) (*model.LostItem, error) {
	var (
		item                         model.LostItem
		description, color, location sql.NullString
		reporter                     sql.NullInt64
	)
	if err := row.Scan(&item.ID, &item.Name, &description, &color, &location, &item.Status, &reporter, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Color = color.String
	item.Location = location.String
	item.ReporterID = reporterID(reporter)
	return &item, nil
}
