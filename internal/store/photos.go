package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CreatePhoto stores image bytes and returns the new photo's ID.
func CreatePhoto(ctx context.Context, db *sql.DB, data []byte, mime string) (string, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO photos (id, data, mime) VALUES (?, ?, ?)`,
		id, data, mime,
	)
	if err != nil {
		return "", fmt.Errorf("creating photo: %w", err)
	}
	return id, nil
}

// GetPhoto returns a photo's bytes and MIME type. Data is nil if the photo
// does not exist.
func GetPhoto(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM photos WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting photo: %w", err)
	}
	return data, mime, nil
}
