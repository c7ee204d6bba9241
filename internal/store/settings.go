package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

const jwtSecretKey = "jwt_secret"

// GetJWTSecret returns the key that signs session tokens for both the web
// pages and the JSON API, generating and persisting one on first start.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	return settingOrDefault(ctx, db, jwtSecretKey, hex.EncodeToString(buf))
}

// settingOrDefault stores value under key unless the key is already set and
// returns whichever value ends up stored. Two processes starting against the
// same database therefore agree on one value.
func settingOrDefault(ctx context.Context, db *sql.DB, key, value string) (string, error) {
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value,
	); err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}

	var stored string
	if err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&stored); err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return stored, nil
}
