package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// RevokeToken records a session token's JTI so logout takes effect before the
// token expires. Revocations that have outlived their token are purged on the
// way; a failed purge is logged and does not fail the logout.
func RevokeToken(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	if n, err := PurgeRevokedTokens(ctx, db, time.Now()); err != nil {
		slog.Warn("purging expired revocations", "error", err)
	} else if n > 0 {
		slog.Debug("purged expired revocations", "count", n)
	}
	return nil
}

// PurgeRevokedTokens deletes revocations whose token expired before now and
// returns how many were removed.
func PurgeRevokedTokens(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, now,
	)
	if err != nil {
		return 0, fmt.Errorf("purging revoked tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging revoked tokens: %w", err)
	}
	return n, nil
}

// IsTokenRevoked reports whether a session token's JTI has been revoked.
func IsTokenRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var revoked bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}
