package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/lostfound/internal/db"
)

func TestRevokeToken_LogoutRevokesOnlyThatSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, RevokeToken(ctx, database, "finder-session", time.Now().Add(time.Hour)))
	// Logging out twice is harmless.
	require.NoError(t, RevokeToken(ctx, database, "finder-session", time.Now().Add(time.Hour)))

	revoked, err := IsTokenRevoked(ctx, database, "finder-session")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = IsTokenRevoked(ctx, database, "owner-session")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestPurgeRevokedTokens_DropsOnlyExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	now := time.Now()

	_, err := database.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?), (?, ?)`,
		"stale", now.Add(-time.Minute), "live", now.Add(time.Hour),
	)
	require.NoError(t, err)

	n, err := PurgeRevokedTokens(ctx, database, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	revoked, err := IsTokenRevoked(ctx, database, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = IsTokenRevoked(ctx, database, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokeToken_PurgesExpiredOnTheWay(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := database.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		"yesterday", time.Now().Add(-24*time.Hour),
	)
	require.NoError(t, err)

	require.NoError(t, RevokeToken(ctx, database, "today", time.Now().Add(time.Hour)))

	var count int
	require.NoError(t, database.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens`).Scan(&count))
	assert.Equal(t, 1, count)
}
