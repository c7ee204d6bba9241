package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenAppliesPragmasToEveryConnection(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, filepath.Join(t.TempDir(), "lostfound.sqlite3"), Options{BusyTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	// Hold two connections at once so the pool has to open a second one.
	for i := range 2 {
		conn, err := database.Conn(ctx)
		if err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		defer conn.Close()

		var fk, timeout int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d foreign_keys: %v", i, err)
		}
		if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("conn %d busy_timeout: %v", i, err)
		}
		if fk != 1 {
			t.Errorf("conn %d: foreign_keys = %d, want 1", i, fk)
		}
		if timeout != 2000 {
			t.Errorf("conn %d: busy_timeout = %d, want 2000", i, timeout)
		}
	}
}

func TestReportsNeedKnownReporter(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.ExecContext(context.Background(),
		`INSERT INTO lost_items (id, name, status, reporter_id, created_at) VALUES ('l1', 'Wallet', 'open', 42, CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Fatal("expected foreign key violation for unknown reporter")
	}
}

func TestOpenUnreachablePath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "db.sqlite3"), Options{})
	if err == nil {
		t.Fatal("expected error for a path in a missing directory")
	}
}
