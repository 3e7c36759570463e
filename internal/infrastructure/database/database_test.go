package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// openTestDB opens a fresh database under a temp directory.
func openTestDB(t *testing.T, wal bool) *DB {
	t.Helper()

	db, err := Open(Config{
		Path:        filepath.Join(t.TempDir(), "history", "runs.db"),
		WALMode:     wal,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		db := openTestDB(t, true)

		if _, err := os.Stat(filepath.Dir(db.Path())); err != nil {
			t.Errorf("database directory not created: %v", err)
		}
	})

	t.Run("wal mode enables the wal journal", func(t *testing.T) {
		db := openTestDB(t, true)

		var mode string
		if err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("reading journal_mode: %v", err)
		}
		if !strings.EqualFold(mode, "wal") {
			t.Errorf("journal_mode = %q, want wal", mode)
		}
	})

	t.Run("foreign keys are always on", func(t *testing.T) {
		db := openTestDB(t, false)

		var fk int
		if err := db.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("reading foreign_keys: %v", err)
		}
		if fk != 1 {
			t.Errorf("foreign_keys = %d, want 1", fk)
		}
	})
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			"without wal",
			Config{Path: "/var/lib/emb/runs.db", BusyTimeout: 5},
			"file:/var/lib/emb/runs.db?_busy_timeout=5000&_foreign_keys=on",
		},
		{
			"with wal",
			Config{Path: "runs.db", WALMode: true, BusyTimeout: 2},
			"file:runs.db?_busy_timeout=2000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dsn(tt.cfg); got != tt.want {
				t.Errorf("dsn() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t, true)

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error: %v", err)
	}

	db.Close()
	if err := db.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() after Close expected error, got nil")
	}
}

func TestClose(t *testing.T) {
	t.Run("nil connection is safe", func(t *testing.T) {
		db := &DB{}
		if err := db.Close(); err != nil {
			t.Errorf("Close() on zero DB error: %v", err)
		}
	})

	t.Run("double close is safe", func(t *testing.T) {
		db := openTestDB(t, true)
		if err := db.Close(); err != nil {
			t.Fatalf("first Close() error: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Errorf("second Close() error: %v", err)
		}
	})
}

func TestExecContext(t *testing.T) {
	db := openTestDB(t, true)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "CREATE TABLE passes (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("ExecContext(create) error: %v", err)
	}

	res, err := db.ExecContext(ctx, "INSERT INTO passes (id) VALUES (1)")
	if err != nil {
		t.Fatalf("ExecContext(insert) error: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Errorf("RowsAffected = %d, want 1", n)
	}

	if _, err := db.ExecContext(ctx, "INSERT INTO nope VALUES (1)"); err == nil {
		t.Error("ExecContext on missing table expected error, got nil")
	}
}

func TestBeginTx(t *testing.T) {
	db := openTestDB(t, true)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "CREATE TABLE passes (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("creating table: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx() error: %v", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO passes (id) VALUES (1)"); err != nil {
		t.Fatalf("insert in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM passes").Scan(&count); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if count != 0 {
		t.Errorf("rows after rollback = %d, want 0", count)
	}
}
