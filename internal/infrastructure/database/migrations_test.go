package database

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"
)

// swapMigrations points the runner at an in-memory FS for one test.
func swapMigrations(t *testing.T, fsys fs.FS) {
	t.Helper()

	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})
	MigrationsFS = fsys
	MigrationsDir = "."
}

func sqlFile(stmt string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(stmt)}
}

// ledgerVersions reads schema_migrations in apply order.
func ledgerVersions(t *testing.T, db *DB) []string {
	t.Helper()

	rows, err := db.QueryContext(context.Background(),
		"SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		t.Fatalf("reading ledger: %v", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scanning ledger: %v", err)
		}
		versions = append(versions, v)
	}
	return versions
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()

	var got string
	err := db.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", name,
	).Scan(&got)
	return err == nil
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies steps in version order", func(t *testing.T) {
		// Directory order differs from version order on purpose.
		swapMigrations(t, fstest.MapFS{
			"20260301_000000_add_seasons.up.sql": sqlFile(
				"ALTER TABLE passes ADD COLUMN season TEXT NOT NULL DEFAULT ''"),
			"20260215_000000_create_passes.up.sql": sqlFile(
				"CREATE TABLE passes (id INTEGER PRIMARY KEY, started_at TEXT NOT NULL)"),
		})
		db := openTestDB(t, true)

		if err := db.Migrate(ctx); err != nil {
			t.Fatalf("Migrate() error: %v", err)
		}

		if !tableExists(t, db, "passes") {
			t.Error("passes table not created")
		}
		got := ledgerVersions(t, db)
		want := []string{"20260215_000000", "20260301_000000"}
		if len(got) != len(want) {
			t.Fatalf("ledger = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("ledger[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("second run applies nothing", func(t *testing.T) {
		swapMigrations(t, fstest.MapFS{
			"20260215_000000_create_passes.up.sql": sqlFile(
				"CREATE TABLE passes (id INTEGER PRIMARY KEY)"),
		})
		db := openTestDB(t, true)

		if err := db.Migrate(ctx); err != nil {
			t.Fatalf("first Migrate() error: %v", err)
		}
		if err := db.Migrate(ctx); err != nil {
			t.Fatalf("second Migrate() error: %v", err)
		}
		if got := ledgerVersions(t, db); len(got) != 1 {
			t.Errorf("ledger after two runs = %v, want one entry", got)
		}
	})

	t.Run("failing step keeps earlier steps applied", func(t *testing.T) {
		swapMigrations(t, fstest.MapFS{
			"20260215_000000_create_passes.up.sql": sqlFile(
				"CREATE TABLE passes (id INTEGER PRIMARY KEY)"),
			"20260301_000000_broken.up.sql": sqlFile(
				"ALTER TABLE missing ADD COLUMN season TEXT"),
		})
		db := openTestDB(t, true)

		if err := db.Migrate(ctx); err == nil {
			t.Fatal("Migrate() with broken step expected error, got nil")
		}
		if !tableExists(t, db, "passes") {
			t.Error("earlier step was not applied")
		}
		if got := ledgerVersions(t, db); len(got) != 1 || got[0] != "20260215_000000" {
			t.Errorf("ledger = %v, want only 20260215_000000", got)
		}
	})

	t.Run("ignores files that are not migrations", func(t *testing.T) {
		swapMigrations(t, fstest.MapFS{
			"20260215_000000_create_passes.up.sql": sqlFile(
				"CREATE TABLE passes (id INTEGER PRIMARY KEY)"),
			"README.md":  sqlFile("not sql"),
			"notes.sql":  sqlFile("SELECT broken FROM"),
			"schema.bak": sqlFile("CREATE TABLE junk (id INTEGER)"),
		})
		db := openTestDB(t, true)

		if err := db.Migrate(ctx); err != nil {
			t.Fatalf("Migrate() error: %v", err)
		}
		if got := ledgerVersions(t, db); len(got) != 1 {
			t.Errorf("ledger = %v, want one entry", got)
		}
		if tableExists(t, db, "junk") {
			t.Error("non-migration file was executed")
		}
	})

	t.Run("nil filesystem is a no-op", func(t *testing.T) {
		swapMigrations(t, nil)
		db := openTestDB(t, true)

		if err := db.Migrate(ctx); err != nil {
			t.Errorf("Migrate() with nil FS error: %v", err)
		}
		if tableExists(t, db, "schema_migrations") {
			t.Error("ledger created with nil FS")
		}
	})
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantOK      bool
	}{
		{"20260215_000000_run_history.up.sql", "20260215_000000", "run_history", true},
		{"20260301_120000_add_seasons.up.sql", "20260301_120000", "add_seasons", true},
		{"20260215_000000_run_history.down.sql", "", "", false},
		{"run_history.up.sql", "", "", false},
		{"20260215_history.up.sql", "", "", false},
		{"README.md", "", "", false},
		{".up.sql", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if version != tt.wantVersion || name != tt.wantName {
				t.Errorf("parsed %q/%q, want %q/%q", version, name, tt.wantVersion, tt.wantName)
			}
		})
	}
}
