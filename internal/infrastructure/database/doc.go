// Package database provides the SQLite store behind the brightness run
// history.
//
// Open configures WAL journaling and a busy timeout so the history
// subcommand can read while the daemon writes, and pins the pool to a
// single connection since SQLite allows one writer. The database file is
// created owner-only (0600).
//
// Schema changes ship as embedded *.up.sql files and are applied
// forward-only by Migrate on every startup, tracked in a
// schema_migrations ledger. There is no rollback path; a bad step is
// fixed by shipping the next step.
//
//	db, err := database.Open(database.Config{Path: path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
