// Package migrations compiles the run history schema files into the
// binary and registers them with the database package, so the daemon
// never depends on SQL files being present on disk.
package migrations

import (
	"embed"

	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // files sit at the root of the embedded FS
}
