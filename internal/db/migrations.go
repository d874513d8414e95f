package db

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed migrations
var migrationsFS embed.FS

// DevMode loads migrations from the working tree instead of the embedded
// copy, so schema work does not need a rebuild. Set from the server's
// -dev flag.
var DevMode = false

// getMigrationsFS returns the filesystem holding the migration files
// (uses the embedded FS in production, local files in dev).
func getMigrationsFS() (fs.FS, error) {
	if DevMode {
		const devDir = "internal/db/migrations"
		if _, err := os.Stat(devDir); err != nil {
			return nil, fmt.Errorf("dev migrations directory not available: %w", err)
		}
		return os.DirFS(devDir), nil
	}

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to access embedded migrations: %w", err)
	}
	return sub, nil
}
