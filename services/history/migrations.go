package history

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/careerclimb/careerclimb/pkg/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the history schema migrations.
func Migrate(ctx context.Context, db *database.DB, logger *slog.Logger) error {
	m := database.NewMigrator(db, "history").WithLogger(logger)
	if err := m.LoadMigrations(migrationsFS, "migrations"); err != nil {
		return fmt.Errorf("failed to load history migrations: %w", err)
	}
	return m.Up(ctx)
}
