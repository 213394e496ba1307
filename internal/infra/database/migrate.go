package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/barisuyucak/nobetpazari/internal/infra/config"
	"github.com/barisuyucak/nobetpazari/internal/infra/database/migrations"
)

// RunMigrations applies the embedded schema migrations through a short-lived
// database/sql connection; the pgx pool stays untouched.
func RunMigrations(ctx context.Context, cfg config.PostgresSettings) error {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
