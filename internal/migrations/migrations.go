package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

const tableName = "schema_migrations"

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, "up")
}

// Down rolls back the latest migration.
func Down(ctx context.Context, db *sql.DB) error {
	return run(ctx, db, "down")
}

func run(ctx context.Context, db *sql.DB, command string) error {
	goose.SetBaseFS(FS)
	goose.SetTableName(tableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, "."); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
