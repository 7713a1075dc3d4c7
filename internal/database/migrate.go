// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending schema migrations.
func RunMigrations(db *sql.DB) error {
	return withGoose(db, goose.Up)
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *sql.DB) error {
	return withGoose(db, goose.Down)
}

func withGoose(db *sql.DB, apply func(*sql.DB, string, ...goose.OptionsFunc) error) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return apply(db, "migrations")
}
