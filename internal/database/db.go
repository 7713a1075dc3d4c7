// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package database opens the SQLite store and keeps its schema current.
package database

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vinovest/sqlx"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

const defaultDSN = "./data/catalog.db"

// connPragmas are passed through the DSN so every connection in the pool
// gets them, not only the first one opened.
var connPragmas = []string{
	"journal_mode(wal)",
	"synchronous(normal)",
	"busy_timeout(10000)",
	"foreign_keys(on)",
	"temp_store(memory)",
	"cache_size(-20000)",
}

// Open connects to the SQLite database, applies the connection pragmas
// and brings the schema up to date.
func Open(dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		dsn = defaultDSN
	}

	if path := filePath(dsn); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, err
		}
	}

	conn, err := sqlx.Connect("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	if err := RunMigrations(conn.DB); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

// filePath returns the on-disk path of a file-backed DSN, or "" for an
// in-memory database.
func filePath(dsn string) string {
	if strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path, _, _ := strings.Cut(dsn, "?")
	return strings.TrimPrefix(path, "file:")
}

// withPragmas appends the connection pragmas and an immediate transaction
// lock to the DSN.
func withPragmas(dsn string) string {
	var b strings.Builder
	b.WriteString(dsn)

	sep := byte('?')
	if strings.ContainsRune(dsn, '?') {
		sep = '&'
	}
	for _, pragma := range connPragmas {
		b.WriteByte(sep)
		b.WriteString("_pragma=")
		b.WriteString(pragma)
		sep = '&'
	}
	if !strings.Contains(dsn, "_txlock") {
		b.WriteString("&_txlock=immediate")
	}

	return b.String()
}
