package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	goose "github.com/pressly/goose/v3"

	"github.com/BMMUGOMBA/terminal-pulse/migrations"

	_ "modernc.org/sqlite" //nolint:blank-imports
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

// Open returns a single-connection handle so transactions never interleave.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		_, err = db.ExecContext(ctx, pragma)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return db, nil
}

func UpMigrations(ctx context.Context, db *sql.DB) error {
	return migrations.Up(ctx, db, goose.DialectSQLite3, migrations.SQLiteDir)
}
