package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goose "github.com/pressly/goose/v3"

	"github.com/BMMUGOMBA/terminal-pulse/migrations"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib" //nolint:blank-imports
)

const retryDelay = 500 * time.Millisecond

// Connect opens the kv_entries pool and waits until the server answers.
func Connect(ctx context.Context, cfg config.Postgres) (*pgxpool.Pool, error) {
	dbCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	dbCfg.MaxConns = cfg.MaxConn

	pool, err := pgxpool.NewWithConfig(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	attempts := max(cfg.ConnectAttempts, 1)

	for attempt := 1; ; attempt++ {
		err = pool.Ping(ctx)
		if err == nil {
			return pool, nil
		}

		if attempt == attempts {
			break
		}

		slog.WarnContext(ctx, "Postgres is not ready", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	pool.Close()

	return nil, fmt.Errorf("ping after %d attempts: %w", attempts, err)
}

func UpMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}

	defer db.Close()

	return migrations.Up(ctx, db, goose.DialectPostgres, migrations.PostgresDir)
}
