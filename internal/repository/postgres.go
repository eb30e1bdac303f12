package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/store"
)

const kvTable = "kv_entries"

// PostgresStorage keeps every key as one row of kv_entries.
type PostgresStorage struct {
	db *pgxpool.Pool
}

func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{db: pool}
}

func (r *PostgresStorage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	return r.get(ctx, r.db, namespace, key, false)
}

func (r *PostgresStorage) Put(ctx context.Context, namespace, key string, value []byte) error {
	return r.put(ctx, r.db, namespace, key, value)
}

func (r *PostgresStorage) Delete(ctx context.Context, namespace, key string) error {
	q, args, err := sq.Delete(kvTable).
		Where(sq.Eq{"namespace": namespace, "key": key}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	_, err = r.db.Exec(ctx, q, args...)
	if err != nil {
		return err
	}

	return nil
}

// Update locks the key for the duration of the transaction. The advisory lock
// also serializes writers of a key that has no row yet.
func (r *PostgresStorage) Update(ctx context.Context, namespace, key string, fn store.UpdateFunc) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", namespace+"/"+key)
	if err != nil {
		return fmt.Errorf("lock key: %w", err)
	}

	current, err := r.get(ctx, tx, namespace, key, true)

	found := err == nil
	if err != nil && !errors.Is(err, entity.ErrKeyNotFound) {
		return err
	}

	value, err := fn(current, found)
	if err != nil {
		return err
	}

	err = r.put(ctx, tx, namespace, key, value)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresStorage) Clear(ctx context.Context, namespace string) error {
	q, args, err := sq.Delete(kvTable).
		Where(sq.Eq{"namespace": namespace}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	_, err = r.db.Exec(ctx, q, args...)
	if err != nil {
		return err
	}

	return nil
}

// pgxQuerier is satisfied by both the pool and a transaction.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PostgresStorage) get(ctx context.Context, db pgxQuerier, namespace, key string, forUpdate bool) ([]byte, error) {
	stmt := sq.Select("value").
		From(kvTable).
		Where(sq.Eq{"namespace": namespace, "key": key}).
		PlaceholderFormat(sq.Dollar)

	if forUpdate {
		stmt = stmt.Suffix("FOR UPDATE")
	}

	q, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var value []byte

	err = db.QueryRow(ctx, q, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrKeyNotFound
	}

	if err != nil {
		return nil, err
	}

	return value, nil
}

func (r *PostgresStorage) put(ctx context.Context, db pgxQuerier, namespace, key string, value []byte) error {
	q, args, err := sq.Insert(kvTable).
		Columns("namespace", "key", "value", "updated_at").
		Values(namespace, key, value, time.Now().UTC()).
		Suffix("ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	_, err = db.Exec(ctx, q, args...)
	if err != nil {
		return err
	}

	return nil
}
