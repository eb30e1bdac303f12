package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/store"
)

// SQLiteStorage keeps every key as one row of kv_entries. The database must
// be opened with a single connection, which serializes transactions.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(db *sql.DB) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteStorage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	return r.get(ctx, r.db, namespace, key)
}

func (r *SQLiteStorage) Put(ctx context.Context, namespace, key string, value []byte) error {
	return r.put(ctx, r.db, namespace, key, value)
}

func (r *SQLiteStorage) Delete(ctx context.Context, namespace, key string) error {
	q, args, err := sq.Delete(kvTable).Where(sq.Eq{"namespace": namespace, "key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	_, err = r.db.ExecContext(ctx, q, args...)

	return err
}

func (r *SQLiteStorage) Update(ctx context.Context, namespace, key string, fn store.UpdateFunc) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	current, err := r.get(ctx, tx, namespace, key)

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

	return tx.Commit()
}

func (r *SQLiteStorage) Clear(ctx context.Context, namespace string) error {
	q, args, err := sq.Delete(kvTable).Where(sq.Eq{"namespace": namespace}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	_, err = r.db.ExecContext(ctx, q, args...)

	return err
}

func (r *SQLiteStorage) get(ctx context.Context, db sqlQuerier, namespace, key string) ([]byte, error) {
	q, args, err := sq.Select("value").
		From(kvTable).
		Where(sq.Eq{"namespace": namespace, "key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var value []byte

	err = db.QueryRowContext(ctx, q, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrKeyNotFound
	}

	if err != nil {
		return nil, err
	}

	return value, nil
}

func (r *SQLiteStorage) put(ctx context.Context, db sqlQuerier, namespace, key string, value []byte) error {
	q, args, err := sq.Insert(kvTable).
		Columns("namespace", "key", "value", "updated_at").
		Values(namespace, key, value, time.Now().UTC()).
		Suffix("ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	_, err = db.ExecContext(ctx, q, args...)

	return err
}
