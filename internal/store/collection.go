package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

// Patch keys owned by the store.
var protectedFields = []string{"id", "createdAt", "updatedAt"}

type record[T any] interface {
	*T
	entity.Record
}

// Collection is one persisted array of records. Every write rewrites the
// whole array under a single backend update.
type Collection[T any, P record[T]] struct {
	store    *Store
	key      string
	fixtures func() []T
}

func newCollection[T any, P record[T]](s *Store, key string, fixtures func() []T) *Collection[T, P] {
	return &Collection[T, P]{store: s, key: key, fixtures: fixtures}
}

func (c *Collection[T, P]) Key() string { return c.key }

// List returns the collection in insertion order.
func (c *Collection[T, P]) List(ctx context.Context) ([]T, error) {
	return list(ctx, c.store, c.key, c.fixtures)
}

// Get returns entity.ErrNotFound when no record has the id.
func (c *Collection[T, P]) Get(ctx context.Context, id string) (T, error) {
	return c.Find(ctx, func(item *T) bool { return P(item).Base().ID == id })
}

// Find returns the first record matching pred.
func (c *Collection[T, P]) Find(ctx context.Context, pred func(*T) bool) (T, error) {
	var zero T

	items, err := c.List(ctx)
	if err != nil {
		return zero, err
	}

	for i := range items {
		if pred(&items[i]) {
			return items[i], nil
		}
	}

	return zero, entity.ErrNotFound
}

// Filter returns every record matching pred.
func (c *Collection[T, P]) Filter(ctx context.Context, pred func(*T) bool) ([]T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(items, func(item T) bool { return !pred(&item) }), nil
}

// Create stores item with fresh timestamps. An empty id is generated; a preset
// id must not collide with an existing record.
//
// When the write fails the stored form of item is still returned together
// with *entity.PersistenceError.
func (c *Collection[T, P]) Create(ctx context.Context, item T) (T, error) {
	return c.CreateChecked(ctx, item, nil)
}

// CreateChecked is Create with a guard evaluated against the stored records
// inside the same atomic update. A guard error aborts the insert.
func (c *Collection[T, P]) CreateChecked(ctx context.Context, item T, guard func(items []T) error) (T, error) {
	now := c.store.now()

	meta := P(&item).Base()
	if meta.ID == "" {
		meta.ID = newID(now)
	}

	meta.CreatedAt = now
	meta.UpdatedAt = now

	normalize(P(&item), now)

	err := modify(ctx, c.store, c.key, c.fixtures, func(items []T) ([]T, error) {
		if c.index(items, meta.ID) >= 0 {
			return nil, fmt.Errorf("%s %s: %w", c.key, meta.ID, entity.ErrAlreadyExists)
		}

		if guard != nil {
			err := guard(items)
			if err != nil {
				return nil, err
			}
		}

		return append(items, item), nil
	})
	if err != nil && !entity.IsPersistence(err) {
		var zero T
		return zero, err
	}

	return item, err
}

// Update shallow-merges fields over the record with the given id. Keys are
// JSON field names; id, createdAt and updatedAt are ignored.
func (c *Collection[T, P]) Update(ctx context.Context, id string, fields entity.Fields) (T, error) {
	return c.Mutate(ctx, id, func(item *T) error {
		merged, err := merge(*item, fields)
		if err != nil {
			return err
		}

		*item = merged

		return nil
	})
}

// Mutate applies fn to the record with the given id inside one atomic
// read-modify-write. An error from fn aborts the write.
func (c *Collection[T, P]) Mutate(ctx context.Context, id string, fn func(*T) error) (T, error) {
	var (
		zero    T
		updated T
	)

	err := modify(ctx, c.store, c.key, c.fixtures, func(items []T) ([]T, error) {
		i := c.index(items, id)
		if i < 0 {
			return nil, fmt.Errorf("%s %s: %w", c.key, id, entity.ErrNotFound)
		}

		item := items[i]
		meta := *P(&item).Base()

		err := fn(&item)
		if err != nil {
			return nil, err
		}

		now := c.store.now()
		*P(&item).Base() = entity.Meta{ID: meta.ID, CreatedAt: meta.CreatedAt, UpdatedAt: now}
		normalize(P(&item), now)

		items[i] = item
		updated = item

		return items, nil
	})
	if err != nil && !entity.IsPersistence(err) {
		return zero, err
	}

	return updated, err
}

// MutateAll applies fn to every record in one write. fn reports whether it
// changed the record; changed records get a fresh updatedAt and are returned.
func (c *Collection[T, P]) MutateAll(ctx context.Context, fn func(*T) bool) ([]T, error) {
	var changed []T

	err := modify(ctx, c.store, c.key, c.fixtures, func(items []T) ([]T, error) {
		changed = changed[:0]
		now := c.store.now()

		for i := range items {
			if !fn(&items[i]) {
				continue
			}

			P(&items[i]).Base().UpdatedAt = now
			normalize(P(&items[i]), now)
			changed = append(changed, items[i])
		}

		return items, nil
	})
	if err != nil && !entity.IsPersistence(err) {
		return nil, err
	}

	return changed, err
}

// Delete reports whether a record was removed.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	err := modify(ctx, c.store, c.key, c.fixtures, func(items []T) ([]T, error) {
		i := c.index(items, id)
		if i < 0 {
			return nil, entity.ErrNotFound
		}

		return slices.Delete(items, i, i+1), nil
	})

	switch {
	case errors.Is(err, entity.ErrNotFound):
		return false, nil
	case err != nil && !entity.IsPersistence(err):
		return false, err
	default:
		return true, err
	}
}

func (c *Collection[T, P]) index(items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool { return P(&item).Base().ID == id })
}

func normalize(r entity.Record, now time.Time) {
	if n, ok := r.(entity.Normalizer); ok {
		n.Normalize(now)
	}
}

// merge overlays fields on the JSON form of item.
func merge[T any](item T, fields entity.Fields) (T, error) {
	var zero T

	raw, err := json.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("encode record: %w", err)
	}

	var obj map[string]json.RawMessage

	err = json.Unmarshal(raw, &obj)
	if err != nil {
		return zero, fmt.Errorf("decode record: %w", err)
	}

	for k, v := range fields {
		if slices.Contains(protectedFields, k) {
			continue
		}

		value, err := json.Marshal(v)
		if err != nil {
			return zero, fmt.Errorf("encode field %s: %w", k, err)
		}

		obj[k] = value
	}

	raw, err = json.Marshal(obj)
	if err != nil {
		return zero, fmt.Errorf("encode record: %w", err)
	}

	var out T

	err = json.Unmarshal(raw, &out)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", entity.ErrInvalidField, err)
	}

	return out, nil
}
