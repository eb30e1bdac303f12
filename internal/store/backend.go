package store

import "context"

// UpdateFunc receives the current value of a key (found is false when the
// key is absent) and returns the value to write. Returning an error aborts
// the update without writing.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Backend is the key-value shim the store persists through. Keys live inside
// a namespace; each workspace owns one namespace. Get returns
// entity.ErrKeyNotFound for absent keys.
type Backend interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
	// Update is an atomic read-modify-write of a single key.
	Update(ctx context.Context, namespace, key string, fn UpdateFunc) error
	Clear(ctx context.Context, namespace string) error
}
