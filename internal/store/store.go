package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

const (
	KeyUsers       = "pulse_users"
	KeyTerminals   = "pulse_terminals"
	KeyTickets     = "pulse_tickets"
	KeyAlerts      = "pulse_alerts"
	KeyMetrics     = "pulse_metrics"
	KeyCurrentUser = "pulse_current_user"
)

// Publisher receives storage notifications.
type Publisher interface {
	Publish(ctx context.Context, event entity.Event)
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithCodec(codec Codec) Option {
	return func(s *Store) { s.codec = codec }
}

func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithFixtures replaces the default seed data.
func WithFixtures(f Fixtures) Option {
	return func(s *Store) {
		s.fixtures = f
		s.customFixtures = true
	}
}

// Store is the record store of one workspace. All collections live under the
// workspace namespace of the backend.
type Store struct {
	backend   Backend
	namespace string
	codec     Codec
	publisher Publisher
	now       func() time.Time

	// seededMu guards fixtures and seeded.
	seededMu       sync.Mutex
	fixtures       Fixtures
	customFixtures bool
	seeded         map[string]bool

	Users     *Collection[entity.User, *entity.User]
	Terminals *Collection[entity.Terminal, *entity.Terminal]
	Tickets   *Collection[entity.SupportTicket, *entity.SupportTicket]
	Alerts    *Collection[entity.SystemAlert, *entity.SystemAlert]
}

func New(backend Backend, namespace string, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		namespace: namespace,
		codec:     jsonCodec{},
		now:       func() time.Time { return time.Now().UTC() },
		seeded:    make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	if !s.customFixtures {
		s.fixtures = DefaultFixtures(s.now())
	}

	s.Users = newCollection(s, KeyUsers, func() []entity.User { return s.seed().Users })
	s.Terminals = newCollection(s, KeyTerminals, func() []entity.Terminal { return s.seed().Terminals })
	s.Tickets = newCollection(s, KeyTickets, func() []entity.SupportTicket { return s.seed().Tickets })
	s.Alerts = newCollection(s, KeyAlerts, func() []entity.SystemAlert { return s.seed().Alerts })

	return s
}

func (s *Store) Namespace() string { return s.namespace }

func (s *Store) Now() time.Time { return s.now() }

// Metrics returns the read-only performance series.
func (s *Store) Metrics(ctx context.Context) ([]entity.PerformanceMetrics, error) {
	return list(ctx, s, KeyMetrics, func() []entity.PerformanceMetrics { return s.seed().Metrics })
}

// CurrentSession returns the user persisted in the session slot, or nil.
func (s *Store) CurrentSession(ctx context.Context) (*entity.User, error) {
	raw, err := s.backend.Get(ctx, s.namespace, KeyCurrentUser)
	if errors.Is(err, entity.ErrKeyNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyCurrentUser, err)
	}

	var user entity.User

	err = s.codec.Unmarshal(raw, &user)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyCurrentUser, err)
	}

	return &user, nil
}

// SetCurrentSession writes the session slot. A nil user clears it.
func (s *Store) SetCurrentSession(ctx context.Context, user *entity.User) error {
	if user == nil {
		err := s.backend.Delete(ctx, s.namespace, KeyCurrentUser)
		if err != nil {
			return s.persistFailed(ctx, KeyCurrentUser, err)
		}

		return nil
	}

	raw, err := s.codec.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyCurrentUser, err)
	}

	err = s.backend.Put(ctx, s.namespace, KeyCurrentUser, raw)
	if err != nil {
		return s.persistFailed(ctx, KeyCurrentUser, err)
	}

	return nil
}

// ClearAll wipes the namespace and seeds the fixtures again. The session slot
// is left empty.
func (s *Store) ClearAll(ctx context.Context) error {
	err := s.backend.Clear(ctx, s.namespace)
	if err != nil {
		return s.persistFailed(ctx, s.namespace, err)
	}

	s.seededMu.Lock()
	clear(s.seeded)

	if !s.customFixtures {
		s.fixtures = DefaultFixtures(s.now())
	}
	s.seededMu.Unlock()

	if _, err = s.Users.List(ctx); err != nil {
		return err
	}

	if _, err = s.Terminals.List(ctx); err != nil {
		return err
	}

	if _, err = s.Tickets.List(ctx); err != nil {
		return err
	}

	if _, err = s.Alerts.List(ctx); err != nil {
		return err
	}

	if _, err = s.Metrics(ctx); err != nil {
		return err
	}

	s.publish(ctx, entity.EventStoreReset, s.namespace, "store reset to fixtures")

	return nil
}

// claimSeed reports whether key has not been seeded yet in this store's
// lifetime and marks it seeded.
func (s *Store) claimSeed(key string) bool {
	s.seededMu.Lock()
	defer s.seededMu.Unlock()

	if s.seeded[key] {
		return false
	}

	s.seeded[key] = true

	return true
}

// releaseSeed lets the next read of key seed it again. It is called when the
// seeding write did not reach the backend.
func (s *Store) releaseSeed(key string) {
	s.seededMu.Lock()
	defer s.seededMu.Unlock()

	delete(s.seeded, key)
}

func (s *Store) seed() Fixtures {
	s.seededMu.Lock()
	defer s.seededMu.Unlock()

	return s.fixtures
}

func (s *Store) persistFailed(ctx context.Context, key string, err error) error {
	slog.ErrorContext(ctx, "Persist storage key", "key", key, "workspace", s.namespace, "error", err)
	s.publish(ctx, entity.EventPersistenceFailed, key, err.Error())

	return &entity.PersistenceError{Key: key, Err: err}
}

func (s *Store) publish(ctx context.Context, eventType entity.EventType, subject, message string) {
	if s.publisher == nil {
		return
	}

	s.publisher.Publish(ctx, entity.Event{
		Type:       eventType,
		Workspace:  s.namespace,
		Subject:    subject,
		Message:    message,
		OccurredAt: s.now(),
	})
}

// list reads a whole collection, seeding it on the first read of an absent key.
func list[T any](ctx context.Context, s *Store, key string, fixtures func() []T) ([]T, error) {
	raw, err := s.backend.Get(ctx, s.namespace, key)
	if err == nil {
		return decode[T](s, key, raw)
	}

	if !errors.Is(err, entity.ErrKeyNotFound) {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	var items []T

	err = modify(ctx, s, key, fixtures, func(stored []T) ([]T, error) {
		items = stored
		return stored, nil
	})
	if err != nil && !entity.IsPersistence(err) {
		return nil, err
	}

	return items, nil
}

// modify runs fn over the decoded collection inside one atomic backend
// update. Errors returned by fn abort the write and are returned as is.
// A failed write returns *entity.PersistenceError. Fixtures seeded by an
// aborted or failed write are seeded again on the next access.
func modify[T any](ctx context.Context, s *Store, key string, fixtures func() []T, fn func([]T) ([]T, error)) error {
	var (
		fnErr  error
		ran    bool
		seeded bool
	)

	err := s.backend.Update(ctx, s.namespace, key, func(current []byte, found bool) ([]byte, error) {
		ran = true

		items, claimed, err := loadItems(s, key, current, found, fixtures)
		seeded = seeded || claimed
		if err != nil {
			fnErr = err
			return nil, err
		}

		items, err = fn(items)
		if err != nil {
			fnErr = err
			return nil, err
		}

		raw, err := s.codec.Marshal(items)
		if err != nil {
			fnErr = fmt.Errorf("encode %s: %w", key, err)
			return nil, fnErr
		}

		return raw, nil
	})

	if err != nil && seeded {
		s.releaseSeed(key)
	}

	switch {
	case err == nil:
		s.publish(ctx, entity.EventStorageChanged, key, "")
		return nil
	case fnErr != nil:
		return fnErr
	case !ran:
		return fmt.Errorf("load %s: %w", key, err)
	default:
		return s.persistFailed(ctx, key, err)
	}
}

// loadItems decodes the stored collection. An absent key yields the fixtures the
// first time and an empty collection afterwards. claimed reports that this
// call took the seed.
func loadItems[T any](
	s *Store, key string, raw []byte, found bool, fixtures func() []T,
) (items []T, claimed bool, err error) {
	if found {
		items, err = decode[T](s, key, raw)
		return items, false, err
	}

	if !s.claimSeed(key) {
		return []T{}, false, nil
	}

	// Round trip through the codec so callers never share fixture memory.
	raw, err = s.codec.Marshal(fixtures())
	if err != nil {
		return nil, true, fmt.Errorf("encode fixtures %s: %w", key, err)
	}

	items, err = decode[T](s, key, raw)

	return items, true, err
}

func decode[T any](s *Store, key string, raw []byte) ([]T, error) {
	var items []T

	err := s.codec.Unmarshal(raw, &items)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}
