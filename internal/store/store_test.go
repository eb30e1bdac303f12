package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/mocks"
	"github.com/BMMUGOMBA/terminal-pulse/internal/repository"
	"github.com/BMMUGOMBA/terminal-pulse/internal/store"
)

type eventType entity.EventType

func (e eventType) Matches(x any) bool {
	event, ok := x.(entity.Event)
	return ok && event.Type == entity.EventType(e)
}

func (e eventType) String() string { return "event of type " + string(e) }

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newStore(t *testing.T, opts ...store.Option) (*store.Store, *repository.MemoryStorage) {
	t.Helper()

	backend := repository.NewMemoryStorage(0)

	return store.New(backend, "test", opts...), backend
}

func TestStore_SeedsOnFirstRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, backend := newStore(t)

	users, err := s.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)
	require.Equal(t, "admin", users[0].Username)

	terminals, err := s.Terminals.List(ctx)
	require.NoError(t, err)
	require.Len(t, terminals, 5)

	tickets, err := s.Tickets.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 6)

	alerts, err := s.Alerts.List(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 4)

	metrics, err := s.Metrics(ctx)
	require.NoError(t, err)
	require.Len(t, metrics, 30)

	// The seed is persisted, so a second store on the same namespace sees it.
	other := store.New(backend, "test")

	users2, err := other.Users.List(ctx)
	require.NoError(t, err)
	require.Equal(t, users, users2)
}

func TestStore_AbsentKeyAfterSeedIsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, backend := newStore(t)

	_, err := s.Terminals.List(ctx)
	require.NoError(t, err)

	require.NoError(t, backend.Delete(ctx, "test", store.KeyTerminals))

	terminals, err := s.Terminals.List(ctx)
	require.NoError(t, err)
	require.Empty(t, terminals)
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := repository.NewMemoryStorage(0)
	a := store.New(backend, "tab-a")
	b := store.New(backend, "tab-b")

	_, err := a.Users.Delete(ctx, "1")
	require.NoError(t, err)

	usersA, err := a.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, usersA, 4)

	usersB, err := b.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, usersB, 5)
}

func TestCollection_Create(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := &clock{now: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
	s, _ := newStore(t, store.WithClock(c.Now))

	created, err := s.Terminals.Create(ctx, entity.Terminal{
		Location: "Mall, Kiosk 4",
		Status:   entity.TerminalStatusOnline,
		Uptime:   140,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, c.now, created.CreatedAt)
	require.Equal(t, c.now, created.UpdatedAt)
	require.InDelta(t, 100, created.Uptime, 0)

	got, err := s.Terminals.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	terminals, err := s.Terminals.List(ctx)
	require.NoError(t, err)
	require.Len(t, terminals, 6)
	require.Equal(t, created.ID, terminals[5].ID)

	second, err := s.Terminals.Create(ctx, entity.Terminal{Location: "Mall, Kiosk 5"})
	require.NoError(t, err)
	require.NotEqual(t, created.ID, second.ID)

	_, err = s.Terminals.Create(ctx, entity.Terminal{Meta: entity.Meta{ID: "T001"}})
	require.ErrorIs(t, err, entity.ErrAlreadyExists)
}

func TestCollection_UpdateMergesFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := &clock{now: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
	s, _ := newStore(t, store.WithClock(c.Now))

	before, err := s.Tickets.Get(ctx, "TKT-001")
	require.NoError(t, err)

	c.Advance(time.Minute)

	updated, err := s.Tickets.Update(ctx, "TKT-001", entity.Fields{
		"title":     "Till 2 offline",
		"id":        "hijacked",
		"createdAt": time.Time{},
	})
	require.NoError(t, err)
	require.Equal(t, "TKT-001", updated.ID)
	require.Equal(t, "Till 2 offline", updated.Title)
	require.Equal(t, before.Description, updated.Description)
	require.Equal(t, before.CreatedAt, updated.CreatedAt)
	require.Equal(t, c.now, updated.UpdatedAt)

	_, err = s.Tickets.Update(ctx, "TKT-001", entity.Fields{"slaBreachDuration": "many"})
	require.ErrorIs(t, err, entity.ErrInvalidField)

	_, err = s.Tickets.Update(ctx, "missing", entity.Fields{"title": "x"})
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCollection_EmptyUpdateOnlyTouchesUpdatedAt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := &clock{now: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
	s, _ := newStore(t, store.WithClock(c.Now))

	original, err := s.Users.Get(ctx, "4")
	require.NoError(t, err)

	c.Advance(time.Second)

	first, err := s.Users.Update(ctx, "4", entity.Fields{})
	require.NoError(t, err)

	c.Advance(time.Second)

	second, err := s.Users.Update(ctx, "4", entity.Fields{})
	require.NoError(t, err)

	require.True(t, second.UpdatedAt.After(first.UpdatedAt))

	first.UpdatedAt = original.UpdatedAt
	second.UpdatedAt = original.UpdatedAt
	require.Equal(t, original, first)
	require.Equal(t, original, second)
}

func TestCollection_DeleteThenGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newStore(t)

	deleted, err := s.Alerts.Delete(ctx, "ALT-002")
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = s.Alerts.Get(ctx, "ALT-002")
	require.ErrorIs(t, err, entity.ErrNotFound)

	deleted, err = s.Alerts.Delete(ctx, "ALT-002")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestCollection_NormalizesOnWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newStore(t)

	resolved, err := s.Tickets.Update(ctx, "TKT-001", entity.Fields{"status": entity.TicketStatusResolved})
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)

	reopened, err := s.Tickets.Update(ctx, "TKT-001", entity.Fields{"status": entity.TicketStatusOpen})
	require.NoError(t, err)
	require.Nil(t, reopened.ResolvedAt)

	locked, err := s.Users.Update(ctx, "3", entity.Fields{"failedLoginAttempts": 3})
	require.NoError(t, err)
	require.Equal(t, entity.UserStatusLocked, locked.Status)
}

func TestCollection_Mutate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newStore(t)

	user, err := s.Users.Mutate(ctx, "4", func(u *entity.User) error {
		u.FailedLoginAttempts++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, user.FailedLoginAttempts)

	errStop := entity.ErrForbidden

	_, err = s.Users.Mutate(ctx, "4", func(u *entity.User) error {
		u.FailedLoginAttempts = 99
		return errStop
	})
	require.ErrorIs(t, err, errStop)

	stored, err := s.Users.Get(ctx, "4")
	require.NoError(t, err)
	require.Equal(t, 1, stored.FailedLoginAttempts)
}

func TestCollection_MutateAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newStore(t)

	changed, err := s.Terminals.MutateAll(ctx, func(term *entity.Terminal) bool {
		if term.Status != entity.TerminalStatusOnline {
			return false
		}

		term.TransactionsToday = 0

		return true
	})
	require.NoError(t, err)
	require.Len(t, changed, 2)

	terminals, err := s.Terminals.List(ctx)
	require.NoError(t, err)

	for _, term := range terminals {
		if term.Status == entity.TerminalStatusOnline {
			require.Zero(t, term.TransactionsToday)
		}
	}
}

func TestStore_CurrentSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, backend := newStore(t)

	user, err := s.CurrentSession(ctx)
	require.NoError(t, err)
	require.Nil(t, user)

	admin, err := s.Users.Get(ctx, "1")
	require.NoError(t, err)

	require.NoError(t, s.SetCurrentSession(ctx, &admin))

	// A fresh store on the same namespace resumes the slot.
	resumed, err := store.New(backend, "test").CurrentSession(ctx)
	require.NoError(t, err)
	require.Equal(t, &admin, resumed)

	require.NoError(t, s.SetCurrentSession(ctx, nil))

	user, err = s.CurrentSession(ctx)
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestStore_ClearAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)

	pub.EXPECT().Publish(gomock.Any(), eventType(entity.EventStoreReset)).Times(1)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

	s, _ := newStore(t, store.WithPublisher(pub))

	_, err := s.Users.Delete(ctx, "1")
	require.NoError(t, err)

	admin, err := s.Users.Get(ctx, "2")
	require.NoError(t, err)
	require.NoError(t, s.SetCurrentSession(ctx, &admin))

	require.NoError(t, s.ClearAll(ctx))

	users, err := s.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)

	user, err := s.CurrentSession(ctx)
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestStore_ClearAllRebuildsFixturesFromClock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := &clock{now: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
	s, _ := newStore(t, store.WithClock(c.Now))

	before, err := s.Tickets.Get(ctx, "TKT-005")
	require.NoError(t, err)
	require.False(t, before.SLABreach)

	c.Advance(72 * time.Hour)
	require.NoError(t, s.ClearAll(ctx))

	after, err := s.Tickets.Get(ctx, "TKT-005")
	require.NoError(t, err)
	require.Equal(t, before.CreatedAt.Add(72*time.Hour), after.CreatedAt)
	require.Equal(t, before.SLATarget.Add(72*time.Hour), after.SLATarget)
	require.False(t, after.SLABreach)
}

func TestStore_TicketPeopleAreUserIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newStore(t)

	tickets, err := s.Tickets.List(ctx)
	require.NoError(t, err)

	for _, ticket := range tickets {
		_, err = s.Users.Get(ctx, ticket.ReportedBy)
		require.NoError(t, err, ticket.ID)

		if ticket.AssignedTo != nil {
			_, err = s.Users.Get(ctx, *ticket.AssignedTo)
			require.NoError(t, err, ticket.ID)
		}
	}
}

func TestStore_DroppedSeedIsSeededAgain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, backend := newStore(t)

	backend.SetQuota(10)

	users, err := s.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)

	_, err = backend.Get(ctx, "test", store.KeyUsers)
	require.ErrorIs(t, err, entity.ErrKeyNotFound)

	users, err = s.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)

	admin, err := s.Users.Mutate(ctx, "1", func(u *entity.User) error {
		u.FailedLoginAttempts = 1
		return nil
	})
	require.ErrorIs(t, err, entity.ErrQuotaExceeded)
	require.Equal(t, "admin", admin.Username)
	require.Equal(t, 1, admin.FailedLoginAttempts)

	_, err = s.Users.Mutate(ctx, "missing", func(*entity.User) error { return nil })
	require.ErrorIs(t, err, entity.ErrNotFound)

	backend.SetQuota(0)

	users, err = s.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)

	_, err = backend.Get(ctx, "test", store.KeyUsers)
	require.NoError(t, err)
}

func TestStore_PersistenceFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)

	pub.EXPECT().Publish(gomock.Any(), eventType(entity.EventPersistenceFailed)).Times(2)
	pub.EXPECT().Publish(gomock.Any(), eventType(entity.EventStorageChanged)).AnyTimes()

	s, backend := newStore(t, store.WithPublisher(pub))

	_, err := s.Tickets.List(ctx)
	require.NoError(t, err)

	backend.SetQuota(backend.Usage("test"))

	created, err := s.Tickets.Create(ctx, entity.SupportTicket{
		Title:      "Printer offline",
		TerminalID: "T001",
		Priority:   entity.TicketPriorityLow,
		Status:     entity.TicketStatusOpen,
	})
	require.ErrorIs(t, err, entity.ErrPersistence)
	require.ErrorIs(t, err, entity.ErrQuotaExceeded)
	require.True(t, entity.IsPersistence(err))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Printer offline", created.Title)

	// The attempted record was not stored.
	_, err = s.Tickets.Get(ctx, created.ID)
	require.ErrorIs(t, err, entity.ErrNotFound)

	updated, err := s.Tickets.Update(ctx, "TKT-001", entity.Fields{"description": "a much longer description than before"})
	require.ErrorIs(t, err, entity.ErrPersistence)
	require.Equal(t, "a much longer description than before", updated.Description)
}

func TestStore_CBORCodec(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	codec, err := store.NewCodec(store.CodecCBOR)
	require.NoError(t, err)
	require.Equal(t, store.CodecCBOR, codec.Name())

	backend := repository.NewMemoryStorage(0)
	s := store.New(backend, "cbor", store.WithCodec(codec))

	tickets, err := s.Tickets.List(ctx)
	require.NoError(t, err)

	raw, err := backend.Get(ctx, "cbor", store.KeyTickets)
	require.NoError(t, err)
	require.NotEqual(t, byte('['), raw[0])

	reread, err := store.New(backend, "cbor", store.WithCodec(codec)).Tickets.List(ctx)
	require.NoError(t, err)
	require.Equal(t, tickets, reread)

	_, err = store.NewCodec("xml")
	require.ErrorIs(t, err, entity.ErrUnknownCodec)
}
