package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/repository"
	"github.com/BMMUGOMBA/terminal-pulse/internal/service"
	"github.com/BMMUGOMBA/terminal-pulse/internal/store"
)

var base = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

type eventType entity.EventType

func (e eventType) Matches(x any) bool {
	event, ok := x.(entity.Event)
	return ok && event.Type == entity.EventType(e)
}

func (e eventType) String() string { return "event of type " + string(e) }

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type testEnv struct {
	backend    *repository.MemoryStorage
	clock      *clock
	passwords  *service.Passwords
	publisher  service.Publisher
	fixtures   *store.Fixtures
	workspaces *service.Workspaces
}

type envOption func(*testEnv)

func withPublisher(p service.Publisher) envOption {
	return func(e *testEnv) { e.publisher = p }
}

func withFixtures(f store.Fixtures) envOption {
	return func(e *testEnv) { e.fixtures = &f }
}

func newEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	e := &testEnv{
		backend:   repository.NewMemoryStorage(0),
		clock:     &clock{now: base},
		passwords: service.NewPasswords(bcrypt.MinCost),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.workspaces = e.newWorkspaces()

	return e
}

// newWorkspaces builds a second registry on the same backend, as a restarted
// process would.
func (e *testEnv) newWorkspaces() *service.Workspaces {
	return service.NewWorkspaces(service.WorkspacesConfig{
		Backend:   e.backend,
		Passwords: e.passwords,
		Publisher: e.publisher,
		Now:       e.clock.Now,
		Fixtures:  e.fixtures,
	})
}

func (e *testEnv) open(t *testing.T, id string) *service.Workspace {
	t.Helper()

	ws, err := e.workspaces.Open(context.Background(), id)
	require.NoError(t, err)

	return ws
}

func login(t *testing.T, ws *service.Workspace, username, password string) *entity.User {
	t.Helper()

	res, err := ws.Session.Login(context.Background(), username, password)
	require.NoError(t, err)
	require.Equal(t, entity.LoginSuccess, res.Outcome, res.Message)
	require.NotNil(t, res.User)

	return res.User
}
