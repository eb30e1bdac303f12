package service

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/store"
)

const DefaultWorkspace = "default"

var workspaceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Workspace is one isolated dashboard context: its own record store, its own
// session and the operations bound to both.
type Workspace struct {
	ID        string
	Store     *store.Store
	Session   *Session
	Dashboard *Dashboard
}

type WorkspacesConfig struct {
	Backend   store.Backend
	Codec     store.Codec
	Passwords *Passwords
	Publisher Publisher
	// Now overrides the clock of every store, for tests.
	Now func() time.Time
	// Fixtures overrides the seed data of every store, for tests.
	Fixtures *store.Fixtures
}

// Workspaces opens workspaces on first use and keeps them for the process
// lifetime. Workspaces sharing a backend namespace see the same data.
type Workspaces struct {
	cfg WorkspacesConfig

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewWorkspaces(cfg WorkspacesConfig) *Workspaces {
	if cfg.Passwords == nil {
		cfg.Passwords = NewPasswords(0)
	}

	return &Workspaces{
		cfg:   cfg,
		items: make(map[string]*Workspace),
	}
}

// Open returns the workspace with the given id, creating it and resuming its
// persisted session on first use.
func (w *Workspaces) Open(ctx context.Context, id string) (*Workspace, error) {
	if id == "" {
		id = DefaultWorkspace
	}

	if !workspaceIDPattern.MatchString(id) {
		return nil, fmt.Errorf("%q: %w", id, entity.ErrInvalidWorkspace)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if ws, ok := w.items[id]; ok {
		return ws, nil
	}

	opts := []store.Option{store.WithPublisher(w.cfg.Publisher)}

	if w.cfg.Codec != nil {
		opts = append(opts, store.WithCodec(w.cfg.Codec))
	}

	if w.cfg.Now != nil {
		opts = append(opts, store.WithClock(w.cfg.Now))
	}

	if w.cfg.Fixtures != nil {
		opts = append(opts, store.WithFixtures(*w.cfg.Fixtures))
	}

	st := store.New(w.cfg.Backend, id, opts...)

	session, err := NewSession(ctx, st, w.cfg.Passwords, w.cfg.Publisher)
	if err != nil {
		return nil, fmt.Errorf("open workspace %s: %w", id, err)
	}

	ws := &Workspace{
		ID:        id,
		Store:     st,
		Session:   session,
		Dashboard: NewDashboard(st, session, w.cfg.Passwords, w.cfg.Publisher),
	}

	w.items[id] = ws

	return ws, nil
}

// All returns the open workspaces ordered by id.
func (w *Workspaces) All() []*Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := slices.Sorted(maps.Keys(w.items))

	out := make([]*Workspace, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.items[id])
	}

	return out
}
