package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/service"
)

func TestWorkspaces_Open(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newEnv(t)

	def, err := env.workspaces.Open(ctx, "")
	require.NoError(t, err)
	require.Equal(t, service.DefaultWorkspace, def.ID)

	again, err := env.workspaces.Open(ctx, service.DefaultWorkspace)
	require.NoError(t, err)
	require.Same(t, def, again)

	for _, id := range []string{"tab 1", "../etc", strings.Repeat("a", 65)} {
		_, err = env.workspaces.Open(ctx, id)
		require.ErrorIs(t, err, entity.ErrInvalidWorkspace, id)
	}

	env.open(t, "tab-b")
	env.open(t, "tab_a")

	var ids []string
	for _, ws := range env.workspaces.All() {
		ids = append(ids, ws.ID)
	}

	require.Equal(t, []string{"default", "tab-b", "tab_a"}, ids)
}

func TestWorkspaces_AreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newEnv(t)

	a := env.open(t, "a")
	b := env.open(t, "b")

	login(t, a, "admin", "admin123")
	require.Nil(t, b.Session.Current())

	require.NoError(t, a.Dashboard.DeleteUser(ctx, "5"))

	usersB, err := b.Store.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, usersB, 5)
}
