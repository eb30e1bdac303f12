package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/mocks"
	"github.com/BMMUGOMBA/terminal-pulse/internal/service"
	"github.com/BMMUGOMBA/terminal-pulse/internal/store"
)

func TestSession_LockoutAfterThreeFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockPublisher(ctrl)

	pub.EXPECT().Publish(gomock.Any(), eventType(entity.EventAccountLocked)).Times(1)
	pub.EXPECT().Publish(gomock.Any(), eventType(entity.EventLoginFailed)).Times(2)
	pub.EXPECT().Publish(gomock.Any(), eventType(entity.EventStorageChanged)).AnyTimes()

	env := newEnv(t, withPublisher(pub))
	ws := env.open(t, "lockout")

	for range 2 {
		res, err := ws.Session.Login(ctx, "admin", "wrong")
		require.NoError(t, err)
		require.Equal(t, entity.LoginInvalidPassword, res.Outcome)
		require.Equal(t, "Invalid password", res.Message)
		require.False(t, res.Success())
	}

	res, err := ws.Session.Login(ctx, "admin", "wrong")
	require.NoError(t, err)
	require.Equal(t, entity.LoginLockedOut, res.Outcome)

	locked, err := ws.Store.Users.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, entity.UserStatusLocked, locked.Status)
	require.Equal(t, 3, locked.FailedLoginAttempts)

	res, err = ws.Session.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.Equal(t, entity.LoginAccountLocked, res.Outcome)
	require.Nil(t, res.User)
	require.Nil(t, ws.Session.Current())

	after, err := ws.Store.Users.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, locked, after)
}

func TestSession_SuccessResetsCounter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newEnv(t)
	ws := env.open(t, "reset")

	_, err := ws.Store.Users.Update(ctx, "2", entity.Fields{"failedLoginAttempts": 2})
	require.NoError(t, err)

	env.clock.Advance(time.Hour)

	user := login(t, ws, "manager", "manager123")
	require.Equal(t, 0, user.FailedLoginAttempts)
	require.NotNil(t, user.LastLogin)
	require.Equal(t, env.clock.Now(), *user.LastLogin)

	stored, err := ws.Store.Users.Get(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, 0, stored.FailedLoginAttempts)
	require.Equal(t, user.LastLogin, stored.LastLogin)

	current := ws.Session.Current()
	require.NotNil(t, current)
	require.Equal(t, "2", current.ID)
}

func TestSession_UnknownUser(t *testing.T) {
	t.Parallel()

	ws := newEnv(t).open(t, "unknown")

	res, err := ws.Session.Login(context.Background(), "nobody", "x")
	require.NoError(t, err)
	require.Equal(t, entity.LoginUserNotFound, res.Outcome)
	require.Equal(t, "User not found", res.Message)

	// Usernames match exactly.
	res, err = ws.Session.Login(context.Background(), "Admin", "admin123")
	require.NoError(t, err)
	require.Equal(t, entity.LoginUserNotFound, res.Outcome)
}

func TestSession_ConcurrentFailuresLockOnce(t *testing.T) {
	t.Parallel()

	const attempts = 8

	ctx := context.Background()
	ws := newEnv(t).open(t, "concurrent")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = make(map[entity.LoginOutcome]int)
	)

	for range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			res, err := ws.Session.Login(ctx, "agent", "wrong")
			if err != nil {
				return
			}

			mu.Lock()
			outcomes[res.Outcome]++
			mu.Unlock()
		}()
	}

	wg.Wait()

	require.Equal(t, 2, outcomes[entity.LoginInvalidPassword])
	require.Equal(t, 1, outcomes[entity.LoginLockedOut])
	require.Equal(t, attempts-3, outcomes[entity.LoginAccountLocked])

	user, err := ws.Store.Users.Get(ctx, "3")
	require.NoError(t, err)
	require.Equal(t, 3, user.FailedLoginAttempts)
	require.True(t, user.IsLocked())
}

func TestSession_LegacyPasswordIsRehashed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ws := newEnv(t).open(t, "rehash")

	login(t, ws, "admin", "admin123")

	stored, err := ws.Store.Users.Get(ctx, "1")
	require.NoError(t, err)
	require.True(t, service.IsHashed(stored.Password))

	ws.Session.Logout(ctx)

	login(t, ws, "admin", "admin123")

	res, err := ws.Session.Login(ctx, "admin", stored.Password)
	require.NoError(t, err)
	require.Equal(t, entity.LoginInvalidPassword, res.Outcome)
}

func TestSession_LoginSurvivesDroppedWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newEnv(t)
	ws := env.open(t, "full")

	_, err := ws.Store.Users.List(ctx)
	require.NoError(t, err)

	env.backend.SetQuota(env.backend.Usage("full"))

	user := login(t, ws, "agent", "agent123")
	require.Equal(t, "3", user.ID)
	require.Equal(t, "3", ws.Session.Current().ID)

	slot, err := ws.Store.CurrentSession(ctx)
	require.NoError(t, err)
	require.Nil(t, slot)
}

func TestSession_LoginWhenSeedCannotBeStored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newEnv(t)
	ws := env.open(t, "tiny")

	env.backend.SetQuota(10)

	users, err := ws.Store.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)

	user := login(t, ws, "admin", "admin123")
	require.Equal(t, "1", user.ID)

	users, err = ws.Store.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)
}

func TestSession_ResumeAndLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newEnv(t)
	ws := env.open(t, "resume")

	login(t, ws, "merchant", "merchant123")

	resumed, err := env.newWorkspaces().Open(ctx, "resume")
	require.NoError(t, err)

	current := resumed.Session.Current()
	require.NotNil(t, current)
	require.Equal(t, "4", current.ID)
	require.Equal(t, []string{"T001", "T002"}, current.AssignedTerminals)

	resumed.Session.Logout(ctx)
	require.Nil(t, resumed.Session.Current())

	again, err := env.newWorkspaces().Open(ctx, "resume")
	require.NoError(t, err)
	require.Nil(t, again.Session.Current())

	// Logging out twice is harmless.
	again.Session.Logout(ctx)
}

func TestSession_UpdateCurrentUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ws := newEnv(t).open(t, "me")

	user, err := ws.Session.UpdateCurrentUser(ctx, entity.Fields{"fullName": "Nobody"})
	require.NoError(t, err)
	require.Nil(t, user)

	login(t, ws, "agent", "agent123")

	user, err = ws.Session.UpdateCurrentUser(ctx, entity.Fields{
		"fullName": "Senior Support Agent",
		"password": "n3w-secret",
	})
	require.NoError(t, err)
	require.Equal(t, "Senior Support Agent", user.FullName)
	require.True(t, service.IsHashed(user.Password))
	require.Equal(t, "Senior Support Agent", ws.Session.Current().FullName)

	slot, err := ws.Store.CurrentSession(ctx)
	require.NoError(t, err)
	require.Equal(t, "Senior Support Agent", slot.FullName)

	_, err = ws.Session.UpdateCurrentUser(ctx, entity.Fields{"password": ""})
	require.ErrorIs(t, err, entity.ErrInvalidField)

	ws.Session.Logout(ctx)

	res, err := ws.Session.Login(ctx, "agent", "agent123")
	require.NoError(t, err)
	require.Equal(t, entity.LoginInvalidPassword, res.Outcome)

	login(t, ws, "agent", "n3w-secret")
}

func TestSession_MerchantScope(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	fixtures := store.DefaultFixtures(base)
	fixtures.Users[3].AssignedTerminals = []string{"T001"}

	ws := newEnv(t, withFixtures(fixtures)).open(t, "merchant")

	login(t, ws, "merchant", "merchant123")

	all, err := ws.Store.Terminals.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)

	terminals, err := ws.Session.AccessibleTerminals(ctx)
	require.NoError(t, err)
	require.Len(t, terminals, 1)
	require.Equal(t, "T001", terminals[0].ID)

	tickets, err := ws.Session.AccessibleTickets(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, tickets)

	for _, ticket := range tickets {
		require.Equal(t, "T001", ticket.TerminalID)
	}

	require.True(t, ws.Session.CanAccessTerminal("T001"))
	require.False(t, ws.Session.CanAccessTerminal("T002"))
}

func TestSession_StaffSeeEverything(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newEnv(t)

	for _, tc := range []struct {
		username string
		password string
	}{
		{"admin", "admin123"},
		{"manager", "manager123"},
		{"agent", "agent123"},
	} {
		ws := env.open(t, "staff-"+tc.username)

		login(t, ws, tc.username, tc.password)

		terminals, err := ws.Session.AccessibleTerminals(ctx)
		require.NoError(t, err)
		require.Len(t, terminals, 5, tc.username)

		tickets, err := ws.Session.AccessibleTickets(ctx)
		require.NoError(t, err)
		require.Len(t, tickets, 6, tc.username)
	}
}

func TestSession_Permissions(t *testing.T) {
	t.Parallel()

	env := newEnv(t)

	anonymous := env.open(t, "anonymous")
	require.False(t, anonymous.Session.HasPermission(entity.PermissionManageUsers))
	require.False(t, anonymous.Session.HasPermission(entity.PermissionViewOwnTickets))
	require.Empty(t, anonymous.Session.Permissions())

	for _, tc := range []struct {
		username    string
		password    string
		manageUsers bool
		permissions int
	}{
		{"admin", "admin123", true, 8},
		{"manager", "manager123", true, 6},
		{"agent", "agent123", false, 6},
		{"merchant", "merchant123", false, 4},
	} {
		ws := env.open(t, "perm-"+tc.username)

		login(t, ws, tc.username, tc.password)

		require.Equal(t, tc.manageUsers, ws.Session.HasPermission(entity.PermissionManageUsers), tc.username)
		require.Len(t, ws.Session.Permissions(), tc.permissions, tc.username)
		require.False(t, ws.Session.HasPermission("launch_rockets"), tc.username)
	}
}
