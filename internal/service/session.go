package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/store"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/logger"
)

var errLockedMeanwhile = errors.New("account locked by a concurrent attempt")

// Session tracks who is signed in to one workspace. The current user is kept
// in memory and mirrored into the store's session slot so a reopened
// workspace resumes without credentials.
type Session struct {
	store     *store.Store
	passwords *Passwords
	publisher Publisher

	mu      sync.RWMutex
	current *entity.User
}

// NewSession restores the current user from the session slot, if any.
func NewSession(ctx context.Context, st *store.Store, passwords *Passwords, publisher Publisher) (*Session, error) {
	s := &Session{
		store:     st,
		passwords: passwords,
		publisher: publisher,
	}

	user, err := st.CurrentSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}

	if user != nil {
		slog.InfoContext(ctx, "Session resumed", "user_id", user.ID, "workspace", st.Namespace())
		s.current = user
	}

	return s, nil
}

// Login checks, in order: the user exists, the account is not locked, the
// password matches. error is reserved for storage failures other than a
// dropped write.
func (s *Session) Login(ctx context.Context, username, password string) (entity.LoginResult, error) {
	ctx = logger.SetLogType(ctx, logger.LogTypeSecurity)

	user, err := s.store.Users.Find(ctx, func(u *entity.User) bool { return u.Username == username })
	if errors.Is(err, entity.ErrNotFound) {
		slog.WarnContext(ctx, "Login for unknown user", "username", username)
		s.publish(ctx, entity.EventLoginFailed, "", "unknown user "+username)

		return entity.NewLoginResult(entity.LoginUserNotFound, nil), nil
	}

	if err != nil {
		return entity.LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	if user.IsLocked() {
		slog.WarnContext(ctx, "Login to locked account", "user_id", user.ID)
		return entity.NewLoginResult(entity.LoginAccountLocked, nil), nil
	}

	if !s.passwords.Verify(user.Password, password) {
		return s.loginFailed(ctx, user.ID)
	}

	return s.loginSucceeded(ctx, user, password)
}

func (s *Session) loginFailed(ctx context.Context, userID string) (entity.LoginResult, error) {
	var lockedNow bool

	updated, err := s.store.Users.Mutate(ctx, userID, func(u *entity.User) error {
		if u.IsLocked() {
			return errLockedMeanwhile
		}

		u.FailedLoginAttempts++

		if u.FailedLoginAttempts >= entity.MaxFailedLoginAttempts {
			u.Status = entity.UserStatusLocked
			lockedNow = true
		}

		return nil
	})

	switch {
	case errors.Is(err, errLockedMeanwhile):
		return entity.NewLoginResult(entity.LoginAccountLocked, nil), nil
	case errors.Is(err, entity.ErrNotFound):
		return entity.NewLoginResult(entity.LoginUserNotFound, nil), nil
	case err != nil && !entity.IsPersistence(err):
		return entity.LoginResult{}, fmt.Errorf("record failed attempt: %w", err)
	}

	if lockedNow {
		slog.WarnContext(ctx, "Account locked", "user_id", userID, "attempts", updated.FailedLoginAttempts)
		s.publish(ctx, entity.EventAccountLocked, userID, updated.Username+" <"+updated.Email+">")

		return entity.NewLoginResult(entity.LoginLockedOut, nil), nil
	}

	slog.WarnContext(ctx, "Invalid password", "user_id", userID, "attempts", updated.FailedLoginAttempts)
	s.publish(ctx, entity.EventLoginFailed, userID, "invalid password")

	return entity.NewLoginResult(entity.LoginInvalidPassword, nil), nil
}

func (s *Session) loginSucceeded(ctx context.Context, user entity.User, password string) (entity.LoginResult, error) {
	var rehashed string

	if !IsHashed(user.Password) {
		hash, err := s.passwords.Hash(password)
		if err != nil {
			slog.ErrorContext(ctx, "Rehash legacy password", "user_id", user.ID, "error", err)
		} else {
			rehashed = hash
		}
	}

	legacy := user.Password

	updated, err := s.store.Users.Mutate(ctx, user.ID, func(u *entity.User) error {
		if u.IsLocked() {
			return errLockedMeanwhile
		}

		u.FailedLoginAttempts = 0

		now := s.store.Now()
		u.LastLogin = &now

		if rehashed != "" && u.Password == legacy {
			u.Password = rehashed
		}

		return nil
	})

	switch {
	case errors.Is(err, errLockedMeanwhile):
		return entity.NewLoginResult(entity.LoginAccountLocked, nil), nil
	case errors.Is(err, entity.ErrNotFound):
		return entity.NewLoginResult(entity.LoginUserNotFound, nil), nil
	case err != nil && !entity.IsPersistence(err):
		return entity.LoginResult{}, fmt.Errorf("record login: %w", err)
	}

	// A failed slot write only costs the resume on reopen.
	_ = s.store.SetCurrentSession(ctx, &updated)

	s.setCurrent(&updated)

	ctx = logger.SetUserID(ctx, updated.ID)
	slog.InfoContext(ctx, "Login succeeded", "role", updated.Role)
	s.publish(ctx, entity.EventLoginSucceeded, updated.ID, updated.Username)

	return entity.NewLoginResult(entity.LoginSuccess, &updated), nil
}

// Logout clears the session slot and the current user. It always succeeds.
func (s *Session) Logout(ctx context.Context) {
	previous := s.Current()

	_ = s.store.SetCurrentSession(ctx, nil)

	s.setCurrent(nil)

	if previous != nil {
		slog.InfoContext(logger.SetUserID(ctx, previous.ID), "Logged out")
		s.publish(ctx, entity.EventLoggedOut, previous.ID, previous.Username)
	}
}

// Current returns a copy of the signed in user, or nil.
func (s *Session) Current() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}

	user := *s.current
	user.AssignedTerminals = slices.Clone(s.current.AssignedTerminals)

	return &user
}

func (s *Session) HasPermission(permission string) bool {
	user := s.Current()
	if user == nil {
		return false
	}

	return entity.HasPermission(user.Role, permission)
}

// Permissions lists what the current user may do.
func (s *Session) Permissions() []string {
	user := s.Current()
	if user == nil {
		return []string{}
	}

	return entity.GetPermissionsByRole(user.Role)
}

// AccessibleTerminals returns the assigned terminals for a merchant and every
// terminal otherwise.
func (s *Session) AccessibleTerminals(ctx context.Context) ([]entity.Terminal, error) {
	user := s.Current()
	if user == nil || user.Role != entity.RoleMerchant {
		return s.store.Terminals.List(ctx)
	}

	return s.store.Terminals.Filter(ctx, func(t *entity.Terminal) bool {
		return user.OwnsTerminal(t.ID)
	})
}

// AccessibleTickets returns tickets on the assigned terminals for a merchant
// and every ticket otherwise.
func (s *Session) AccessibleTickets(ctx context.Context) ([]entity.SupportTicket, error) {
	user := s.Current()
	if user == nil || user.Role != entity.RoleMerchant {
		return s.store.Tickets.List(ctx)
	}

	return s.store.Tickets.Filter(ctx, func(t *entity.SupportTicket) bool {
		return user.OwnsTerminal(t.TerminalID)
	})
}

// CanAccessTerminal reports whether terminalID is inside the current scope.
func (s *Session) CanAccessTerminal(terminalID string) bool {
	user := s.Current()
	if user == nil || user.Role != entity.RoleMerchant {
		return true
	}

	return user.OwnsTerminal(terminalID)
}

// UpdateCurrentUser patches the signed in user and refreshes the session
// slot. It is a no-op without a current user. A "password" field is hashed
// before it is stored.
func (s *Session) UpdateCurrentUser(ctx context.Context, fields entity.Fields) (*entity.User, error) {
	user := s.Current()
	if user == nil {
		return nil, nil
	}

	fields, err := s.hashPasswordField(fields)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Users.Update(ctx, user.ID, fields)
	if err != nil && !entity.IsPersistence(err) {
		return nil, fmt.Errorf("update current user: %w", err)
	}

	_ = s.store.SetCurrentSession(ctx, &updated)

	s.setCurrent(&updated)

	return &updated, err
}

// refresh replaces the in-memory user after an administrative change to the
// same record.
func (s *Session) refresh(ctx context.Context, user entity.User) {
	current := s.Current()
	if current == nil || current.ID != user.ID {
		return
	}

	_ = s.store.SetCurrentSession(ctx, &user)

	s.setCurrent(&user)
}

// reset drops the in-memory user without touching storage.
func (s *Session) reset() {
	s.setCurrent(nil)
}

func (s *Session) hashPasswordField(fields entity.Fields) (entity.Fields, error) {
	raw, ok := fields["password"]
	if !ok {
		return fields, nil
	}

	password, ok := raw.(string)
	if !ok || password == "" {
		return nil, fmt.Errorf("password: %w", entity.ErrInvalidField)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	out := maps.Clone(fields)
	out["password"] = hash

	return out, nil
}

func (s *Session) setCurrent(user *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = user
}

func (s *Session) publish(ctx context.Context, eventType entity.EventType, subject, message string) {
	if s.publisher == nil {
		return
	}

	s.publisher.Publish(ctx, entity.Event{
		Type:       eventType,
		Workspace:  s.store.Namespace(),
		Subject:    subject,
		Message:    message,
		OccurredAt: s.store.Now(),
	})
}
