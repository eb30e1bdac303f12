package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrKeyNotFound      = errors.New("key not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNoActiveSession  = errors.New("no active session")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidWorkspace = errors.New("invalid workspace id")
)

var (
	ErrPersistence    = errors.New("persistence failure")
	ErrQuotaExceeded  = errors.New("storage quota exceeded")
	ErrUnknownBackend = errors.New("unknown storage driver")
	ErrUnknownCodec   = errors.New("unknown storage codec")
)

var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidAssignee = errors.New("assignee must be a staff user")
	ErrEmptyField      = errors.New("required field is empty")
	ErrInvalidField    = errors.New("invalid field value")
)

// PersistenceError reports a write that could not be saved. The operation
// that returned it still hands back the value it attempted to store.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %s", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// IsPersistence reports whether err only signals a dropped write.
func IsPersistence(err error) bool {
	var pErr *PersistenceError
	return errors.As(err, &pErr)
}
