package entity

import (
	"slices"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// MaxFailedLoginAttempts is the number of consecutive failures that locks an account.
const MaxFailedLoginAttempts = 3

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusLocked UserStatus = "locked"
)

type User struct {
	Meta
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	FullName            string     `json:"fullName"`
	Password            string     `json:"password"`
	Role                Role       `json:"role"`
	Status              UserStatus `json:"status"`
	FailedLoginAttempts int        `json:"failedLoginAttempts"`
	LastLogin           *time.Time `json:"lastLogin"`
	AssignedTerminals   []string   `json:"assignedTerminals"`
}

func (u *User) Normalize(time.Time) {
	if u.FailedLoginAttempts < 0 {
		u.FailedLoginAttempts = 0
	}

	if u.FailedLoginAttempts >= MaxFailedLoginAttempts {
		u.Status = UserStatusLocked
	}
}

func (u *User) IsLocked() bool {
	return u.Status == UserStatusLocked
}

func (u *User) OwnsTerminal(terminalID string) bool {
	return slices.Contains(u.AssignedTerminals, terminalID)
}

// UserInfo is the outward view of a user; credentials are never exposed.
type UserInfo struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	FullName            string     `json:"fullName"`
	Role                Role       `json:"role"`
	Status              UserStatus `json:"status"`
	FailedLoginAttempts int        `json:"failedLoginAttempts"`
	LastLogin           *time.Time `json:"lastLogin"`
	AssignedTerminals   []string   `json:"assignedTerminals"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (u User) Info() UserInfo {
	return UserInfo{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		FullName:            u.FullName,
		Role:                u.Role,
		Status:              u.Status,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LastLogin:           u.LastLogin,
		AssignedTerminals:   u.AssignedTerminals,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

type SessionClaims struct {
	UserID    string `json:"uid"`
	Role      Role   `json:"role"`
	Workspace string `json:"ws"`
	jwt.RegisteredClaims
}
