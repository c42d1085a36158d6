package models

import "time"

type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleOperator      Role = "operator"
)

func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleOperator
}

// MaxFailedAttempts is the number of wrong passwords that locks an account.
const MaxFailedAttempts = 5

// LockoutDuration is how long a locked account stays locked.
const LockoutDuration = 30 * time.Minute

type User struct {
	ID                  int        `json:"id" db:"id"`
	Email               string     `json:"email" db:"email"`
	PasswordHash        string     `json:"-" db:"password_hash"`
	Name                string     `json:"name" db:"name"`
	Role                Role       `json:"role" db:"role"`
	Active              bool       `json:"active" db:"active"`
	FailedAttempts      int        `json:"failed_attempts" db:"failed_attempts"`
	LockedUntil         *time.Time `json:"locked_until,omitempty" db:"locked_until"`
	ResetToken          *string    `json:"-" db:"reset_token"`
	ResetTokenExpiresAt *time.Time `json:"-" db:"reset_token_expires_at"`
	LastAccessAt        *time.Time `json:"last_access_at,omitempty" db:"last_access_at"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

func (u User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// CanAccess reports whether the user may sign in or keep using a session.
func (u User) CanAccess(now time.Time) bool {
	return u.Active && !u.IsLocked(now)
}

// RegisterFailure counts a wrong password and locks the account once the limit is reached.
// It returns true when this failure caused the lock.
func (u *User) RegisterFailure(now time.Time) bool {
	u.FailedAttempts++
	if u.FailedAttempts >= MaxFailedAttempts {
		until := now.Add(LockoutDuration)
		u.LockedUntil = &until
		return true
	}
	return false
}

// ResetFailures clears the failed-attempt counter and any lock.
func (u *User) ResetFailures() {
	u.FailedAttempts = 0
	u.LockedUntil = nil
}

type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	IssuedAt  time.Time `json:"issued_at" db:"issued_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	ClientIP  string    `json:"client_ip" db:"client_ip"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	Active    bool      `json:"active" db:"active"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Valid reports whether the session is active and not expired.
func (s Session) Valid(now time.Time) bool {
	return s.Active && !s.Expired(now)
}
