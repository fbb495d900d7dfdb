package domain

import "time"

// Gender tags accepted by the login table.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// AccountState is the lifecycle projection stored on the account row.
// It mirrors the most recent ban record and exists only for fast filtering;
// ban decisions are always derived from the ban history itself.
type AccountState int

const (
	StateNormal            AccountState = 0
	StatePermanentlyBanned AccountState = 5
)

// Account is a game login account. AccountID is assigned by the store at
// registration and never changes; UserID is the unique login name.
type Account struct {
	AccountID    int64        `json:"account_id"`
	UserID       string       `json:"userid"`
	Email        string       `json:"email"`
	Gender       string       `json:"sex"`
	Level        int          `json:"level"`
	State        AccountState `json:"state"`
	BanExpiresAt time.Time    `json:"ban_expires_at,omitzero"`
	PasswordHash string       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Banned reports whether the lifecycle projection marks the account as
// currently banned: either the permanent marker or an unexpired temp ban.
func (a *Account) Banned(now time.Time) bool {
	if a.State == StatePermanentlyBanned {
		return true
	}
	return !a.BanExpiresAt.IsZero() && a.BanExpiresAt.After(now)
}
