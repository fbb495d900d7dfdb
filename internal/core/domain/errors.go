package domain

import (
	"errors"
	"fmt"
)

// Ledger and moderation errors. ErrBanStateConflict is a normal negative
// result, not a fault: the account was already in the requested or a
// precedence-blocking state.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBanStateConflict    = errors.New("ban state conflict")
	ErrNoBanHistory        = errors.New("no ban history")
	ErrSelfTransfer        = errors.New("transfer source and target are the same account")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrStoreFailure        = errors.New("store operation failed")
)

// Auth and registration errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBanned      = errors.New("account is banned")
	ErrUsernameTooShort   = errors.New("username is too short")
	ErrUsernameTooLong    = errors.New("username is too long")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrPasswordTooLong    = errors.New("password is too long")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidEmail       = errors.New("invalid e-mail address")
	ErrInvalidGender      = errors.New("invalid gender")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailInUse         = errors.New("e-mail address is already in use")
)

// CompensationError reports the fatal case where a transfer's debit
// succeeded, the credit failed, and re-crediting the source also failed.
// The named account pair needs manual reconciliation, so this is never
// folded into ErrStoreFailure.
type CompensationError struct {
	FromAccountID   int64
	TargetAccountID int64
	Amount          int64
	CreditErr       error // why the credit step failed
	RestoreErr      error // why the compensating re-credit failed
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("compensation failed: %d credits debited from account %d could not be restored (credit to %d: %v; restore: %v)",
		e.Amount, e.FromAccountID, e.TargetAccountID, e.CreditErr, e.RestoreErr)
}

func (e *CompensationError) Unwrap() error { return e.RestoreErr }
