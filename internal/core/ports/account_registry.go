package ports

import (
	"context"

	"github.com/gameops/account-system/internal/core/domain"
)

// NewAccountInput carries the already-validated fields for a registration
// insert. PasswordHash is the bcrypt hash, never the plain password.
type NewAccountInput struct {
	UserID       string
	PasswordHash string
	Email        string
	Gender       string
	RegisterIP   string
}

// AccountRegistry defines existence and lookup queries against the account
// table. The ledger subsystem never creates accounts through it except via
// CreateAccount during registration; ban state mutations go through
// BanRepository so that they stay transactional with the ban history.
type AccountRegistry interface {
	// Exists reports whether an account row with the given id exists.
	Exists(ctx context.Context, accountID int64) (bool, error)

	// ExistsBoth reports whether both accounts exist. It must not report
	// true when only one of the two rows exists, regardless of idA == idB.
	ExistsBoth(ctx context.Context, idA, idB int64) (bool, error)

	// FindByUserID returns the account with the given login name, including
	// its password hash, or domain.ErrAccountNotFound.
	FindByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// EmailInUse reports whether any account already uses the given e-mail.
	EmailInUse(ctx context.Context, email string) (bool, error)

	// CreateAccount inserts the account row plus its creation audit row and
	// returns the assigned account id.
	CreateAccount(ctx context.Context, in NewAccountInput) (int64, error)
}
