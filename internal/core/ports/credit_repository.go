package ports

import (
	"context"

	"github.com/gameops/account-system/internal/core/domain"
)

// CreditRepository owns the balance row and the transfer log. Add is the only
// balance mutation in the system.
type CreditRepository interface {
	// HasBalance reports whether a balance row exists for the account.
	HasBalance(ctx context.Context, accountID int64) (bool, error)

	// Balance returns the current balance. Accounts without a balance row
	// have an implicit balance of zero.
	Balance(ctx context.Context, accountID int64) (int64, error)

	// Add applies balance += amount as one atomic read-modify-write,
	// creating the row with balance = amount when none exists. Amount may
	// be negative; the primitive enforces no floor. A non-nil donation
	// also stamps the last-donation fields.
	Add(ctx context.Context, accountID int64, amount int64, donation *domain.Donation) error

	// LogTransfer appends one entry to the transfer log.
	LogTransfer(ctx context.Context, record *domain.TransferRecord) error
}
