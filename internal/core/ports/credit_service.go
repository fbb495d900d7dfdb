package ports

import (
	"context"

	"github.com/gameops/account-system/internal/core/domain"
)

// CreditService is the pure ledger primitive over per-account balances. It
// does not validate account existence; callers gate on AccountRegistry first.
type CreditService interface {
	HasBalanceRecord(ctx context.Context, accountID int64) (bool, error)

	// Deposit applies a signed amount to the account's balance, creating
	// the balance row when missing. There is no insufficient-funds check
	// here; negative-balance prevention is the transfer orchestrator's job.
	Deposit(ctx context.Context, accountID int64, amount int64, donation *domain.Donation) error

	// BalanceOf returns the current balance, zero for accounts without a
	// balance row.
	BalanceOf(ctx context.Context, accountID int64) (int64, error)

	// LogTransfer appends a completed transfer to the transfer log.
	LogTransfer(ctx context.Context, record *domain.TransferRecord) error
}

// TransferInput carries one credit transfer request.
type TransferInput struct {
	FromAccountID   int64
	TargetAccountID int64
	Amount          int64
}

// TransferResult is returned on success.
type TransferResult struct {
	TransferID    string
	FromBalance   int64 // source balance after the debit
	TargetBalance int64 // target balance after the credit
}

// TransferService moves credits between two accounts as a compensated
// two-step operation. Failures surface as domain errors: ErrAccountNotFound,
// ErrInsufficientBalance, ErrSelfTransfer, ErrNonPositiveAmount,
// ErrStoreFailure, or *domain.CompensationError.
type TransferService interface {
	Transfer(ctx context.Context, in TransferInput) (*TransferResult, error)
}

// TransferDedup remembers accepted transfer requests by idempotency key so a
// retried request replays the recorded transfer id instead of moving credits
// twice.
type TransferDedup interface {
	Seen(ctx context.Context, fromAccountID int64, key string) (bool, error)
	Mark(ctx context.Context, fromAccountID int64, key, transferID string) error
	TransferID(ctx context.Context, fromAccountID int64, key string) (string, error)
}
