package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gameops/account-system/internal/core/domain"
	"github.com/gameops/account-system/internal/core/ports"
)

// CreditService is the ledger primitive over per-account balance rows. It
// deliberately does not validate account existence or check for sufficient
// funds; callers sequence those concerns (see TransferService).
type CreditService struct {
	credits ports.CreditRepository
	log     zerolog.Logger
}

func NewCreditService(credits ports.CreditRepository, log zerolog.Logger) *CreditService {
	return &CreditService{credits: credits, log: log}
}

func (s *CreditService) HasBalanceRecord(ctx context.Context, accountID int64) (bool, error) {
	has, err := s.credits.HasBalance(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("%w: balance lookup: %w", domain.ErrStoreFailure, err)
	}
	return has, nil
}

// Deposit applies a signed amount to the balance, creating the row lazily.
// The repository performs the read-modify-write atomically, so concurrent
// deposits to one account never lose updates.
func (s *CreditService) Deposit(ctx context.Context, accountID int64, amount int64, donation *domain.Donation) error {
	if err := s.credits.Add(ctx, accountID, amount, donation); err != nil {
		return fmt.Errorf("%w: deposit: %w", domain.ErrStoreFailure, err)
	}

	evt := s.log.Info().Int64("account_id", accountID).Int64("amount", amount)
	if donation != nil {
		evt = evt.Str("donation_amount", donation.Amount.String())
	}
	evt.Msg("credits deposited")
	return nil
}

// LogTransfer appends a completed transfer to the transfer log.
func (s *CreditService) LogTransfer(ctx context.Context, record *domain.TransferRecord) error {
	if err := s.credits.LogTransfer(ctx, record); err != nil {
		return fmt.Errorf("%w: transfer log: %w", domain.ErrStoreFailure, err)
	}
	return nil
}

func (s *CreditService) BalanceOf(ctx context.Context, accountID int64) (int64, error) {
	balance, err := s.credits.Balance(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("%w: balance read: %w", domain.ErrStoreFailure, err)
	}
	return balance, nil
}
