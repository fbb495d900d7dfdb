package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gameops/account-system/internal/core/domain"
	"github.com/gameops/account-system/internal/core/ports"
)

// compensationAttempts bounds the retries of the compensating re-credit. The
// compensating Add is idempotent with respect to the failed credit (it only
// touches the source row), so retrying is safe.
const compensationAttempts = 3

// TransferService moves credits between two accounts as a compensated
// two-step operation: debit the source, credit the target, re-credit the
// source when the credit fails. Both account balances are locked for the
// whole sequence, in ascending account-id order, so two opposite-direction
// transfers between the same pair cannot deadlock and two transfers from the
// same source cannot jointly overdraw it.
type TransferService struct {
	registry ports.AccountRegistry
	credits  ports.CreditService
	audit    ports.AuditSink
	locks    *accountLocks
	log      zerolog.Logger
}

func NewTransferService(registry ports.AccountRegistry, credits ports.CreditService, audit ports.AuditSink, log zerolog.Logger) *TransferService {
	return &TransferService{
		registry: registry,
		credits:  credits,
		audit:    audit,
		locks:    newAccountLocks(),
		log:      log,
	}
}

func (s *TransferService) Transfer(ctx context.Context, in ports.TransferInput) (*ports.TransferResult, error) {
	if in.Amount <= 0 {
		return nil, domain.ErrNonPositiveAmount
	}
	if in.FromAccountID == in.TargetAccountID {
		return nil, domain.ErrSelfTransfer
	}

	first, second := s.locks.get(in.FromAccountID), s.locks.get(in.TargetAccountID)
	if in.FromAccountID > in.TargetAccountID {
		first, second = second, first
	}
	first.Lock()
	defer first.Unlock()
	second.Lock()
	defer second.Unlock()

	both, err := s.registry.ExistsBoth(ctx, in.FromAccountID, in.TargetAccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: account lookup: %w", domain.ErrStoreFailure, err)
	}
	if !both {
		return nil, domain.ErrAccountNotFound
	}

	// An account with no balance row has an implicit zero balance, which
	// cannot cover any positive transfer.
	has, err := s.credits.HasBalanceRecord(ctx, in.FromAccountID)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, domain.ErrInsufficientBalance
	}

	balance, err := s.credits.BalanceOf(ctx, in.FromAccountID)
	if err != nil {
		return nil, err
	}
	if balance < in.Amount {
		return nil, domain.ErrInsufficientBalance
	}

	// Debit first. On failure no funds have moved.
	if err := s.credits.Deposit(ctx, in.FromAccountID, -in.Amount, nil); err != nil {
		return nil, err
	}

	// Credit the target; on failure restore the source.
	if err := s.credits.Deposit(ctx, in.TargetAccountID, in.Amount, nil); err != nil {
		return nil, s.compensate(ctx, in, err)
	}

	record := &domain.TransferRecord{
		TransferID:      uuid.New().String(),
		FromAccountID:   in.FromAccountID,
		TargetAccountID: in.TargetAccountID,
		Amount:          in.Amount,
		Date:            time.Now().UTC(),
	}
	if err := s.credits.LogTransfer(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("transfer_id", record.TransferID).Msg("failed to log transfer")
	}

	s.log.Info().
		Str("transfer_id", record.TransferID).
		Int64("from", in.FromAccountID).
		Int64("target", in.TargetAccountID).
		Int64("amount", in.Amount).
		Msg("credits transferred")

	s.audit.Enqueue(ports.AuditEvent{
		Kind:       ports.EventCreditsTransferred,
		AccountID:  in.FromAccountID,
		Amount:     in.Amount,
		TransferID: record.TransferID,
		Detail:     fmt.Sprintf("to account %d", in.TargetAccountID),
		OccurredAt: record.Date,
	})

	fromBalance, err := s.credits.BalanceOf(ctx, in.FromAccountID)
	if err != nil {
		fromBalance = balance - in.Amount
	}
	targetBalance, err := s.credits.BalanceOf(ctx, in.TargetAccountID)
	if err != nil {
		targetBalance = 0
	}

	return &ports.TransferResult{
		TransferID:    record.TransferID,
		FromBalance:   fromBalance,
		TargetBalance: targetBalance,
	}, nil
}

// compensate re-credits the source after a failed credit step. The re-credit
// is retried a few times; when it cannot be completed the account pair is
// flagged for manual reconciliation via a CompensationError and an operator
// alert, never silently swallowed.
func (s *TransferService) compensate(ctx context.Context, in ports.TransferInput, creditErr error) error {
	var restoreErr error
	for attempt := 1; attempt <= compensationAttempts; attempt++ {
		restoreErr = s.credits.Deposit(ctx, in.FromAccountID, in.Amount, nil)
		if restoreErr == nil {
			s.log.Warn().
				Err(creditErr).
				Int64("from", in.FromAccountID).
				Int64("target", in.TargetAccountID).
				Int64("amount", in.Amount).
				Msg("transfer credit failed, source balance restored")
			return fmt.Errorf("%w: credit target: %w", domain.ErrStoreFailure, creditErr)
		}
	}

	compErr := &domain.CompensationError{
		FromAccountID:   in.FromAccountID,
		TargetAccountID: in.TargetAccountID,
		Amount:          in.Amount,
		CreditErr:       creditErr,
		RestoreErr:      restoreErr,
	}

	s.log.Error().
		Err(compErr).
		Int64("from", in.FromAccountID).
		Int64("target", in.TargetAccountID).
		Int64("amount", in.Amount).
		Msg("compensation failed, manual reconciliation required")

	s.audit.Enqueue(ports.AuditEvent{
		Kind:       ports.EventCompensationFailure,
		AccountID:  in.FromAccountID,
		Amount:     in.Amount,
		Detail:     fmt.Sprintf("credit to account %d failed and debit could not be restored", in.TargetAccountID),
		OccurredAt: time.Now().UTC(),
	})

	return compErr
}
