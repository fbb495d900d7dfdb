package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gameops/account-system/internal/core/domain"
	"github.com/gameops/account-system/internal/core/ports"
)

// accountLocks hands out one mutex per account id, so check-then-append
// sequences on the same account are serialized while different accounts stay
// independent.
type accountLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[int64]*sync.Mutex)}
}

func (a *accountLocks) get(accountID int64) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	l, ok := a.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		a.locks[accountID] = l
	}
	return l
}

// ModerationService applies and lifts bans against the append-only ban
// history. The current status is always derived from the latest record, never
// from the cached projection on the account row.
type ModerationService struct {
	bans  ports.BanRepository
	audit ports.AuditSink
	locks *accountLocks
	log   zerolog.Logger
}

func NewModerationService(bans ports.BanRepository, audit ports.AuditSink, log zerolog.Logger) *ModerationService {
	return &ModerationService{
		bans:  bans,
		audit: audit,
		locks: newAccountLocks(),
		log:   log,
	}
}

// ApplyTemporaryBan appends a temporary ban ending at until. A permanent ban
// in effect does not block it; only an active temporary ban does.
func (s *ModerationService) ApplyTemporaryBan(ctx context.Context, moderatorID int64, reason string, accountID int64, until time.Time) error {
	return s.apply(ctx, &domain.BanRecord{
		AccountID: accountID,
		BannedBy:  moderatorID,
		Kind:      domain.BanTemporary,
		Until:     until,
		Reason:    reason,
	})
}

// ApplyPermanentBan appends a permanent ban.
func (s *ModerationService) ApplyPermanentBan(ctx context.Context, moderatorID int64, reason string, accountID int64) error {
	return s.apply(ctx, &domain.BanRecord{
		AccountID: accountID,
		BannedBy:  moderatorID,
		Kind:      domain.BanPermanent,
		Reason:    reason,
	})
}

// Unban appends an explicit lift record. Rejected when no ban is in effect.
func (s *ModerationService) Unban(ctx context.Context, moderatorID int64, reason string, accountID int64) error {
	return s.apply(ctx, &domain.BanRecord{
		AccountID: accountID,
		BannedBy:  moderatorID,
		Kind:      domain.BanNone,
		Reason:    reason,
	})
}

// BanStatus returns the account's full ban history, most recent first.
// Never-banned accounts yield domain.ErrNoBanHistory, which is a different
// fact from a history whose latest record is an explicit unban.
func (s *ModerationService) BanStatus(ctx context.Context, accountID int64) ([]domain.BanRecord, error) {
	history, err := s.bans.History(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: ban history: %w", domain.ErrStoreFailure, err)
	}
	if len(history) == 0 {
		return nil, domain.ErrNoBanHistory
	}
	return history, nil
}

func (s *ModerationService) apply(ctx context.Context, record *domain.BanRecord) error {
	lock := s.locks.get(record.AccountID)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.bans.History(ctx, record.AccountID)
	if err != nil {
		return fmt.Errorf("%w: ban history: %w", domain.ErrStoreFailure, err)
	}

	current := domain.CurrentKind(history)
	if !current.CanApply(record.Kind) {
		s.log.Debug().
			Int64("account_id", record.AccountID).
			Str("current", current.String()).
			Str("requested", record.Kind.String()).
			Msg("ban state conflict")
		return domain.ErrBanStateConflict
	}

	record.CreatedAt = time.Now().UTC()
	if err := s.bans.Append(ctx, record); err != nil {
		return fmt.Errorf("%w: append ban record: %w", domain.ErrStoreFailure, err)
	}

	s.log.Info().
		Int64("account_id", record.AccountID).
		Int64("moderator_id", record.BannedBy).
		Str("kind", record.Kind.String()).
		Str("reason", record.Reason).
		Msg("ban state changed")

	kind := ports.EventAccountBanned
	if record.Kind == domain.BanNone {
		kind = ports.EventAccountUnbanned
	}
	s.audit.Enqueue(ports.AuditEvent{
		Kind:       kind,
		AccountID:  record.AccountID,
		ActorID:    record.BannedBy,
		Detail:     record.Reason,
		OccurredAt: record.CreatedAt,
	})

	return nil
}
