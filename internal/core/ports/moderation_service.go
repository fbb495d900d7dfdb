package ports

import (
	"context"
	"time"

	"github.com/gameops/account-system/internal/core/domain"
)

// ModerationService orchestrates ban and unban requests. Operations that are
// blocked by the current ban state return domain.ErrBanStateConflict; that is
// a normal negative result, not a fault.
type ModerationService interface {
	// ApplyTemporaryBan bans the account until the given time. Rejected
	// when a temporary ban is already the current record; a permanent ban
	// does not block it.
	ApplyTemporaryBan(ctx context.Context, moderatorID int64, reason string, accountID int64, until time.Time) error

	// ApplyPermanentBan bans the account permanently. Rejected when a
	// permanent ban is already the current record.
	ApplyPermanentBan(ctx context.Context, moderatorID int64, reason string, accountID int64) error

	// Unban lifts whatever ban is in effect. Rejected when the current
	// record already has no ban kind.
	Unban(ctx context.Context, moderatorID int64, reason string, accountID int64) error

	// BanStatus returns the full ban history, most recent first, or
	// domain.ErrNoBanHistory when the account was never banned.
	BanStatus(ctx context.Context, accountID int64) ([]domain.BanRecord, error)
}
