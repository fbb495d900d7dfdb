package ports

import (
	"context"

	"github.com/gameops/account-system/internal/core/domain"
)

// BanRepository owns ban record creation. Nothing else in the system writes
// ban history or the lifecycle projection on the account row.
type BanRepository interface {
	// Append writes the record and updates the account's lifecycle
	// projection (state, ban expiry) in a single transaction, so the
	// projection can never disagree with the latest history row.
	Append(ctx context.Context, record *domain.BanRecord) error

	// History returns all ban records for the account, most recent first.
	// An empty slice means the account was never banned.
	History(ctx context.Context, accountID int64) ([]domain.BanRecord, error)
}
