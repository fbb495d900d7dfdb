package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gameops/account-system/internal/core/domain"
	"github.com/gameops/account-system/internal/core/ports"
	"github.com/gameops/account-system/internal/infrastructure/config"
)

// BanRepository implements ports.BanRepository. Appending a record and
// refreshing the lifecycle projection on the login row happen in one
// transaction, so the projection can never drift from the latest record.
type BanRepository struct {
	db     *sql.DB
	tables config.TablesConfig
}

func NewBanRepository(db *sql.DB, tables config.TablesConfig) *BanRepository {
	return &BanRepository{db: db, tables: tables}
}

func (r *BanRepository) Append(ctx context.Context, record *domain.BanRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	insert := fmt.Sprintf(
		`INSERT INTO %s (account_id, banned_by, ban_type, ban_until, ban_date, ban_reason)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`, r.tables.Ban)

	var until any
	if record.Kind == domain.BanTemporary {
		until = record.Until
	}
	if err = tx.QueryRowContext(ctx, insert,
		record.AccountID, record.BannedBy, int(record.Kind), until, record.CreatedAt, record.Reason,
	).Scan(&record.ID); err != nil {
		return err
	}

	state, expiry := record.Projection()
	var unbanTime any
	if !expiry.IsZero() {
		unbanTime = expiry
	}

	update := fmt.Sprintf(`UPDATE %s SET state = $1, unban_time = $2 WHERE account_id = $3`, r.tables.Login)
	if _, err = tx.ExecContext(ctx, update, int(state), unbanTime, record.AccountID); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

func (r *BanRepository) History(ctx context.Context, accountID int64) ([]domain.BanRecord, error) {
	query := fmt.Sprintf(
		`SELECT id, account_id, banned_by, ban_type, ban_until, ban_date, ban_reason
		   FROM %s WHERE account_id = $1 ORDER BY ban_date DESC, id DESC`, r.tables.Ban)

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []domain.BanRecord
	for rows.Next() {
		var (
			record domain.BanRecord
			kind   int
			until  sql.NullTime
		)
		if err := rows.Scan(&record.ID, &record.AccountID, &record.BannedBy, &kind, &until, &record.CreatedAt, &record.Reason); err != nil {
			return nil, err
		}
		record.Kind = domain.BanKind(kind)
		if until.Valid {
			record.Until = until.Time
		}
		history = append(history, record)
	}
	return history, rows.Err()
}

var _ ports.BanRepository = (*BanRepository)(nil)
