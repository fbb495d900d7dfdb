package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gameops/account-system/internal/core/domain"
	"github.com/gameops/account-system/internal/core/ports"
	"github.com/gameops/account-system/internal/infrastructure/config"
)

// CreditRepository implements ports.CreditRepository. The balance mutation is
// a single upsert statement, so the read-modify-write is atomic at the store
// even without the per-account serialization the services add on top.
type CreditRepository struct {
	db     *sql.DB
	tables config.TablesConfig
}

func NewCreditRepository(db *sql.DB, tables config.TablesConfig) *CreditRepository {
	return &CreditRepository{db: db, tables: tables}
}

func (r *CreditRepository) HasBalance(ctx context.Context, accountID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE account_id = $1 LIMIT 1`, r.tables.Credits)

	var one int
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *CreditRepository) Balance(ctx context.Context, accountID int64) (int64, error) {
	query := fmt.Sprintf(`SELECT balance FROM %s WHERE account_id = $1 LIMIT 1`, r.tables.Credits)

	var balance int64
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Add performs balance += amount as one statement, creating the row when
// missing. A donation additionally stamps the last-donation columns.
func (r *CreditRepository) Add(ctx context.Context, accountID int64, amount int64, donation *domain.Donation) error {
	if donation != nil {
		query := fmt.Sprintf(
			`INSERT INTO %s AS c (account_id, balance, last_donation_date, last_donation_amount)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (account_id) DO UPDATE
			    SET balance = c.balance + EXCLUDED.balance,
			        last_donation_date = EXCLUDED.last_donation_date,
			        last_donation_amount = EXCLUDED.last_donation_amount`, r.tables.Credits)
		_, err := r.db.ExecContext(ctx, query, accountID, amount, donation.Date, donation.Amount)
		return err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s AS c (account_id, balance)
		 VALUES ($1, $2)
		 ON CONFLICT (account_id) DO UPDATE
		    SET balance = c.balance + EXCLUDED.balance`, r.tables.Credits)
	_, err := r.db.ExecContext(ctx, query, accountID, amount)
	return err
}

func (r *CreditRepository) LogTransfer(ctx context.Context, record *domain.TransferRecord) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (transfer_id, from_account_id, target_account_id, amount, transfer_date)
		 VALUES ($1, $2, $3, $4, $5)`, r.tables.Transfer)

	_, err := r.db.ExecContext(ctx, query,
		record.TransferID, record.FromAccountID, record.TargetAccountID, record.Amount, record.Date)
	return err
}

var _ ports.CreditRepository = (*CreditRepository)(nil)
