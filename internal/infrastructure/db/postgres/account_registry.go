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

// AccountRegistry implements ports.AccountRegistry on the login table.
// Table names are configured, so queries are assembled once at construction.
type AccountRegistry struct {
	db     *sql.DB
	tables config.TablesConfig
}

func NewAccountRegistry(db *sql.DB, tables config.TablesConfig) *AccountRegistry {
	return &AccountRegistry{db: db, tables: tables}
}

func (r *AccountRegistry) Exists(ctx context.Context, accountID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE account_id = $1 LIMIT 1`, r.tables.Login)

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

// ExistsBoth counts matching rows; a pair with an equal id still matches at
// most one row and therefore reports false unless both rows exist.
func (r *AccountRegistry) ExistsBoth(ctx context.Context, idA, idB int64) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE account_id IN ($1, $2)`, r.tables.Login)

	var count int
	if err := r.db.QueryRowContext(ctx, query, idA, idB).Scan(&count); err != nil {
		return false, err
	}
	return count == 2, nil
}

func (r *AccountRegistry) FindByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	query := fmt.Sprintf(
		`SELECT account_id, userid, user_pass, email, sex, level, state, unban_time
		   FROM %s WHERE userid = $1 LIMIT 1`, r.tables.Login)

	var (
		account   domain.Account
		state     int
		unbanTime sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&account.AccountID,
		&account.UserID,
		&account.PasswordHash,
		&account.Email,
		&account.Gender,
		&account.Level,
		&state,
		&unbanTime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	account.State = domain.AccountState(state)
	if unbanTime.Valid {
		account.BanExpiresAt = unbanTime.Time
	}
	return &account, nil
}

func (r *AccountRegistry) EmailInUse(ctx context.Context, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE email = $1`, r.tables.Login)

	var count int
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAccount inserts the login row and its creation audit row in one
// transaction so a half-registered account never becomes visible.
func (r *AccountRegistry) CreateAccount(ctx context.Context, in ports.NewAccountInput) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	insertLogin := fmt.Sprintf(
		`INSERT INTO %s (userid, user_pass, email, sex, level, state)
		 VALUES ($1, $2, $3, $4, 0, 0) RETURNING account_id`, r.tables.Login)

	var accountID int64
	if err = tx.QueryRowContext(ctx, insertLogin, in.UserID, in.PasswordHash, in.Email, in.Gender).Scan(&accountID); err != nil {
		return 0, err
	}

	insertAudit := fmt.Sprintf(
		`INSERT INTO %s (account_id, userid, sex, email, reg_date, reg_ip)
		 VALUES ($1, $2, $3, $4, NOW(), $5)`, r.tables.Register)

	if _, err = tx.ExecContext(ctx, insertAudit, accountID, in.UserID, in.Gender, in.Email, in.RegisterIP); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return accountID, nil
}

var _ ports.AccountRegistry = (*AccountRegistry)(nil)
