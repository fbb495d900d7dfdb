package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditBalance is the single balance row an account owns. The row is created
// lazily by the first deposit; there is never more than one per account.
type CreditBalance struct {
	AccountID          int64           `json:"account_id"`
	Balance            int64           `json:"balance"`
	LastDonationDate   time.Time       `json:"last_donation_date,omitzero"`
	LastDonationAmount decimal.Decimal `json:"last_donation_amount"`
}

// Donation stamps a deposit that originated from a real-money donation.
type Donation struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// TransferRecord is the append-only log entry written after both sides of a
// transfer have succeeded.
type TransferRecord struct {
	TransferID      string    `json:"transfer_id"`
	FromAccountID   int64     `json:"from_account_id"`
	TargetAccountID int64     `json:"target_account_id"`
	Amount          int64     `json:"amount"`
	Date            time.Time `json:"transfer_date"`
}
