package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gameops/account-system/internal/api/metrics"
	"github.com/gameops/account-system/internal/core/domain"
	"github.com/gameops/account-system/internal/core/ports"
)

// CreditHandler handles HTTP requests for the credit ledger: deposits,
// balance reads, and transfers between accounts.
type CreditHandler struct {
	registry  ports.AccountRegistry
	credits   ports.CreditService
	transfers ports.TransferService
	dedup     ports.TransferDedup
	log       zerolog.Logger
}

func NewCreditHandler(
	registry ports.AccountRegistry,
	credits ports.CreditService,
	transfers ports.TransferService,
	dedup ports.TransferDedup,
	log zerolog.Logger,
) *CreditHandler {
	return &CreditHandler{
		registry:  registry,
		credits:   credits,
		transfers: transfers,
		dedup:     dedup,
		log:       log,
	}
}

type depositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`

	// DonationAmount, when present, stamps the balance row with the real
	// money value behind this deposit.
	DonationAmount *decimal.Decimal `json:"donation_amount,omitempty"`
}

type balanceResponse struct {
	AccountID int64 `json:"account_id"`
	Balance   int64 `json:"balance"`
}

type transferRequest struct {
	TargetAccountID int64 `json:"target_account_id" validate:"required,gt=0"`
	Amount          int64 `json:"amount" validate:"required"`
}

type transferResponse struct {
	TransferID    string `json:"transfer_id"`
	FromBalance   int64  `json:"from_balance"`
	TargetBalance int64  `json:"target_balance"`
}

// Deposit handles POST /accounts/:id/credits/deposit. The account must exist;
// the ledger itself does not check.
func (h *CreditHandler) Deposit(c echo.Context) error {
	accountID, err := pathAccountID(c)
	if err != nil {
		return err
	}

	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	exists, err := h.registry.Exists(ctx, accountID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrAccountNotFound
	}

	var donation *domain.Donation
	if req.DonationAmount != nil {
		donation = &domain.Donation{Amount: *req.DonationAmount, Date: time.Now().UTC()}
	}

	if err := h.credits.Deposit(ctx, accountID, req.Amount, donation); err != nil {
		return err
	}
	metrics.DepositsTotal.WithLabelValues(boolLabel(donation != nil)).Inc()

	balance, err := h.credits.BalanceOf(ctx, accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{AccountID: accountID, Balance: balance})
}

// Balance handles GET /accounts/:id/credits.
func (h *CreditHandler) Balance(c echo.Context) error {
	accountID, err := pathAccountID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	exists, err := h.registry.Exists(ctx, accountID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrAccountNotFound
	}

	balance, err := h.credits.BalanceOf(ctx, accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{AccountID: accountID, Balance: balance})
}

// Transfer handles POST /credits/transfer. The source account is always the
// authenticated caller. An Idempotency-Key header makes retries safe: a
// replayed key returns the recorded transfer id without moving credits again.
func (h *CreditHandler) Transfer(c echo.Context) error {
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	if idempotencyKey != "" {
		seen, err := h.dedup.Seen(ctx, actorID, idempotencyKey)
		if err != nil {
			h.log.Warn().Err(err).Msg("idempotency check unavailable, proceeding")
		} else if seen {
			transferID, err := h.dedup.TransferID(ctx, actorID, idempotencyKey)
			if err == nil && transferID != "" {
				return c.JSON(http.StatusOK, transferResponse{TransferID: transferID})
			}
		}
	}

	start := time.Now()
	result, err := h.transfers.Transfer(ctx, ports.TransferInput{
		FromAccountID:   actorID,
		TargetAccountID: req.TargetAccountID,
		Amount:          req.Amount,
	})
	metrics.TransferDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TransfersTotal.WithLabelValues(transferResultLabel(err)).Inc()
		var compErr *domain.CompensationError
		if errors.As(err, &compErr) {
			metrics.CompensationFailuresTotal.Inc()
		}
		return err
	}
	metrics.TransfersTotal.WithLabelValues("success").Inc()

	if idempotencyKey != "" {
		if err := h.dedup.Mark(ctx, actorID, idempotencyKey, result.TransferID); err != nil {
			h.log.Warn().Err(err).Str("transfer_id", result.TransferID).Msg("failed to record idempotency key")
		}
	}

	return c.JSON(http.StatusOK, transferResponse{
		TransferID:    result.TransferID,
		FromBalance:   result.FromBalance,
		TargetBalance: result.TargetBalance,
	})
}

func transferResultLabel(err error) string {
	var compErr *domain.CompensationError
	switch {
	case errors.As(err, &compErr):
		return "compensation_failure"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_missing"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrSelfTransfer), errors.Is(err, domain.ErrNonPositiveAmount):
		return "rejected"
	default:
		return "failure"
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
