package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gameops/account-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Code is
// set only for errors that operators alarm on.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps the domain
// error taxonomy to deterministic HTTP status codes, logs unexpected errors
// without leaking internals, and renders a consistent JSON envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// A failed compensation left a transfer half-applied. Unlike every other
	// error this one names accounts that need manual reconciliation, so it
	// carries a machine-readable code and gets logged at error level.
	var compErr *domain.CompensationError
	if errors.As(err, &compErr) {
		log.Error().
			Int64("from_account_id", compErr.FromAccountID).
			Int64("target_account_id", compErr.TargetAccountID).
			Int64("amount", compErr.Amount).
			Err(err).
			Msg("transfer compensation failed")
		return http.StatusInternalServerError, errorResponse{
			Error: "transfer failed and could not be rolled back",
			Code:  "compensation_failure",
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrAccountBanned):
		return http.StatusForbidden, errorResponse{Error: "account is banned"}
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, errorResponse{Error: "account not found"}
	case errors.Is(err, domain.ErrNoBanHistory):
		return http.StatusNotFound, errorResponse{Error: "account has no ban history"}
	case errors.Is(err, domain.ErrBanStateConflict):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, errorResponse{Error: "insufficient balance"}
	case errors.Is(err, domain.ErrSelfTransfer),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrUsernameTooShort),
		errors.Is(err, domain.ErrUsernameTooLong),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidGender):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrStoreFailure):
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("store failure")
		return http.StatusInternalServerError, errorResponse{Error: "storage unavailable", Code: "store_failure"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
