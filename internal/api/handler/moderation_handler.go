package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gameops/account-system/internal/api/metrics"
	"github.com/gameops/account-system/internal/core/domain"
	"github.com/gameops/account-system/internal/core/ports"
)

// ModerationHandler handles HTTP requests for ban and unban operations.
type ModerationHandler struct {
	service ports.ModerationService
}

func NewModerationHandler(service ports.ModerationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

type banRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type tempBanRequest struct {
	Reason string    `json:"reason" validate:"required"`
	Until  time.Time `json:"until" validate:"required"`
}

type banRecordResponse struct {
	ID       int64      `json:"id"`
	Kind     string     `json:"kind"`
	BannedBy int64      `json:"banned_by"`
	Until    *time.Time `json:"until,omitempty"`
	Reason   string     `json:"reason"`
	Date     time.Time  `json:"date"`
}

type banStatusResponse struct {
	AccountID int64               `json:"account_id"`
	Current   string              `json:"current"`
	History   []banRecordResponse `json:"history"`
}

// TempBan handles POST /accounts/:id/tempban.
func (h *ModerationHandler) TempBan(c echo.Context) error {
	accountID, err := pathAccountID(c)
	if err != nil {
		return err
	}
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req tempBanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !req.Until.After(time.Now()) {
		return echo.NewHTTPError(http.StatusBadRequest, "until must be in the future")
	}

	if err := h.service.ApplyTemporaryBan(c.Request().Context(), actorID, req.Reason, accountID, req.Until); err != nil {
		if errors.Is(err, domain.ErrBanStateConflict) {
			metrics.BanConflictsTotal.WithLabelValues(domain.BanTemporary.String()).Inc()
		}
		return err
	}

	metrics.BansTotal.WithLabelValues(domain.BanTemporary.String()).Inc()
	return c.NoContent(http.StatusNoContent)
}

// Ban handles POST /accounts/:id/ban.
func (h *ModerationHandler) Ban(c echo.Context) error {
	accountID, err := pathAccountID(c)
	if err != nil {
		return err
	}
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req banRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ApplyPermanentBan(c.Request().Context(), actorID, req.Reason, accountID); err != nil {
		if errors.Is(err, domain.ErrBanStateConflict) {
			metrics.BanConflictsTotal.WithLabelValues(domain.BanPermanent.String()).Inc()
		}
		return err
	}

	metrics.BansTotal.WithLabelValues(domain.BanPermanent.String()).Inc()
	return c.NoContent(http.StatusNoContent)
}

// Unban handles POST /accounts/:id/unban.
func (h *ModerationHandler) Unban(c echo.Context) error {
	accountID, err := pathAccountID(c)
	if err != nil {
		return err
	}
	actorID, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req banRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Unban(c.Request().Context(), actorID, req.Reason, accountID); err != nil {
		if errors.Is(err, domain.ErrBanStateConflict) {
			metrics.BanConflictsTotal.WithLabelValues(domain.BanNone.String()).Inc()
		}
		return err
	}

	metrics.BansTotal.WithLabelValues(domain.BanNone.String()).Inc()
	return c.NoContent(http.StatusNoContent)
}

// BanStatus handles GET /accounts/:id/bans.
func (h *ModerationHandler) BanStatus(c echo.Context) error {
	accountID, err := pathAccountID(c)
	if err != nil {
		return err
	}

	history, err := h.service.BanStatus(c.Request().Context(), accountID)
	if err != nil {
		return err
	}

	resp := banStatusResponse{
		AccountID: accountID,
		Current:   domain.CurrentKind(history).String(),
		History:   make([]banRecordResponse, 0, len(history)),
	}
	for _, record := range history {
		item := banRecordResponse{
			ID:       record.ID,
			Kind:     record.Kind.String(),
			BannedBy: record.BannedBy,
			Reason:   record.Reason,
			Date:     record.CreatedAt,
		}
		if record.Kind == domain.BanTemporary {
			until := record.Until
			item.Until = &until
		}
		resp.History = append(resp.History, item)
	}

	return c.JSON(http.StatusOK, resp)
}
