package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tycoon-banking-engine/internal/domain/applicant"
	"tycoon-banking-engine/internal/domain/bank"
	"tycoon-banking-engine/internal/domain/deposit"
	"tycoon-banking-engine/internal/domain/loan"
	"tycoon-banking-engine/internal/domain/risk"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// domainStatus maps domain sentinels to HTTP codes. Anything unrecognized is
// treated as an infrastructure failure.
func domainStatus(err error) int {
	switch {
	case errors.Is(err, applicant.ErrNotFound),
		errors.Is(err, loan.ErrNotFound),
		errors.Is(err, deposit.ErrNotFound),
		errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, applicant.ErrNotPending),
		errors.Is(err, applicant.ErrApplicationExpired),
		errors.Is(err, loan.ErrTerminalState),
		errors.Is(err, loan.ErrNotServiceable),
		errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, loan.ErrNoCollateral):
		return http.StatusConflict
	case errors.Is(err, bank.ErrApprovalForbidden):
		return http.StatusForbidden
	case errors.Is(err, bank.ErrRateOutOfBounds),
		errors.Is(err, bank.ErrUnknownPolicy),
		errors.Is(err, risk.ErrUnknownTier),
		errors.Is(err, deposit.ErrUnknownAccountType):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(c echo.Context, err error) error {
	code := domainStatus(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}
