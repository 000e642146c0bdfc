package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tycoon-banking-engine/internal/usecase/loanops"
)

type LoanHandler struct{ uc *loanops.Usecase }

func NewLoanHandler(uc *loanops.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

func (h *LoanHandler) GetLoan(c echo.Context) error {
	l, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) ListOpen(c echo.Context) error {
	bankID := c.Param("bank_id")
	if !reHex32.MatchString(bankID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bank_id must be 32-char lowercase hex"})
	}
	list, err := h.uc.ListOpen(c.Request().Context(), bankID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

type payLoanReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

// Pay applies a manual payment against the schedule.
func (h *LoanHandler) Pay(c echo.Context) error {
	var req payLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	in := loanops.PayInput{LoanID: c.Param("loan_id"), Amount: req.Amount}
	if err := c.Validate(&in); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	l, res, err := h.uc.Pay(c.Request().Context(), in)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan": l, "result": res})
}

// PayOff settles the remaining balance in one sweep.
func (h *LoanHandler) PayOff(c echo.Context) error {
	l, res, err := h.uc.PayOff(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan": l, "result": res})
}

// WriteOff retires a defaulted loan as a loss.
func (h *LoanHandler) WriteOff(c echo.Context) error {
	l, err := h.uc.WriteOff(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

// Foreclose seizes collateral on a defaulted secured loan.
func (h *LoanHandler) Foreclose(c echo.Context) error {
	l, err := h.uc.Foreclose(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}
