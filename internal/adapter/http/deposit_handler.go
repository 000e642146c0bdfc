package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tycoon-banking-engine/internal/usecase/depositops"
)

type DepositHandler struct{ uc *depositops.Usecase }

func NewDepositHandler(uc *depositops.Usecase) *DepositHandler { return &DepositHandler{uc: uc} }

// resultStatus picks the HTTP code for a structured operation result.
func resultStatus(res *depositops.Result, created int) int {
	if res.Success {
		return created
	}
	return http.StatusUnprocessableEntity
}

// Open creates a new account at the bank's configured rate.
func (h *DepositHandler) Open(c echo.Context) error {
	var in depositops.OpenInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&in); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	d, res, err := h.uc.Open(c.Request().Context(), in)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(resultStatus(res, http.StatusCreated), map[string]any{"result": res, "account": d})
}

type depositAmountReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *DepositHandler) bindAmount(c echo.Context) (depositops.AmountInput, bool) {
	var req depositAmountReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		return depositops.AmountInput{}, false
	}
	in := depositops.AmountInput{AccountID: c.Param("account_id"), Amount: req.Amount}
	if err := c.Validate(&in); err != nil {
		_ = c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
		return depositops.AmountInput{}, false
	}
	return in, true
}

func (h *DepositHandler) Deposit(c echo.Context) error {
	in, ok := h.bindAmount(c)
	if !ok {
		return nil
	}
	res, err := h.uc.Deposit(c.Request().Context(), in)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(resultStatus(res, http.StatusOK), res)
}

func (h *DepositHandler) Withdraw(c echo.Context) error {
	in, ok := h.bindAmount(c)
	if !ok {
		return nil
	}
	res, err := h.uc.Withdraw(c.Request().Context(), in)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(resultStatus(res, http.StatusOK), res)
}

func (h *DepositHandler) Close(c echo.Context) error {
	res, err := h.uc.Close(c.Request().Context(), c.Param("account_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(resultStatus(res, http.StatusOK), res)
}

func (h *DepositHandler) Get(c echo.Context) error {
	d, err := h.uc.Get(c.Request().Context(), c.Param("account_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}
