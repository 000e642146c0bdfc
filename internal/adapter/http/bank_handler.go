package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tycoon-banking-engine/internal/usecase/banksettings"
)

type BankHandler struct{ uc *banksettings.Usecase }

func NewBankHandler(uc *banksettings.Usecase) *BankHandler { return &BankHandler{uc: uc} }

// GetSettings returns the profile, creating a level-1 bank on first contact.
func (h *BankHandler) GetSettings(c echo.Context) error {
	bankID := c.Param("bank_id")
	if !reHex32.MatchString(bankID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bank_id must be 32-char lowercase hex"})
	}
	profile, err := h.uc.Get(c.Request().Context(), bankID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

type updateSettingsReq struct {
	DepositRates map[string]float64 `json:"deposit_rates,omitempty"`
	LoanRates    map[string]float64 `json:"loan_rates,omitempty"`
	Policy       string             `json:"policy,omitempty"`
}

// UpdateSettings applies rate and policy changes atomically.
func (h *BankHandler) UpdateSettings(c echo.Context) error {
	var req updateSettingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	in := banksettings.UpdateInput{
		BankID:       c.Param("bank_id"),
		DepositRates: req.DepositRates,
		LoanRates:    req.LoanRates,
		Policy:       req.Policy,
	}
	if err := c.Validate(&in); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	profile, err := h.uc.Update(c.Request().Context(), in)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
