package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tycoon-banking-engine/internal/usecase/origination"
)

type ApplicantHandler struct{ uc *origination.Usecase }

func NewApplicantHandler(uc *origination.Usecase) *ApplicantHandler {
	return &ApplicantHandler{uc: uc}
}

// Generate produces one fresh applicant for the bank.
func (h *ApplicantHandler) Generate(c echo.Context) error {
	bankID := c.Param("bank_id")
	if !reHex32.MatchString(bankID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bank_id must be 32-char lowercase hex"})
	}
	a, err := h.uc.Generate(c.Request().Context(), bankID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// ListPending returns the bank's open applications.
func (h *ApplicantHandler) ListPending(c echo.Context) error {
	bankID := c.Param("bank_id")
	if !reHex32.MatchString(bankID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bank_id must be 32-char lowercase hex"})
	}
	list, err := h.uc.ListPending(c.Request().Context(), bankID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

type approveApplicantReq struct {
	ApprovedAmount float64 `json:"approved_amount" validate:"required,gt=0,dec2"`
	Rate           float64 `json:"rate"            validate:"omitempty,gt=0,lte=0.40"`
	TermMonths     int     `json:"term_months"     validate:"omitempty,gt=0,lte=360"`
}

// Approve converts a pending application into an active loan.
func (h *ApplicantHandler) Approve(c echo.Context) error {
	var req approveApplicantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	in := origination.ApproveInput{
		ApplicantID:    c.Param("applicant_id"),
		ApprovedAmount: req.ApprovedAmount,
		Rate:           req.Rate,
		TermMonths:     req.TermMonths,
	}
	if err := c.Validate(&in); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	l, err := h.uc.Approve(c.Request().Context(), in)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

// Reject declines a pending application.
func (h *ApplicantHandler) Reject(c echo.Context) error {
	a, err := h.uc.Reject(c.Request().Context(), c.Param("applicant_id"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}
