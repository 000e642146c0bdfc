package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tycoon-banking-engine/internal/infrastructure/observability"
	"tycoon-banking-engine/internal/usecase/origination"
	"tycoon-banking-engine/internal/usecase/tick"
	"tycoon-banking-engine/pkg/gametime"
)

type TickHandler struct {
	orch    *tick.Orchestrator
	orig    *origination.Usecase
	clock   *gametime.Clock
	metrics *observability.Metrics
}

func NewTickHandler(orch *tick.Orchestrator, orig *origination.Usecase, clock *gametime.Clock, m *observability.Metrics) *TickHandler {
	return &TickHandler{orch: orch, orig: orig, clock: clock, metrics: m}
}

type runTickReq struct {
	Tick      int64  `json:"tick"      validate:"gte=0"`
	Timestamp string `json:"timestamp" validate:"required"`
	DryRun    bool   `json:"dry_run"`
	PlayerID  string `json:"player_id"  validate:"omitempty,hex32"`
	CompanyID string `json:"company_id" validate:"omitempty,hex32"`
}

// RunTick drives one scheduler tick. The response always carries the full
// result; partial failure shows up as success=false with per-entity errors.
func (h *TickHandler) RunTick(c echo.Context) error {
	var req runTickReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "Timestamp", Message: "must be RFC3339"}},
		})
	}

	gt := gametime.GameTime{Tick: req.Tick, Timestamp: ts.UTC()}
	opts := tick.Options{DryRun: req.DryRun, PlayerID: req.PlayerID, CompanyID: req.CompanyID}

	if !req.DryRun && h.clock != nil {
		// Player actions between ticks run on the game clock, not wall time.
		h.clock.Advance(gt.Timestamp)
	}

	res, err := h.orch.Process(c.Request().Context(), gt, opts)
	if err != nil {
		return jsonError(c, err)
	}

	if !req.DryRun {
		// Stale applications age out on the same cadence as the tick.
		if _, err := h.orig.ExpirePending(c.Request().Context()); err != nil {
			res.Errors = append(res.Errors, tick.EntityError{
				EntityType:  "applicant",
				Message:     err.Error(),
				Recoverable: true,
			})
			res.Success = false
		}
	}

	h.record(res)
	return c.JSON(http.StatusOK, res)
}

func (h *TickHandler) record(res *tick.Result) {
	if h.metrics == nil {
		return
	}
	h.metrics.TicksProcessed.Inc()
	h.metrics.TickDuration.Observe(float64(res.DurationMs) / 1000)
	h.metrics.LoansProcessed.Add(float64(res.Summary.LoansProcessed))
	h.metrics.Payments.Add(float64(res.Summary.PaymentsReceived))
	h.metrics.MissedPayments.Add(float64(res.Summary.PaymentsMissed))
	h.metrics.Defaults.Add(float64(res.Summary.Defaults))
	h.metrics.DepositsAccrued.Add(float64(res.Summary.DepositsAccrued))
}
