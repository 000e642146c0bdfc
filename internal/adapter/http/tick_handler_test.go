package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"testing"
	"time"

	"tycoon-banking-engine/internal/domain/applicant"
	"tycoon-banking-engine/internal/domain/uow"
	"tycoon-banking-engine/internal/testutil/applicantmock"
	"tycoon-banking-engine/internal/testutil/bankmock"
	"tycoon-banking-engine/internal/testutil/markermock"
	"tycoon-banking-engine/internal/testutil/uowmock"
	"tycoon-banking-engine/internal/usecase/origination"
	"tycoon-banking-engine/internal/usecase/tick"
	"tycoon-banking-engine/pkg/gametime"
	"tycoon-banking-engine/pkg/random"
)

func newTickHandler(repos uow.Repos) *TickHandler {
	orch := tick.NewOrchestrator(uowmock.Passthrough(repos), markermock.New(), random.NewSeeded(1), nil)
	orig := newOrigination(repos)
	return NewTickHandler(orch, orig, gametime.NewClock(), nil)
}

func TestRunTick_EmptyWorld(t *testing.T) {
	e := newEchoWithValidator()
	h := newTickHandler(uow.Repos{Banks: &bankmock.Repo{}, Applicants: &applicantmock.Repo{}})

	c, rec := newJSONContext(e, stdhttp.MethodPost, "/ticks", map[string]any{
		"tick":      42,
		"timestamp": handlerNow.Format(time.RFC3339),
	})
	if err := h.RunTick(c); err != nil {
		t.Fatalf("RunTick error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	var res tick.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !res.Success || res.ItemsProcessed != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRunTick_BadTimestamp(t *testing.T) {
	e := newEchoWithValidator()
	h := newTickHandler(uow.Repos{Banks: &bankmock.Repo{}, Applicants: &applicantmock.Repo{}})

	c, rec := newJSONContext(e, stdhttp.MethodPost, "/ticks", map[string]any{
		"tick":      42,
		"timestamp": "yesterday",
	})
	if err := h.RunTick(c); err != nil {
		t.Fatalf("RunTick error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !containsFieldMsg(er.Details, "Timestamp", "RFC3339") {
		t.Fatalf("missing timestamp detail: %+v", er.Details)
	}
}

func TestRunTick_ExpirySweepRunsOnGameClock(t *testing.T) {
	e := newEchoWithValidator()

	// Open at game time even though the expiry date is long past by wall time:
	// the sweep has to use the tick's timestamp, not time.Now.
	a := pendingApplicant()
	a.ExpiresAt = handlerNow.Add(48 * time.Hour)

	var saved *applicant.LoanApplicant
	repos := uow.Repos{
		Banks: &bankmock.Repo{},
		Applicants: &applicantmock.Repo{
			ListExpiredFn: func(ctx context.Context, now time.Time) ([]applicant.LoanApplicant, error) {
				if !now.Equal(handlerNow) {
					t.Fatalf("sweep ran at %s, want game time %s", now, handlerNow)
				}
				return []applicant.LoanApplicant{*a}, nil
			},
			SaveFn: func(ctx context.Context, got *applicant.LoanApplicant) error {
				saved = got
				return nil
			},
		},
	}

	clock := gametime.NewClock()
	orch := tick.NewOrchestrator(uowmock.Passthrough(repos), markermock.New(), random.NewSeeded(1), nil)
	orig := origination.NewUsecase(uowmock.Passthrough(repos), origination.NewGenerator(random.NewSeeded(1))).
		WithClock(clock.Now)
	h := NewTickHandler(orch, orig, clock, nil)

	c, rec := newJSONContext(e, stdhttp.MethodPost, "/ticks", map[string]any{
		"tick":      42,
		"timestamp": handlerNow.Format(time.RFC3339),
	})
	if err := h.RunTick(c); err != nil {
		t.Fatalf("RunTick error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	if saved != nil {
		t.Fatalf("applicant expired against the wrong clock: %+v", saved)
	}
}

func TestRunTick_PlayerFilterValidated(t *testing.T) {
	e := newEchoWithValidator()
	h := newTickHandler(uow.Repos{Banks: &bankmock.Repo{}, Applicants: &applicantmock.Repo{}})

	c, rec := newJSONContext(e, stdhttp.MethodPost, "/ticks", map[string]any{
		"tick":      42,
		"timestamp": handlerNow.Format(time.RFC3339),
		"player_id": "NOT_HEX",
	})
	if err := h.RunTick(c); err != nil {
		t.Fatalf("RunTick error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}
