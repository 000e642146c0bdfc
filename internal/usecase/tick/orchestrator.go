package tick

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"tycoon-banking-engine/internal/domain/bank"
	"tycoon-banking-engine/internal/domain/deposit"
	"tycoon-banking-engine/internal/domain/loan"
	"tycoon-banking-engine/internal/domain/uow"
	"tycoon-banking-engine/pkg/gametime"
	"tycoon-banking-engine/pkg/random"
)

// Marker records per-bank tick completion so a re-invoked tick is a no-op.
type Marker interface {
	AlreadyProcessed(ctx context.Context, bankID string, tick int64) (bool, error)
	MarkProcessed(ctx context.Context, bankID string, tick int64) error
}

// Options scopes and modifies one tick pass.
type Options struct {
	// DryRun computes every result without persisting any mutation or marking
	// the tick processed.
	DryRun    bool   `json:"dry_run,omitempty"`
	PlayerID  string `json:"player_id,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
}

// EntityError is one isolated per-entity failure inside a tick.
type EntityError struct {
	EntityID    string `json:"entity_id"`
	EntityType  string `json:"entity_type"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

// Summary aggregates one pass across all processed banks.
type Summary struct {
	BanksProcessed   int             `json:"banks_processed"`
	BanksSkipped     int             `json:"banks_skipped"`
	LoansProcessed   int             `json:"loans_processed"`
	PaymentsReceived int             `json:"payments_received"`
	PaymentsMissed   int             `json:"payments_missed"`
	LateFees         decimal.Decimal `json:"late_fees"`
	Defaults         int             `json:"defaults"`
	Payoffs          int             `json:"payoffs"`
	DepositsAccrued  int             `json:"deposits_accrued"`
	DepositsMatured  int             `json:"deposits_matured"`
	Revenue          decimal.Decimal `json:"revenue"`
	Expenses         decimal.Decimal `json:"expenses"`
	NetProfit        decimal.Decimal `json:"net_profit"`
}

func emptySummary() Summary {
	return Summary{
		LateFees:  decimal.Zero,
		Revenue:   decimal.Zero,
		Expenses:  decimal.Zero,
		NetProfit: decimal.Zero,
	}
}

// Result is what the external scheduler receives for one tick.
type Result struct {
	Success        bool          `json:"success"`
	ItemsProcessed int           `json:"items_processed"`
	Errors         []EntityError `json:"errors"`
	Summary        Summary       `json:"summary"`
	DurationMs     int64         `json:"duration_ms"`
}

// Orchestrator runs the per-tick batch pass over all banks.
type Orchestrator struct {
	uow    uow.UnitOfWork
	marker Marker
	rng    random.Rand
	log    *slog.Logger
}

func NewOrchestrator(u uow.UnitOfWork, m Marker, rng random.Rand, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{uow: u, marker: m, rng: rng, log: log}
}

// Process runs one tick. Per-entity errors are isolated: a failing loan or
// deposit is recorded and its siblings continue; a non-recoverable bank failure
// aborts only that bank.
func (o *Orchestrator) Process(ctx context.Context, gt gametime.GameTime, opts Options) (*Result, error) {
	started := time.Now()
	res := &Result{Summary: emptySummary(), Errors: []EntityError{}}

	var banks []bank.BankProfile
	err := o.uow.WithinTx(ctx, func(r uow.Repos) error {
		list, err := r.Banks.List(ctx, bank.ListFilter{PlayerID: opts.PlayerID, CompanyID: opts.CompanyID})
		if err != nil {
			return err
		}
		banks = list
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range banks {
		b := banks[i]

		if !opts.DryRun && o.marker != nil {
			done, err := o.marker.AlreadyProcessed(ctx, b.BankID, gt.Tick)
			if err != nil {
				res.Errors = append(res.Errors, EntityError{
					EntityID: b.BankID, EntityType: "bank", Message: err.Error(), Recoverable: true,
				})
				continue
			}
			if done {
				res.Summary.BanksSkipped++
				continue
			}
		}

		if err := o.processBank(ctx, &b, gt, opts, res); err != nil {
			o.log.Error("bank tick aborted",
				slog.String("bank_id", b.BankID),
				slog.Int64("tick", gt.Tick),
				slog.String("error", err.Error()))
			res.Errors = append(res.Errors, EntityError{
				EntityID: b.BankID, EntityType: "bank", Message: err.Error(), Recoverable: false,
			})
			continue
		}

		if !opts.DryRun && o.marker != nil {
			if err := o.marker.MarkProcessed(ctx, b.BankID, gt.Tick); err != nil {
				res.Errors = append(res.Errors, EntityError{
					EntityID: b.BankID, EntityType: "bank", Message: err.Error(), Recoverable: true,
				})
			}
		}
		res.Summary.BanksProcessed++
	}

	res.Success = len(res.Errors) == 0
	res.DurationMs = time.Since(started).Milliseconds()
	return res, nil
}

// processBank runs loans then deposits for one bank inside one transaction and
// writes the bank's aggregate counters exactly once.
func (o *Orchestrator) processBank(ctx context.Context, b *bank.BankProfile, gt gametime.GameTime, opts Options, res *Result) error {
	return o.uow.WithinTx(ctx, func(r uow.Repos) error {
		profile, err := r.Banks.GetByBankIDForUpdate(ctx, b.BankID)
		if err != nil {
			return err
		}

		day := bank.DailyStats{
			Date:         gt.DateKey(),
			LateFees:     decimal.Zero,
			InterestPaid: decimal.Zero,
			Revenue:      decimal.Zero,
			Expenses:     decimal.Zero,
			NetProfit:    decimal.Zero,
		}
		xp := int64(0)

		loans, err := r.Loans.ListOpenByBank(ctx, b.BankID)
		if err != nil {
			return err
		}
		for i := range loans {
			l := loans[i]
			next, out, err := loan.ProcessTick(l, gt.Timestamp, o.rng)
			if err != nil {
				res.Errors = append(res.Errors, EntityError{
					EntityID: l.LoanID, EntityType: "loan", Message: err.Error(), Recoverable: true,
				})
				continue
			}
			if !out.Acted {
				continue
			}
			if !opts.DryRun {
				if err := r.Loans.Save(ctx, &next); err != nil {
					res.Errors = append(res.Errors, EntityError{
						EntityID: l.LoanID, EntityType: "loan", Message: err.Error(), Recoverable: true,
					})
					continue
				}
			}

			res.ItemsProcessed++
			res.Summary.LoansProcessed++
			xp += int64(out.Experience)
			if out.Paid {
				res.Summary.PaymentsReceived++
				day.PaymentsReceived++
				day.InterestPaid = day.InterestPaid.Add(out.InterestAccrued)
				day.Revenue = day.Revenue.Add(out.InterestAccrued)
			}
			if out.Missed {
				res.Summary.PaymentsMissed++
			}
			if out.LateFee.IsPositive() {
				res.Summary.LateFees = res.Summary.LateFees.Add(out.LateFee)
				day.LateFees = day.LateFees.Add(out.LateFee)
				day.Revenue = day.Revenue.Add(out.LateFee)
			}
			if out.Defaulted {
				res.Summary.Defaults++
				day.Defaults++
				day.Expenses = day.Expenses.Add(next.PrincipalBalance)
			}
			if out.PaidOff {
				res.Summary.Payoffs++
				day.Payoffs++
			}
		}

		deposits, err := r.Deposits.ListActiveByBank(ctx, b.BankID)
		if err != nil {
			return err
		}
		for i := range deposits {
			d := deposits[i]
			next, interest, err := deposit.AccrueInterest(d, gt.Timestamp)
			if err != nil {
				res.Errors = append(res.Errors, EntityError{
					EntityID: d.AccountID, EntityType: "deposit", Message: err.Error(), Recoverable: true,
				})
				continue
			}

			matured := false
			next, matured = deposit.CheckMaturity(next, gt.Timestamp)

			changed := interest.IsPositive() || matured
			if !changed {
				continue
			}
			if !opts.DryRun {
				if err := r.Deposits.Save(ctx, &next); err != nil {
					res.Errors = append(res.Errors, EntityError{
						EntityID: d.AccountID, EntityType: "deposit", Message: err.Error(), Recoverable: true,
					})
					continue
				}
			}

			res.ItemsProcessed++
			if interest.IsPositive() {
				res.Summary.DepositsAccrued++
				day.Expenses = day.Expenses.Add(interest)
			}
			if matured {
				res.Summary.DepositsMatured++
				day.DepositsMatured++
				xp += int64(deposit.XPDepositMatured)
			}
		}

		day.NetProfit = day.Revenue.Sub(day.Expenses)
		res.Summary.Revenue = res.Summary.Revenue.Add(day.Revenue)
		res.Summary.Expenses = res.Summary.Expenses.Add(day.Expenses)
		res.Summary.NetProfit = res.Summary.NetProfit.Add(day.NetProfit)

		if opts.DryRun {
			return nil
		}

		// One combined bank write per tick: stats and XP land together.
		profile.UpsertDailyStats(day)
		profile.AddExperience(xp)
		return r.Banks.Save(ctx, profile)
	})
}
