package loanops

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tycoon-banking-engine/internal/domain/bank"
	"tycoon-banking-engine/internal/domain/loan"
	"tycoon-banking-engine/internal/domain/uow"
)

// Usecase covers manual loan servicing outside the tick: payments, early
// payoff and the administrative terminal transitions.
type Usecase struct {
	uow uow.UnitOfWork
	now func() time.Time
}

func NewUsecase(u uow.UnitOfWork) *Usecase {
	return &Usecase{uow: u, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock swaps the time source. Production wires the shared game clock
// here; tests pin a fixed instant.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

type PayInput struct {
	LoanID string  `json:"loan_id" validate:"required,hex32"`
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

// Pay applies a manual payment using the same amortization split as the
// scheduled path and credits payment XP per settled entry.
func (u *Usecase) Pay(ctx context.Context, in PayInput) (*loan.BankLoan, *loan.PaymentResult, error) {
	var (
		outLoan *loan.BankLoan
		outRes  loan.PaymentResult
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		now := u.now()
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, in.LoanID)
		if err != nil {
			return err
		}

		next, res, err := loan.ApplyPayment(*l, decimal.NewFromFloat(in.Amount).Round(2), now)
		if err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, &next); err != nil {
			return err
		}

		if err := u.creditBank(ctx, r, next.BankID, func(b *bank.BankProfile) {
			b.AddExperience(int64(next.ExperienceEarned - l.ExperienceEarned))
			b.UpsertDailyStats(bank.DailyStats{
				Date:             now.UTC().Format("2006-01-02"),
				PaymentsReceived: res.EntriesSettled,
				InterestPaid:     res.InterestPaid,
				Revenue:          res.InterestPaid,
				Payoffs:          boolToInt(next.Status == loan.StatusPaidOff),
			})
		}); err != nil {
			return err
		}

		outLoan, outRes = &next, res
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return outLoan, &outRes, nil
}

// PayOff settles the full remaining balance plus one month of interest.
func (u *Usecase) PayOff(ctx context.Context, loanID string) (*loan.BankLoan, *loan.PaymentResult, error) {
	var (
		outLoan *loan.BankLoan
		outRes  loan.PaymentResult
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		now := u.now()
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}

		next, res, err := loan.PayOff(*l, now)
		if err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, &next); err != nil {
			return err
		}

		if err := u.creditBank(ctx, r, next.BankID, func(b *bank.BankProfile) {
			b.AddExperience(int64(next.ExperienceEarned - l.ExperienceEarned))
			b.UpsertDailyStats(bank.DailyStats{
				Date:         now.UTC().Format("2006-01-02"),
				Payoffs:      1,
				InterestPaid: res.InterestPaid,
				Revenue:      res.InterestPaid,
			})
		}); err != nil {
			return err
		}

		outLoan, outRes = &next, res
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return outLoan, &outRes, nil
}

// WriteOff charges off a defaulted loan. Terminal.
func (u *Usecase) WriteOff(ctx context.Context, loanID string) (*loan.BankLoan, error) {
	return u.adminTransition(ctx, loanID, loan.WriteOff)
}

// Foreclose seizes collateral on a delinquent or defaulted secured loan.
func (u *Usecase) Foreclose(ctx context.Context, loanID string) (*loan.BankLoan, error) {
	return u.adminTransition(ctx, loanID, loan.Foreclose)
}

func (u *Usecase) adminTransition(
	ctx context.Context,
	loanID string,
	fn func(l loan.BankLoan, now time.Time) (loan.BankLoan, error),
) (*loan.BankLoan, error) {
	var out *loan.BankLoan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		next, err := fn(*l, u.now())
		if err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, &next); err != nil {
			return err
		}
		out = &next
		return nil
	})
	return out, err
}

// Get returns one loan.
func (u *Usecase) Get(ctx context.Context, loanID string) (*loan.BankLoan, error) {
	var out *loan.BankLoan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		out = l
		return nil
	})
	return out, err
}

// ListOpen returns the bank's active and delinquent loans.
func (u *Usecase) ListOpen(ctx context.Context, bankID string) ([]loan.BankLoan, error) {
	var out []loan.BankLoan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		list, err := r.Loans.ListOpenByBank(ctx, bankID)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	return out, err
}

func (u *Usecase) creditBank(ctx context.Context, r uow.Repos, bankID string, apply func(*bank.BankProfile)) error {
	b, err := r.Banks.GetByBankIDForUpdate(ctx, bankID)
	if err != nil {
		return err
	}
	apply(b)
	return r.Banks.Save(ctx, b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
