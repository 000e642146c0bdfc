package depositops

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tycoon-banking-engine/internal/domain/bank"
	"tycoon-banking-engine/internal/domain/deposit"
	"tycoon-banking-engine/internal/domain/uow"
	"tycoon-banking-engine/pkg/id"
)

// Usecase covers customer-facing deposit account actions. Business-rule
// rejections come back as structured results, not errors; only infrastructure
// and not-found failures surface as errors.
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

// Result is the outcome of a deposit account operation.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Balance decimal.Decimal `json:"balance"`
	Penalty decimal.Decimal `json:"penalty,omitempty"`
}

// businessRejections are returned to the caller as {success:false, message},
// in contrast to validation and infrastructure errors.
var businessRejections = []error{
	deposit.ErrAccountClosed,
	deposit.ErrInvalidAmount,
	deposit.ErrInsufficientFunds,
	deposit.ErrBelowMinimumBalance,
	deposit.ErrWithdrawalCapReached,
}

func rejection(err error, balance decimal.Decimal) (*Result, bool) {
	for _, sentinel := range businessRejections {
		if errors.Is(err, sentinel) {
			return &Result{Success: false, Message: sentinel.Error(), Balance: balance}, true
		}
	}
	return nil, false
}

type OpenInput struct {
	BankID         string  `json:"bank_id" validate:"required,hex32"`
	CustomerName   string  `json:"customer_name" validate:"required,max=128"`
	CustomerType   string  `json:"customer_type" validate:"omitempty,oneof=INDIVIDUAL BUSINESS"`
	AccountType    string  `json:"account_type" validate:"required,oneof=CHECKING SAVINGS MONEY_MARKET CD_3 CD_6 CD_12"`
	InitialDeposit float64 `json:"initial_deposit" validate:"required,gt=0,dec2"`
}

// Open creates an account at the bank's configured rate for the account type.
func (u *Usecase) Open(ctx context.Context, in OpenInput) (*deposit.BankDeposit, *Result, error) {
	var (
		outDep *deposit.BankDeposit
		outRes *Result
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		now := u.now()
		profile, err := r.Banks.GetOrCreate(ctx, in.BankID, func() *bank.BankProfile {
			return bank.NewBankProfile(in.BankID, "Bank "+in.BankID[:8], "", "", now)
		})
		if err != nil {
			return err
		}

		custType := deposit.CustomerType(in.CustomerType)
		if custType == "" {
			custType = deposit.CustomerIndividual
		}
		accType := deposit.AccountType(in.AccountType)

		d, err := deposit.NewDeposit(
			id.NewID32(), in.BankID, in.CustomerName, custType, accType,
			decimal.NewFromFloat(in.InitialDeposit).Round(2),
			profile.DepositRateFor(accType), now,
		)
		if err != nil {
			if res, ok := rejection(err, decimal.Zero); ok {
				outRes = res
				return nil
			}
			return err
		}
		if err := r.Deposits.Create(ctx, d); err != nil {
			return err
		}
		outDep = d
		outRes = &Result{Success: true, Balance: d.Balance}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return outDep, outRes, nil
}

type AmountInput struct {
	AccountID string  `json:"account_id" validate:"required,hex32"`
	Amount    float64 `json:"amount" validate:"required,gt=0,dec2"`
}

// Deposit adds funds to an account.
func (u *Usecase) Deposit(ctx context.Context, in AmountInput) (*Result, error) {
	return u.mutate(ctx, in.AccountID, func(d deposit.BankDeposit, now time.Time) (deposit.BankDeposit, *Result, error) {
		next, err := deposit.Deposit(d, decimal.NewFromFloat(in.Amount).Round(2), now)
		if err != nil {
			return d, nil, err
		}
		return next, &Result{Success: true, Balance: next.Balance}, nil
	})
}

// Withdraw removes funds, applying any early-CD penalty the domain computes.
func (u *Usecase) Withdraw(ctx context.Context, in AmountInput) (*Result, error) {
	return u.mutate(ctx, in.AccountID, func(d deposit.BankDeposit, now time.Time) (deposit.BankDeposit, *Result, error) {
		next, res, err := deposit.Withdraw(d, decimal.NewFromFloat(in.Amount).Round(2), now)
		if err != nil {
			return d, nil, err
		}
		return next, &Result{Success: true, Balance: res.Balance, Penalty: res.Penalty}, nil
	})
}

// Close zeroes and closes the account, deducting any outstanding penalty.
func (u *Usecase) Close(ctx context.Context, accountID string) (*Result, error) {
	return u.mutate(ctx, accountID, func(d deposit.BankDeposit, now time.Time) (deposit.BankDeposit, *Result, error) {
		next, res, err := deposit.Close(d, now)
		if err != nil {
			return d, nil, err
		}
		return next, &Result{Success: true, Balance: res.Paid, Penalty: res.Penalty}, nil
	})
}

// Get returns one account.
func (u *Usecase) Get(ctx context.Context, accountID string) (*deposit.BankDeposit, error) {
	var out *deposit.BankDeposit
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Deposits.GetByAccountID(ctx, accountID)
		if err != nil {
			return err
		}
		out = d
		return nil
	})
	return out, err
}

func (u *Usecase) mutate(
	ctx context.Context,
	accountID string,
	fn func(d deposit.BankDeposit, now time.Time) (deposit.BankDeposit, *Result, error),
) (*Result, error) {
	var out *Result
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Deposits.GetByAccountIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		next, res, err := fn(*d, u.now())
		if err != nil {
			if rej, ok := rejection(err, d.Balance); ok {
				out = rej
				return nil
			}
			return err
		}
		if err := r.Deposits.Save(ctx, &next); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
