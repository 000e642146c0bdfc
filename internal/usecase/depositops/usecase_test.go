package depositops

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tycoon-banking-engine/internal/domain/bank"
	"tycoon-banking-engine/internal/domain/deposit"
	"tycoon-banking-engine/internal/domain/uow"
	"tycoon-banking-engine/internal/testutil/bankmock"
	"tycoon-banking-engine/internal/testutil/depositmock"
	"tycoon-banking-engine/internal/testutil/uowmock"
)

var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func savingsAccount(t *testing.T) *deposit.BankDeposit {
	t.Helper()
	d, err := deposit.NewDeposit(
		"dddddddddddddddddddddddddddddddd", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		"Marisol Vega", deposit.CustomerIndividual, deposit.TypeSavings,
		decimal.NewFromInt(500), 0.02, testNow.AddDate(0, -1, 0),
	)
	if err != nil {
		t.Fatalf("new deposit: %v", err)
	}
	return d
}

func newUsecase(d *deposit.BankDeposit, saved **deposit.BankDeposit) *Usecase {
	repos := uow.Repos{
		Deposits: &depositmock.Repo{
			GetByAccountIDForUpdateFn: func(ctx context.Context, id string) (*deposit.BankDeposit, error) {
				return d, nil
			},
			SaveFn: func(ctx context.Context, got *deposit.BankDeposit) error {
				*saved = got
				return nil
			},
		},
		Banks: &bankmock.Repo{},
	}
	return NewUsecase(uowmock.Passthrough(repos)).WithClock(func() time.Time { return testNow })
}

func TestOpen_UsesBankRate(t *testing.T) {
	profile := bank.NewBankProfile("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "First Meridian", "", "", testNow)
	if err := profile.SetDepositRate(deposit.TypeSavings, 0.03); err != nil {
		t.Fatal(err)
	}

	var created *deposit.BankDeposit
	repos := uow.Repos{
		Deposits: &depositmock.Repo{
			CreateFn: func(ctx context.Context, d *deposit.BankDeposit) error {
				created = d
				return nil
			},
		},
		Banks: &bankmock.Repo{
			GetOrCreateFn: func(ctx context.Context, id string, create func() *bank.BankProfile) (*bank.BankProfile, error) {
				return profile, nil
			},
		},
	}
	u := NewUsecase(uowmock.Passthrough(repos)).WithClock(func() time.Time { return testNow })

	d, res, err := u.Open(context.Background(), OpenInput{
		BankID:         profile.BankID,
		CustomerName:   "Marisol Vega",
		AccountType:    "SAVINGS",
		InitialDeposit: 500,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !res.Success || created == nil || d != created {
		t.Fatal("account not created")
	}
	if d.Rate != 0.03 {
		t.Fatalf("rate %v, want bank-configured 0.03", d.Rate)
	}
}

func TestOpen_BelowMinimumIsStructuredRejection(t *testing.T) {
	repos := uow.Repos{
		Deposits: &depositmock.Repo{},
		Banks: &bankmock.Repo{
			GetOrCreateFn: func(ctx context.Context, id string, create func() *bank.BankProfile) (*bank.BankProfile, error) {
				return bank.NewBankProfile(id, "Bank", "", "", testNow), nil
			},
		},
	}
	u := NewUsecase(uowmock.Passthrough(repos)).WithClock(func() time.Time { return testNow })

	d, res, err := u.Open(context.Background(), OpenInput{
		BankID:         "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		CustomerName:   "Marisol Vega",
		AccountType:    "SAVINGS",
		InitialDeposit: 10,
	})
	if err != nil {
		t.Fatalf("rejection must not be an error: %v", err)
	}
	if d != nil || res.Success {
		t.Fatalf("expected structured rejection, got %+v", res)
	}
	if res.Message == "" {
		t.Fatal("rejection needs a message")
	}
}

func TestDeposit_Succeeds(t *testing.T) {
	d := savingsAccount(t)
	var saved *deposit.BankDeposit
	u := newUsecase(d, &saved)

	res, err := u.Deposit(context.Background(), AmountInput{AccountID: d.AccountID, Amount: 250})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !res.Success || !res.Balance.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("result %+v", res)
	}
	if saved == nil || !saved.Balance.Equal(decimal.NewFromInt(750)) {
		t.Fatal("mutation not persisted")
	}
}

func TestWithdraw_CapIsStructuredRejection(t *testing.T) {
	d := savingsAccount(t)
	d.WithdrawalsThisMonth = 6
	d.WithdrawalMonth = testNow.UTC().Format("2006-01")
	var saved *deposit.BankDeposit
	u := newUsecase(d, &saved)

	res, err := u.Withdraw(context.Background(), AmountInput{AccountID: d.AccountID, Amount: 50})
	if err != nil {
		t.Fatalf("cap rejection must not be an error: %v", err)
	}
	if res.Success {
		t.Fatal("7th withdrawal must be rejected")
	}
	if saved != nil {
		t.Fatal("rejected withdrawal must not persist")
	}
}

func TestClose_ReturnsPayout(t *testing.T) {
	d := savingsAccount(t)
	var saved *deposit.BankDeposit
	u := newUsecase(d, &saved)

	res, err := u.Close(context.Background(), d.AccountID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !res.Success || !res.Balance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("result %+v", res)
	}
	if saved == nil || saved.Status != deposit.StatusClosed || !saved.Balance.IsZero() {
		t.Fatal("account not closed")
	}
}

func TestGet_NotFoundIsError(t *testing.T) {
	repos := uow.Repos{Deposits: &depositmock.Repo{}, Banks: &bankmock.Repo{}}
	u := NewUsecase(uowmock.Passthrough(repos))

	_, err := u.Get(context.Background(), "ffffffffffffffffffffffffffffffff")
	if !errors.Is(err, deposit.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
