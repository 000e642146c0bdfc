package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	applicantDomain "tycoon-banking-engine/internal/domain/applicant"
	bankDomain "tycoon-banking-engine/internal/domain/bank"
	depositDomain "tycoon-banking-engine/internal/domain/deposit"
	loanDomain "tycoon-banking-engine/internal/domain/loan"
	"tycoon-banking-engine/internal/domain/risk"
	"tycoon-banking-engine/internal/domain/uow"
	"tycoon-banking-engine/pkg/id"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&applicantDomain.LoanApplicant{},
		&loanDomain.BankLoan{},
		&depositDomain.BankDeposit{},
		&bankDomain.BankProfile{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

var testStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func makeLoan(t *testing.T, bankID string) *loanDomain.BankLoan {
	t.Helper()
	l, err := loanDomain.NewLoan(
		id.NewID32(), bankID, id.NewID32(),
		loanDomain.BorrowerSnapshot{Name: "Dana Okafor", CreditScore: 760, Tier: risk.TierPrime},
		decimal.NewFromInt(12_000), 0.12, 24, nil, testStart,
	)
	if err != nil {
		t.Fatalf("new loan: %v", err)
	}
	return l
}

func TestLoanRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan(t, id.NewID32())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != loanDomain.StatusActive {
		t.Fatalf("status %s", got.Status)
	}
	// The JSON-serialized schedule survives the round trip intact.
	if len(got.Schedule) != 24 {
		t.Fatalf("schedule length %d", len(got.Schedule))
	}
	if !got.Schedule[0].Interest.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("first interest %s", got.Schedule[0].Interest)
	}
	if !got.PrincipalBalance.Equal(decimal.NewFromInt(12_000)) {
		t.Fatalf("balance %s", got.PrincipalBalance)
	}

	got.Status = loanDomain.StatusDelinquent
	got.DaysDelinquent = 30
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Status != loanDomain.StatusDelinquent || again.DaysDelinquent != 30 {
		t.Fatalf("update lost: %s / %d", again.Status, again.DaysDelinquent)
	}
}

func TestLoanRepository_NotFoundSentinel(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))

	_, err := repo.GetByLoanID(context.Background(), id.NewID32())
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("got %v, want domain ErrNotFound", err)
	}
}

func TestLoanRepository_ListOpenByBank(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	bankID := id.NewID32()

	open := makeLoan(t, bankID)
	delinquent := makeLoan(t, bankID)
	delinquent.Status = loanDomain.StatusDelinquent
	retired := makeLoan(t, bankID)
	retired.Status = loanDomain.StatusPaidOff
	other := makeLoan(t, id.NewID32())

	for _, l := range []*loanDomain.BankLoan{open, delinquent, retired, other} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListOpenByBank(ctx, bankID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d loans, want 2", len(got))
	}
	for _, l := range got {
		if l.BankID != bankID || l.Status.Terminal() {
			t.Fatalf("wrong loan in list: %+v", l)
		}
	}
}

func TestApplicantRepository_ListFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicantRepository(db)
	ctx := context.Background()
	bankID := id.NewID32()

	mk := func(status applicantDomain.Status, expires time.Time) *applicantDomain.LoanApplicant {
		a := &applicantDomain.LoanApplicant{
			ApplicantID: id.NewID32(), BankID: bankID,
			Name: "Priya Patel", CreditScore: 700, AnnualIncome: 80_000,
			RequestedAmount: 10_000, Purpose: applicantDomain.PurposePersonal, TermMonths: 36,
			Status: status, AppliedAt: testStart, ExpiresAt: expires,
		}
		a.Reassess()
		return a
	}

	pending := mk(applicantDomain.StatusPending, testStart.Add(48*time.Hour))
	stale := mk(applicantDomain.StatusPending, testStart.Add(12*time.Hour))
	approved := mk(applicantDomain.StatusApproved, testStart.Add(48*time.Hour))
	for _, a := range []*applicantDomain.LoanApplicant{pending, stale, approved} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListPendingByBank(ctx, bankID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("pending count %d, want 2", len(got))
	}

	expired, err := repo.ListExpired(ctx, testStart.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("list expired: %v", err)
	}
	if len(expired) != 1 || expired[0].ApplicantID != stale.ApplicantID {
		t.Fatalf("expired: %+v", expired)
	}
}

func TestDepositRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewDepositRepository(db)
	ctx := context.Background()
	bankID := id.NewID32()

	d, err := depositDomain.NewDeposit(
		id.NewID32(), bankID, "Marisol Vega",
		depositDomain.CustomerIndividual, depositDomain.TypeCD6,
		decimal.NewFromInt(2_000), 0.035, testStart,
	)
	if err != nil {
		t.Fatalf("new deposit: %v", err)
	}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByAccountID(ctx, d.AccountID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MaturityDate == nil || !got.MaturityDate.Equal(testStart.AddDate(0, 6, 0)) {
		t.Fatalf("maturity %v", got.MaturityDate)
	}
	if len(got.Transactions) != 1 || got.Transactions[0].Type != depositDomain.TxDeposit {
		t.Fatalf("transaction log: %+v", got.Transactions)
	}

	closed, err := depositDomain.NewDeposit(
		id.NewID32(), bankID, "Ivo Novak",
		depositDomain.CustomerIndividual, depositDomain.TypeChecking,
		decimal.NewFromInt(100), 0.001, testStart,
	)
	if err != nil {
		t.Fatal(err)
	}
	closed.Status = depositDomain.StatusClosed
	if err := repo.Create(ctx, closed); err != nil {
		t.Fatal(err)
	}

	active, err := repo.ListActiveByBank(ctx, bankID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].AccountID != d.AccountID {
		t.Fatalf("active list: %+v", active)
	}
}

func TestBankRepository_GetOrCreate(t *testing.T) {
	db := openTestDB(t)
	repo := NewBankRepository(db)
	ctx := context.Background()
	bankID := id.NewID32()

	created, err := repo.GetOrCreate(ctx, bankID, func() *bankDomain.BankProfile {
		return bankDomain.NewBankProfile(bankID, "First Meridian", "", "", testStart)
	})
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if created.Level != 1 {
		t.Fatalf("level %d", created.Level)
	}

	again, err := repo.GetOrCreate(ctx, bankID, func() *bankDomain.BankProfile {
		t.Fatal("create must not run when the profile exists")
		return nil
	})
	if err != nil {
		t.Fatalf("second get or create: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("different rows: %d vs %d", again.ID, created.ID)
	}

	// Rate and stats maps survive the JSON serializer round trip.
	if err := again.SetLoanRate(risk.TierPrime, 0.07); err != nil {
		t.Fatal(err)
	}
	again.UpsertDailyStats(bankDomain.DailyStats{Date: "2026-01-01", PaymentsReceived: 3})
	if err := repo.Save(ctx, again); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.GetByBankID(ctx, bankID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LoanRates[risk.TierPrime] != 0.07 {
		t.Fatalf("loan rates: %+v", got.LoanRates)
	}
	if len(got.Stats) != 1 || got.Stats[0].PaymentsReceived != 3 {
		t.Fatalf("stats: %+v", got.Stats)
	}
}

func TestBankRepository_ListFilter(t *testing.T) {
	db := openTestDB(t)
	repo := NewBankRepository(db)
	ctx := context.Background()

	playerID := id.NewID32()
	mine := bankDomain.NewBankProfile(id.NewID32(), "Mine", playerID, "", testStart)
	other := bankDomain.NewBankProfile(id.NewID32(), "Other", id.NewID32(), "", testStart)
	for _, b := range []*bankDomain.BankProfile{mine, other} {
		if err := db.Create(b).Error; err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.List(ctx, bankDomain.ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("all: %d", len(all))
	}

	scoped, err := repo.List(ctx, bankDomain.ListFilter{PlayerID: playerID})
	if err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 1 || scoped[0].BankID != mine.BankID {
		t.Fatalf("scoped: %+v", scoped)
	}
}

func TestGormUoW_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	l := makeLoan(t, id.NewID32())
	wantErr := errors.New("boom")
	err := u.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v", err)
	}

	_, err = NewLoanRepository(db).GetByLoanID(ctx, l.LoanID)
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("rolled-back loan still present: %v", err)
	}
}
