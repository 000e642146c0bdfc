package origination

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tycoon-banking-engine/internal/domain/applicant"
	"tycoon-banking-engine/internal/domain/bank"
	"tycoon-banking-engine/internal/domain/loan"
	"tycoon-banking-engine/internal/domain/uow"
	"tycoon-banking-engine/pkg/id"
)

// Usecase covers the applicant lifecycle: generation, approval into an active
// loan, rejection, and automatic expiry.
type Usecase struct {
	uow uow.UnitOfWork
	gen *Generator
	now func() time.Time
}

func NewUsecase(u uow.UnitOfWork, gen *Generator) *Usecase {
	return &Usecase{uow: u, gen: gen, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock swaps the time source. Production wires the shared game clock
// here; tests pin a fixed instant.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Generate creates and persists one pending applicant for the bank, creating
// the bank profile on first use.
func (u *Usecase) Generate(ctx context.Context, bankID string) (*applicant.LoanApplicant, error) {
	var out *applicant.LoanApplicant
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		now := u.now()
		profile, err := r.Banks.GetOrCreate(ctx, bankID, func() *bank.BankProfile {
			return bank.NewBankProfile(bankID, "Bank "+bankID[:8], "", "", now)
		})
		if err != nil {
			return err
		}
		a := u.gen.Generate(bankID, profile.Level, now)
		if err := r.Applicants.Create(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

type ApproveInput struct {
	ApplicantID    string  `json:"applicant_id" validate:"required,hex32"`
	ApprovedAmount float64 `json:"approved_amount" validate:"required,gt=0,dec2"`
	Rate           float64 `json:"rate" validate:"omitempty,gt=0,lte=0.40"`
	TermMonths     int     `json:"term_months" validate:"omitempty,gt=0,lte=360"`
}

// Approve turns a pending applicant into an active loan with a generated
// schedule, enforcing the bank's policy gate and amount ceiling. The approved
// amount is additionally capped at the assessor's maximum.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*loan.BankLoan, error) {
	var out *loan.BankLoan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		now := u.now()

		a, err := r.Applicants.GetByApplicantIDForUpdate(ctx, in.ApplicantID)
		if err != nil {
			return err
		}
		if a.Status != applicant.StatusPending {
			return applicant.ErrNotPending
		}
		if a.ExpiredAt(now) {
			a.Status = applicant.StatusExpired
			if err := r.Applicants.Save(ctx, a); err != nil {
				return err
			}
			return applicant.ErrApplicationExpired
		}

		profile, err := r.Banks.GetByBankIDForUpdate(ctx, a.BankID)
		if err != nil {
			return err
		}

		amount := in.ApprovedAmount
		if amount > a.MaxApprovalAmount {
			amount = a.MaxApprovalAmount
		}
		principal := decimal.NewFromFloat(amount).Round(2)

		open, err := r.Loans.ListOpenByBank(ctx, a.BankID)
		if err != nil {
			return err
		}
		outstanding := decimal.Zero
		for i := range open {
			outstanding = outstanding.Add(open[i].PrincipalBalance)
		}
		day := now.UTC().Format("2006-01-02")
		if err := profile.CanApproveLoan(principal, a.RiskTier, outstanding, profile.LoansOriginatedOn(day)); err != nil {
			return err
		}

		rate := in.Rate
		if rate == 0 {
			rate = profile.LoanRateFor(a.RiskTier, a.RecommendedRate)
		}
		term := in.TermMonths
		if term == 0 {
			term = a.TermMonths
		}

		l, err := loan.NewLoan(
			id.NewID32(), a.BankID, a.ApplicantID,
			loan.BorrowerSnapshot{Name: a.Name, CreditScore: a.CreditScore, Tier: a.RiskTier},
			principal, rate, term, a.CollateralValue, now,
		)
		if err != nil {
			return err
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		a.Status = applicant.StatusApproved
		if err := r.Applicants.Save(ctx, a); err != nil {
			return err
		}

		profile.AddExperience(loan.XPLoanOriginated)
		if profile.Policy == bank.PolicyPredatory {
			profile.ApplyReputation(-bank.ReputationCostPredatory)
		}
		profile.UpsertDailyStats(bank.DailyStats{
			Date:            day,
			LoansOriginated: 1,
		})
		if err := r.Banks.Save(ctx, profile); err != nil {
			return err
		}

		out = l
		return nil
	})
	return out, err
}

// Reject marks a pending applicant rejected. Terminal.
func (u *Usecase) Reject(ctx context.Context, applicantID string) (*applicant.LoanApplicant, error) {
	var out *applicant.LoanApplicant
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Applicants.GetByApplicantIDForUpdate(ctx, applicantID)
		if err != nil {
			return err
		}
		if a.Status != applicant.StatusPending {
			return applicant.ErrNotPending
		}
		a.Status = applicant.StatusRejected
		if err := r.Applicants.Save(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

// ExpirePending moves every pending applicant past its expiry to EXPIRED and
// returns how many were expired.
func (u *Usecase) ExpirePending(ctx context.Context) (int, error) {
	expired := 0
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		now := u.now()
		stale, err := r.Applicants.ListExpired(ctx, now)
		if err != nil {
			return err
		}
		for i := range stale {
			a := stale[i]
			if !a.ExpiredAt(now) {
				continue
			}
			a.Status = applicant.StatusExpired
			if err := r.Applicants.Save(ctx, &a); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	return expired, err
}

// ListPending returns the bank's open applications.
func (u *Usecase) ListPending(ctx context.Context, bankID string) ([]applicant.LoanApplicant, error) {
	var out []applicant.LoanApplicant
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		list, err := r.Applicants.ListPendingByBank(ctx, bankID)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	return out, err
}
