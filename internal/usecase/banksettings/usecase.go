package banksettings

import (
	"context"
	"time"

	"tycoon-banking-engine/internal/domain/bank"
	"tycoon-banking-engine/internal/domain/deposit"
	"tycoon-banking-engine/internal/domain/risk"
	"tycoon-banking-engine/internal/domain/uow"
)

// Usecase reads and updates a bank's operator-tunable settings.
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

// UpdateInput carries only the settings the caller wants changed. Absent maps
// and an empty policy leave the current values in place.
type UpdateInput struct {
	BankID       string             `json:"bank_id" validate:"required,hex32"`
	DepositRates map[string]float64 `json:"deposit_rates,omitempty"`
	LoanRates    map[string]float64 `json:"loan_rates,omitempty"`
	Policy       string             `json:"policy,omitempty" validate:"omitempty,oneof=CONSERVATIVE MODERATE AGGRESSIVE PREDATORY"`
}

// Get returns the profile, creating a level-1 bank on first contact.
func (u *Usecase) Get(ctx context.Context, bankID string) (*bank.BankProfile, error) {
	var out *bank.BankProfile
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		profile, err := r.Banks.GetOrCreate(ctx, bankID, func() *bank.BankProfile {
			return bank.NewBankProfile(bankID, "Bank "+bankID[:8], "", "", u.now())
		})
		if err != nil {
			return err
		}
		out = profile
		return nil
	})
	return out, err
}

// Update applies the requested rate and policy changes atomically. A single
// out-of-bounds rate or unknown key rejects the whole request.
func (u *Usecase) Update(ctx context.Context, in UpdateInput) (*bank.BankProfile, error) {
	var out *bank.BankProfile
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		profile, err := r.Banks.GetByBankIDForUpdate(ctx, in.BankID)
		if err != nil {
			return err
		}

		for accType, rate := range in.DepositRates {
			if err := profile.SetDepositRate(deposit.AccountType(accType), rate); err != nil {
				return err
			}
		}
		for tier, rate := range in.LoanRates {
			if _, err := risk.ParseTier(tier); err != nil {
				return err
			}
			if err := profile.SetLoanRate(risk.Tier(tier), rate); err != nil {
				return err
			}
		}
		if in.Policy != "" {
			if err := profile.SetPolicy(bank.ApprovalPolicy(in.Policy)); err != nil {
				return err
			}
		}

		if err := r.Banks.Save(ctx, profile); err != nil {
			return err
		}
		out = profile
		return nil
	})
	return out, err
}
