package depositmock

import (
	"context"

	domain "tycoon-banking-engine/internal/domain/deposit"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the function fields a test needs.
type Repo struct {
	CreateFn                  func(ctx context.Context, d *domain.BankDeposit) error
	GetByAccountIDFn          func(ctx context.Context, accountID string) (*domain.BankDeposit, error)
	GetByAccountIDForUpdateFn func(ctx context.Context, accountID string) (*domain.BankDeposit, error)
	ListActiveByBankFn        func(ctx context.Context, bankID string) ([]domain.BankDeposit, error)
	SaveFn                    func(ctx context.Context, d *domain.BankDeposit) error
}

func (m *Repo) Create(ctx context.Context, d *domain.BankDeposit) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByAccountID(ctx context.Context, accountID string) (*domain.BankDeposit, error) {
	if m.GetByAccountIDFn != nil {
		return m.GetByAccountIDFn(ctx, accountID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*domain.BankDeposit, error) {
	if m.GetByAccountIDForUpdateFn != nil {
		return m.GetByAccountIDForUpdateFn(ctx, accountID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListActiveByBank(ctx context.Context, bankID string) ([]domain.BankDeposit, error) {
	if m.ListActiveByBankFn != nil {
		return m.ListActiveByBankFn(ctx, bankID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, d *domain.BankDeposit) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}
