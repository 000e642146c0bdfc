package bankmock

import (
	"context"

	domain "tycoon-banking-engine/internal/domain/bank"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the function fields a test needs.
type Repo struct {
	GetOrCreateFn          func(ctx context.Context, bankID string, create func() *domain.BankProfile) (*domain.BankProfile, error)
	GetByBankIDFn          func(ctx context.Context, bankID string) (*domain.BankProfile, error)
	GetByBankIDForUpdateFn func(ctx context.Context, bankID string) (*domain.BankProfile, error)
	ListFn                 func(ctx context.Context, filter domain.ListFilter) ([]domain.BankProfile, error)
	SaveFn                 func(ctx context.Context, b *domain.BankProfile) error
}

func (m *Repo) GetOrCreate(ctx context.Context, bankID string, create func() *domain.BankProfile) (*domain.BankProfile, error) {
	if m.GetOrCreateFn != nil {
		return m.GetOrCreateFn(ctx, bankID, create)
	}
	return create(), nil
}

func (m *Repo) GetByBankID(ctx context.Context, bankID string) (*domain.BankProfile, error) {
	if m.GetByBankIDFn != nil {
		return m.GetByBankIDFn(ctx, bankID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByBankIDForUpdate(ctx context.Context, bankID string) (*domain.BankProfile, error) {
	if m.GetByBankIDForUpdateFn != nil {
		return m.GetByBankIDForUpdateFn(ctx, bankID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) List(ctx context.Context, filter domain.ListFilter) ([]domain.BankProfile, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, b *domain.BankProfile) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}
