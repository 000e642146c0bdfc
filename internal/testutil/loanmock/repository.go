package loanmock

import (
	"context"

	domain "tycoon-banking-engine/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the function fields a test needs.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.BankLoan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.BankLoan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.BankLoan, error)
	ListOpenByBankFn       func(ctx context.Context, bankID string) ([]domain.BankLoan, error)
	SaveFn                 func(ctx context.Context, l *domain.BankLoan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.BankLoan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.BankLoan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.BankLoan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListOpenByBank(ctx context.Context, bankID string) ([]domain.BankLoan, error) {
	if m.ListOpenByBankFn != nil {
		return m.ListOpenByBankFn(ctx, bankID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.BankLoan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
