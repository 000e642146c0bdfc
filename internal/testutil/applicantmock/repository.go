package applicantmock

import (
	"context"
	"time"

	domain "tycoon-banking-engine/internal/domain/applicant"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the function fields a test needs.
type Repo struct {
	CreateFn                    func(ctx context.Context, a *domain.LoanApplicant) error
	GetByApplicantIDFn          func(ctx context.Context, applicantID string) (*domain.LoanApplicant, error)
	GetByApplicantIDForUpdateFn func(ctx context.Context, applicantID string) (*domain.LoanApplicant, error)
	ListPendingByBankFn         func(ctx context.Context, bankID string) ([]domain.LoanApplicant, error)
	ListExpiredFn               func(ctx context.Context, now time.Time) ([]domain.LoanApplicant, error)
	SaveFn                      func(ctx context.Context, a *domain.LoanApplicant) error
}

func (m *Repo) Create(ctx context.Context, a *domain.LoanApplicant) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByApplicantID(ctx context.Context, applicantID string) (*domain.LoanApplicant, error) {
	if m.GetByApplicantIDFn != nil {
		return m.GetByApplicantIDFn(ctx, applicantID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByApplicantIDForUpdate(ctx context.Context, applicantID string) (*domain.LoanApplicant, error) {
	if m.GetByApplicantIDForUpdateFn != nil {
		return m.GetByApplicantIDForUpdateFn(ctx, applicantID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListPendingByBank(ctx context.Context, bankID string) ([]domain.LoanApplicant, error) {
	if m.ListPendingByBankFn != nil {
		return m.ListPendingByBankFn(ctx, bankID)
	}
	return nil, nil
}

func (m *Repo) ListExpired(ctx context.Context, now time.Time) ([]domain.LoanApplicant, error) {
	if m.ListExpiredFn != nil {
		return m.ListExpiredFn(ctx, now)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, a *domain.LoanApplicant) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}
