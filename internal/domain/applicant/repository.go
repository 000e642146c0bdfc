package applicant

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *LoanApplicant) error
	GetByApplicantID(ctx context.Context, applicantID string) (*LoanApplicant, error)
	GetByApplicantIDForUpdate(ctx context.Context, applicantID string) (*LoanApplicant, error)
	ListPendingByBank(ctx context.Context, bankID string) ([]LoanApplicant, error)
	// ListExpired returns pending applicants whose expiry has passed.
	ListExpired(ctx context.Context, now time.Time) ([]LoanApplicant, error)
	Save(ctx context.Context, a *LoanApplicant) error
}
