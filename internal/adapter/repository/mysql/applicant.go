package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	applicantDomain "tycoon-banking-engine/internal/domain/applicant"
)

type ApplicantRepository struct{ db *gorm.DB }

func NewApplicantRepository(db *gorm.DB) *ApplicantRepository { return &ApplicantRepository{db: db} }

func (r *ApplicantRepository) Create(ctx context.Context, a *applicantDomain.LoanApplicant) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicantRepository) Save(ctx context.Context, a *applicantDomain.LoanApplicant) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApplicantRepository) GetByApplicantID(ctx context.Context, applicantID string) (*applicantDomain.LoanApplicant, error) {
	var out applicantDomain.LoanApplicant
	res := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).First(&out)
	return &out, mapNotFound(res.Error, applicantDomain.ErrNotFound)
}

func (r *ApplicantRepository) GetByApplicantIDForUpdate(ctx context.Context, applicantID string) (*applicantDomain.LoanApplicant, error) {
	var out applicantDomain.LoanApplicant
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("applicant_id = ?", applicantID).
		First(&out)
	return &out, mapNotFound(res.Error, applicantDomain.ErrNotFound)
}

func (r *ApplicantRepository) ListPendingByBank(ctx context.Context, bankID string) ([]applicantDomain.LoanApplicant, error) {
	var out []applicantDomain.LoanApplicant
	res := r.db.WithContext(ctx).
		Where("bank_id = ? AND status = ?", bankID, applicantDomain.StatusPending).
		Order("applied_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ApplicantRepository) ListExpired(ctx context.Context, now time.Time) ([]applicantDomain.LoanApplicant, error) {
	var out []applicantDomain.LoanApplicant
	res := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", applicantDomain.StatusPending, now).
		Order("expires_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

// mapNotFound translates gorm's record-not-found into the domain sentinel so
// callers never import gorm.
func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
