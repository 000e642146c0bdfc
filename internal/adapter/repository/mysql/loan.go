package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "tycoon-banking-engine/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.BankLoan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.BankLoan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.BankLoan, error) {
	var out loanDomain.BankLoan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, mapNotFound(res.Error, loanDomain.ErrNotFound)
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.BankLoan, error) {
	var out loanDomain.BankLoan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, mapNotFound(res.Error, loanDomain.ErrNotFound)
}

func (r *LoanRepository) ListOpenByBank(ctx context.Context, bankID string) ([]loanDomain.BankLoan, error) {
	var out []loanDomain.BankLoan
	res := r.db.WithContext(ctx).
		Where("bank_id = ? AND status IN ?", bankID,
			[]loanDomain.Status{loanDomain.StatusActive, loanDomain.StatusDelinquent}).
		Order("disbursed_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
