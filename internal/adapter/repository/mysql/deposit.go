package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	depositDomain "tycoon-banking-engine/internal/domain/deposit"
)

type DepositRepository struct{ db *gorm.DB }

func NewDepositRepository(db *gorm.DB) *DepositRepository { return &DepositRepository{db: db} }

func (r *DepositRepository) Create(ctx context.Context, d *depositDomain.BankDeposit) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DepositRepository) Save(ctx context.Context, d *depositDomain.BankDeposit) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DepositRepository) GetByAccountID(ctx context.Context, accountID string) (*depositDomain.BankDeposit, error) {
	var out depositDomain.BankDeposit
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	return &out, mapNotFound(res.Error, depositDomain.ErrNotFound)
}

func (r *DepositRepository) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*depositDomain.BankDeposit, error) {
	var out depositDomain.BankDeposit
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", accountID).
		First(&out)
	return &out, mapNotFound(res.Error, depositDomain.ErrNotFound)
}

func (r *DepositRepository) ListActiveByBank(ctx context.Context, bankID string) ([]depositDomain.BankDeposit, error) {
	var out []depositDomain.BankDeposit
	res := r.db.WithContext(ctx).
		Where("bank_id = ? AND status = ?", bankID, depositDomain.StatusActive).
		Order("opened_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
