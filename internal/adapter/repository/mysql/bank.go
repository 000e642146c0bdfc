package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bankDomain "tycoon-banking-engine/internal/domain/bank"
)

type BankRepository struct{ db *gorm.DB }

func NewBankRepository(db *gorm.DB) *BankRepository { return &BankRepository{db: db} }

func (r *BankRepository) Save(ctx context.Context, b *bankDomain.BankProfile) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BankRepository) GetByBankID(ctx context.Context, bankID string) (*bankDomain.BankProfile, error) {
	var out bankDomain.BankProfile
	res := r.db.WithContext(ctx).Where("bank_id = ?", bankID).First(&out)
	return &out, mapNotFound(res.Error, bankDomain.ErrNotFound)
}

func (r *BankRepository) GetByBankIDForUpdate(ctx context.Context, bankID string) (*bankDomain.BankProfile, error) {
	var out bankDomain.BankProfile
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("bank_id = ?", bankID).
		First(&out)
	return &out, mapNotFound(res.Error, bankDomain.ErrNotFound)
}

// GetOrCreate returns the profile, creating it on first use.
func (r *BankRepository) GetOrCreate(ctx context.Context, bankID string, create func() *bankDomain.BankProfile) (*bankDomain.BankProfile, error) {
	existing, err := r.GetByBankID(ctx, bankID)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, bankDomain.ErrNotFound):
		return nil, err
	}

	fresh := create()
	if err := r.db.WithContext(ctx).Create(fresh).Error; err != nil {
		// A concurrent creator may have won the unique-index race.
		if again, getErr := r.GetByBankID(ctx, bankID); getErr == nil {
			return again, nil
		}
		return nil, err
	}
	return fresh, nil
}

func (r *BankRepository) List(ctx context.Context, filter bankDomain.ListFilter) ([]bankDomain.BankProfile, error) {
	q := r.db.WithContext(ctx)
	if filter.PlayerID != "" {
		q = q.Where("owner_player_id = ?", filter.PlayerID)
	}
	if filter.CompanyID != "" {
		q = q.Where("owner_company_id = ?", filter.CompanyID)
	}

	var out []bankDomain.BankProfile
	res := q.Order("id ASC").Find(&out)
	return out, res.Error
}
