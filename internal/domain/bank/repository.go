package bank

import "context"

// ListFilter scopes bank iteration to an owning player or company.
type ListFilter struct {
	PlayerID  string
	CompanyID string
}

// Repository abstracts persistence for bank profiles.
type Repository interface {
	GetOrCreate(ctx context.Context, bankID string, create func() *BankProfile) (*BankProfile, error)
	GetByBankID(ctx context.Context, bankID string) (*BankProfile, error)
	GetByBankIDForUpdate(ctx context.Context, bankID string) (*BankProfile, error)
	List(ctx context.Context, filter ListFilter) ([]BankProfile, error)
	Save(ctx context.Context, b *BankProfile) error
}
