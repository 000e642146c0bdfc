package deposit

import "context"

// Repository abstracts persistence for deposit accounts.
type Repository interface {
	Create(ctx context.Context, d *BankDeposit) error
	GetByAccountID(ctx context.Context, accountID string) (*BankDeposit, error)
	GetByAccountIDForUpdate(ctx context.Context, accountID string) (*BankDeposit, error)
	ListActiveByBank(ctx context.Context, bankID string) ([]BankDeposit, error)
	Save(ctx context.Context, d *BankDeposit) error
}
