package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *BankLoan) error
	GetByLoanID(ctx context.Context, loanID string) (*BankLoan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*BankLoan, error)
	// ListOpenByBank returns ACTIVE and DELINQUENT loans for one bank.
	ListOpenByBank(ctx context.Context, bankID string) ([]BankLoan, error)
	Save(ctx context.Context, l *BankLoan) error
}
