package uow

import (
	"context"

	"tycoon-banking-engine/internal/domain/applicant"
	"tycoon-banking-engine/internal/domain/bank"
	"tycoon-banking-engine/internal/domain/deposit"
	"tycoon-banking-engine/internal/domain/loan"
)

// Repos bundles the repositories visible inside one transaction.
type Repos struct {
	Applicants applicant.Repository
	Loans      loan.Repository
	Deposits   deposit.Repository
	Banks      bank.Repository
}

// UnitOfWork runs fn inside a transaction; any error rolls everything back.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
