package deposit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	satisfactionDepositBump   = 2
	satisfactionPenaltyDrop   = 20
	satisfactionMax           = 100
	satisfactionMin           = 0
)

// WithdrawResult reports an executed withdrawal.
type WithdrawResult struct {
	Amount  decimal.Decimal
	Penalty decimal.Decimal
	Balance decimal.Decimal
}

// CloseResult reports the final payout of a closed account.
type CloseResult struct {
	Paid    decimal.Decimal
	Penalty decimal.Decimal
}

func cloneTransactions(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	return out
}

func clampSatisfaction(v int) int {
	if v > satisfactionMax {
		return satisfactionMax
	}
	if v < satisfactionMin {
		return satisfactionMin
	}
	return v
}

// rolloverWithdrawals resets the monthly counter when the calendar month changed.
func rolloverWithdrawals(d *BankDeposit, now time.Time) {
	if key := monthKey(now); key != d.WithdrawalMonth {
		d.WithdrawalMonth = key
		d.WithdrawalsThisMonth = 0
	}
}

// Deposit adds funds. Pure transition: the caller persists the returned state.
func Deposit(d BankDeposit, amount decimal.Decimal, now time.Time) (BankDeposit, error) {
	if d.Status == StatusClosed {
		return d, ErrAccountClosed
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return d, ErrInvalidAmount
	}

	next := d
	next.Transactions = cloneTransactions(d.Transactions)
	next.Balance = next.Balance.Add(amount)
	next.Satisfaction = clampSatisfaction(next.Satisfaction + satisfactionDepositBump)
	next.Transactions = append(next.Transactions, Transaction{
		TxID:    uuid.NewString(),
		Type:    TxDeposit,
		Amount:  amount,
		Balance: next.Balance,
		At:      now,
	})
	return next, nil
}

// EarlyPenalty is the cost of touching a CD before maturity:
// balance * (rate/12) * penaltyMonths.
func EarlyPenalty(d *BankDeposit) decimal.Decimal {
	rules, err := RulesFor(d.Type)
	if err != nil || rules.EarlyPenaltyMonths == 0 {
		return decimal.Zero
	}
	monthly := decimal.NewFromFloat(d.Rate / 12)
	return d.Balance.Mul(monthly).Mul(decimal.NewFromInt(int64(rules.EarlyPenaltyMonths))).Round(2)
}

func (d *BankDeposit) beforeMaturity(now time.Time) bool {
	return d.MaturityDate != nil && now.Before(*d.MaturityDate)
}

// Withdraw removes funds. Cap violations are rejections, not penalties; an early
// CD withdrawal is allowed but deducts a computed penalty and tanks satisfaction.
func Withdraw(d BankDeposit, amount decimal.Decimal, now time.Time) (BankDeposit, WithdrawResult, error) {
	res := WithdrawResult{Amount: decimal.Zero, Penalty: decimal.Zero, Balance: d.Balance}
	if d.Status == StatusClosed {
		return d, res, ErrAccountClosed
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return d, res, ErrInvalidAmount
	}

	next := d
	next.Transactions = cloneTransactions(d.Transactions)
	rolloverWithdrawals(&next, now)

	rules, err := RulesFor(next.Type)
	if err != nil {
		return d, res, err
	}

	if amount.GreaterThan(next.Balance) {
		return d, res, ErrInsufficientFunds
	}

	penalty := decimal.Zero
	early := next.Type.IsTerm() && next.Status == StatusActive && next.beforeMaturity(now)
	if early {
		penalty = EarlyPenalty(&next)
	} else {
		// Non-term and matured accounts are gated by the monthly cap; a cap of 0
		// only ever applies to a CD before maturity, which took the early branch.
		if rules.MonthlyWithdrawalCap >= 0 && next.WithdrawalsThisMonth >= rules.MonthlyWithdrawalCap && !next.Type.IsTerm() {
			return d, res, ErrWithdrawalCapReached
		}
	}

	remaining := next.Balance.Sub(amount).Sub(penalty)
	if remaining.LessThan(decimal.Zero) {
		return d, res, ErrInsufficientFunds
	}
	if remaining.IsPositive() && remaining.LessThan(rules.MinBalance) {
		return d, res, ErrBelowMinimumBalance
	}

	next.Balance = remaining
	next.WithdrawalsThisMonth++
	next.Transactions = append(next.Transactions, Transaction{
		TxID:    uuid.NewString(),
		Type:    TxWithdrawal,
		Amount:  amount,
		Balance: next.Balance,
		At:      now,
	})
	if penalty.IsPositive() {
		next.Satisfaction = clampSatisfaction(next.Satisfaction - satisfactionPenaltyDrop)
		next.Transactions = append(next.Transactions, Transaction{
			TxID:    uuid.NewString(),
			Type:    TxPenalty,
			Amount:  penalty,
			Balance: next.Balance,
			At:      now,
			Note:    "early withdrawal penalty",
		})
	}

	res.Amount = amount
	res.Penalty = penalty
	res.Balance = next.Balance
	return next, res, nil
}

// AccrueInterest accrues for whole elapsed days since the last accrual date:
// balance * (rate/365) * days. Sub-day intervals are a strict no-op, which makes
// repeated calls within a day idempotent.
func AccrueInterest(d BankDeposit, now time.Time) (BankDeposit, decimal.Decimal, error) {
	if d.Status != StatusActive {
		return d, decimal.Zero, nil
	}
	if now.Before(d.LastInterestDate) {
		return d, decimal.Zero, nil
	}

	days := int(now.Sub(d.LastInterestDate).Hours() / 24)
	if days == 0 {
		return d, decimal.Zero, nil
	}

	interest := d.Balance.
		Mul(decimal.NewFromFloat(d.Rate / 365)).
		Mul(decimal.NewFromInt(int64(days))).
		Round(4)

	next := d
	next.Transactions = cloneTransactions(d.Transactions)
	next.Balance = next.Balance.Add(interest)
	next.InterestAccrued = next.InterestAccrued.Add(interest)
	// Advance by whole days only so the fractional remainder keeps counting.
	next.LastInterestDate = d.LastInterestDate.Add(time.Duration(days) * 24 * time.Hour)
	next.Transactions = append(next.Transactions, Transaction{
		TxID:    uuid.NewString(),
		Type:    TxInterest,
		Amount:  interest,
		Balance: next.Balance,
		At:      now,
	})
	return next, interest, nil
}

// CheckMaturity transitions an active CD past its maturity date to MATURED.
// Withdrawals thereafter are penalty-free.
func CheckMaturity(d BankDeposit, now time.Time) (BankDeposit, bool) {
	if d.Status != StatusActive || d.MaturityDate == nil || now.Before(*d.MaturityDate) {
		return d, false
	}
	next := d
	next.Status = StatusMatured
	return next, true
}

// Close pays out the balance (minus any outstanding early-withdrawal penalty),
// zeroes it, and records the final withdrawal.
func Close(d BankDeposit, now time.Time) (BankDeposit, CloseResult, error) {
	res := CloseResult{Paid: decimal.Zero, Penalty: decimal.Zero}
	if d.Status == StatusClosed {
		return d, res, ErrAccountClosed
	}

	next := d
	next.Transactions = cloneTransactions(d.Transactions)

	penalty := decimal.Zero
	if next.Type.IsTerm() && next.Status == StatusActive && next.beforeMaturity(now) {
		penalty = EarlyPenalty(&next)
		next.Satisfaction = clampSatisfaction(next.Satisfaction - satisfactionPenaltyDrop)
	}

	paid := next.Balance.Sub(penalty)
	if paid.LessThan(decimal.Zero) {
		paid = decimal.Zero
	}

	if penalty.IsPositive() {
		next.Transactions = append(next.Transactions, Transaction{
			TxID:    uuid.NewString(),
			Type:    TxPenalty,
			Amount:  penalty,
			Balance: next.Balance.Sub(penalty),
			At:      now,
			Note:    "early withdrawal penalty",
		})
	}
	next.Transactions = append(next.Transactions, Transaction{
		TxID:    uuid.NewString(),
		Type:    TxWithdrawal,
		Amount:  paid,
		Balance: decimal.Zero,
		At:      now,
		Note:    "account closed",
	})

	next.Balance = decimal.Zero
	next.Status = StatusClosed

	res.Paid = paid
	res.Penalty = penalty
	return next, res, nil
}
