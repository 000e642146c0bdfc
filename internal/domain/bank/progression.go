package bank

import (
	"github.com/shopspring/decimal"

	"tycoon-banking-engine/internal/domain/deposit"
	"tycoon-banking-engine/internal/domain/risk"
)

const statsWindow = 30

// AddExperience accumulates XP and applies any level-ups crossed. Level is
// monotonic and limit increases are level-linked. Returns levels gained.
func (b *BankProfile) AddExperience(xp int64) int {
	if xp <= 0 {
		return 0
	}
	b.Experience += xp

	gained := 0
	for b.Level < MaxLevel {
		next, ok := ThresholdForLevel(b.Level + 1)
		if !ok || b.Experience < next {
			break
		}
		b.Level++
		gained++
		b.MaxSingleLoan = maxSingleLoanForLevel(b.Level)
		b.MaxTotalOutstanding = b.MaxSingleLoan.Mul(decimal.NewFromInt(20))
		b.MaxDailyApprovals += 2
	}
	return gained
}

// CanApproveLoan enforces every approval limit: the per-loan ceiling, the total
// outstanding ceiling against the book's current open principal, the per-day
// origination cap, and the policy tier gate.
func (b *BankProfile) CanApproveLoan(amount decimal.Decimal, tier risk.Tier, outstanding decimal.Decimal, approvedToday int) error {
	if amount.GreaterThan(b.MaxSingleLoan) {
		return ErrApprovalForbidden
	}
	if outstanding.Add(amount).GreaterThan(b.MaxTotalOutstanding) {
		return ErrApprovalForbidden
	}
	if approvedToday >= b.MaxDailyApprovals {
		return ErrApprovalForbidden
	}
	switch b.Policy {
	case PolicyConservative:
		if tier != risk.TierPrime && tier != risk.TierNearPrime {
			return ErrApprovalForbidden
		}
	case PolicyModerate:
		if tier == risk.TierDeepSubprime {
			return ErrApprovalForbidden
		}
	case PolicyAggressive, PolicyPredatory:
		// All tiers admitted. The predatory reputation cost is applied by the
		// approval transaction, not here.
	default:
		return ErrUnknownPolicy
	}
	return nil
}

// ReputationCostPredatory is deducted from reputation on every loan approved
// under the predatory policy.
const ReputationCostPredatory = 2

// ApplyReputation shifts reputation by delta, clamped to [0, 100].
func (b *BankProfile) ApplyReputation(delta int) {
	b.Reputation += delta
	if b.Reputation < 0 {
		b.Reputation = 0
	}
	if b.Reputation > 100 {
		b.Reputation = 100
	}
}

// LoansOriginatedOn returns the day's origination count from the stats window.
func (b *BankProfile) LoansOriginatedOn(date string) int {
	for i := range b.Stats {
		if b.Stats[i].Date == date {
			return b.Stats[i].LoansOriginated
		}
	}
	return 0
}

// SetDepositRate clamps the rate to the allowed band before writing it.
func (b *BankProfile) SetDepositRate(t deposit.AccountType, rate float64) error {
	if _, err := deposit.RulesFor(t); err != nil {
		return err
	}
	if rate < minDepositRate || rate > maxDepositRate {
		return ErrRateOutOfBounds
	}
	if b.DepositRates == nil {
		b.DepositRates = make(map[deposit.AccountType]float64)
	}
	b.DepositRates[t] = rate
	return nil
}

// DepositRateFor returns the configured rate for an account type, falling back
// to the type's base rate.
func (b *BankProfile) DepositRateFor(t deposit.AccountType) float64 {
	if r, ok := b.DepositRates[t]; ok {
		return r
	}
	if rules, err := deposit.RulesFor(t); err == nil {
		return rules.BaseRate
	}
	return 0
}

// SetLoanRate clamps the rate to the allowed band before writing it.
func (b *BankProfile) SetLoanRate(tier risk.Tier, rate float64) error {
	if rate < minLoanRate || rate > maxLoanRate {
		return ErrRateOutOfBounds
	}
	if b.LoanRates == nil {
		b.LoanRates = make(map[risk.Tier]float64)
	}
	b.LoanRates[tier] = rate
	return nil
}

// SetPolicy validates and writes the approval policy.
func (b *BankProfile) SetPolicy(p ApprovalPolicy) error {
	switch p {
	case PolicyConservative, PolicyModerate, PolicyAggressive, PolicyPredatory:
		b.Policy = p
		return nil
	default:
		return ErrUnknownPolicy
	}
}

// LoanRateFor returns the configured rate for a tier, falling back to the
// assessor's recommendation when the table has no entry.
func (b *BankProfile) LoanRateFor(tier risk.Tier, recommended float64) float64 {
	if r, ok := b.LoanRates[tier]; ok {
		return r
	}
	return recommended
}

// UpsertDailyStats merges a day's deltas by date key, keeping only the newest
// 30 entries by insertion order.
func (b *BankProfile) UpsertDailyStats(day DailyStats) {
	for i := range b.Stats {
		if b.Stats[i].Date == day.Date {
			b.Stats[i] = mergeStats(b.Stats[i], day)
			return
		}
	}
	b.Stats = append(b.Stats, day)
	if len(b.Stats) > statsWindow {
		b.Stats = b.Stats[len(b.Stats)-statsWindow:]
	}
}

func mergeStats(a, d DailyStats) DailyStats {
	a.LoansOriginated += d.LoansOriginated
	a.PaymentsReceived += d.PaymentsReceived
	a.LateFees = a.LateFees.Add(d.LateFees)
	a.Defaults += d.Defaults
	a.Payoffs += d.Payoffs
	a.InterestPaid = a.InterestPaid.Add(d.InterestPaid)
	a.DepositsMatured += d.DepositsMatured
	a.Revenue = a.Revenue.Add(d.Revenue)
	a.Expenses = a.Expenses.Add(d.Expenses)
	a.NetProfit = a.NetProfit.Add(d.NetProfit)
	return a
}
