package deposit

import "github.com/shopspring/decimal"

// Rules is the per-account-type configuration table.
type Rules struct {
	MinBalance decimal.Decimal
	// MonthlyWithdrawalCap < 0 means unlimited; 0 means no withdrawal without a
	// maturity penalty (CDs).
	MonthlyWithdrawalCap int
	// EarlyPenaltyMonths expresses the early-withdrawal penalty in months of
	// interest on the current balance.
	EarlyPenaltyMonths int
	BaseRate           float64
	TermMonths         int
}

var accountRules = map[AccountType]Rules{
	TypeChecking: {
		MinBalance:           decimal.Zero,
		MonthlyWithdrawalCap: -1,
		BaseRate:             0.001,
	},
	TypeSavings: {
		MinBalance:           decimal.NewFromInt(25),
		MonthlyWithdrawalCap: 6,
		BaseRate:             0.02,
	},
	TypeMoneyMarket: {
		MinBalance:           decimal.NewFromInt(1_000),
		MonthlyWithdrawalCap: 6,
		BaseRate:             0.025,
	},
	TypeCD3: {
		MinBalance:           decimal.NewFromInt(500),
		MonthlyWithdrawalCap: 0,
		EarlyPenaltyMonths:   1,
		BaseRate:             0.03,
		TermMonths:           3,
	},
	TypeCD6: {
		MinBalance:           decimal.NewFromInt(500),
		MonthlyWithdrawalCap: 0,
		EarlyPenaltyMonths:   2,
		BaseRate:             0.035,
		TermMonths:           6,
	},
	TypeCD12: {
		MinBalance:           decimal.NewFromInt(500),
		MonthlyWithdrawalCap: 0,
		EarlyPenaltyMonths:   3,
		BaseRate:             0.045,
		TermMonths:           12,
	},
}

// RulesFor returns the configuration for an account type.
func RulesFor(t AccountType) (Rules, error) {
	r, ok := accountRules[t]
	if !ok {
		return Rules{}, ErrUnknownAccountType
	}
	return r, nil
}

// IsTerm reports whether the account type is a CD.
func (t AccountType) IsTerm() bool {
	r, ok := accountRules[t]
	return ok && r.TermMonths > 0
}
