package bank

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tycoon-banking-engine/internal/domain/deposit"
	"tycoon-banking-engine/internal/domain/risk"
)

var (
	ErrNotFound          = errors.New("bank profile not found")
	ErrRateOutOfBounds   = errors.New("rate outside allowed bounds")
	ErrUnknownPolicy     = errors.New("unknown approval policy")
	ErrApprovalForbidden = errors.New("loan not approvable under bank policy")
)

type ApprovalPolicy string

const (
	PolicyConservative ApprovalPolicy = "CONSERVATIVE"
	PolicyModerate     ApprovalPolicy = "MODERATE"
	PolicyAggressive   ApprovalPolicy = "AGGRESSIVE"
	PolicyPredatory    ApprovalPolicy = "PREDATORY"
)

const (
	MaxLevel = 20

	minDepositRate = 0.0
	maxDepositRate = 0.10
	minLoanRate    = 0.01
	maxLoanRate    = 0.40
)

// levelThresholds[n] is the cumulative experience needed to reach level n+1.
// Index 0 is level 1 (threshold 0).
var levelThresholds = [MaxLevel]int64{
	0, 100, 250, 500, 1_000,
	2_000, 3_500, 5_500, 8_000, 11_000,
	15_000, 20_000, 26_000, 33_000, 41_000,
	50_000, 60_000, 72_000, 86_000, 102_000,
}

// DailyStats is one day's aggregate activity, upserted by date key.
type DailyStats struct {
	Date             string          `json:"date"`
	LoansOriginated  int             `json:"loans_originated"`
	PaymentsReceived int             `json:"payments_received"`
	LateFees         decimal.Decimal `json:"late_fees"`
	Defaults         int             `json:"defaults"`
	Payoffs          int             `json:"payoffs"`
	InterestPaid     decimal.Decimal `json:"interest_paid"`
	DepositsMatured  int             `json:"deposits_matured"`
	Revenue          decimal.Decimal `json:"revenue"`
	Expenses         decimal.Decimal `json:"expenses"`
	NetProfit        decimal.Decimal `json:"net_profit"`
}

// BankProfile is the per-bank configuration and progression record.
type BankProfile struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	BankID string `gorm:"size:32;uniqueIndex:ux_bank_profiles_bank_id" json:"bank_id"`
	Name   string `gorm:"size:128" json:"name"`

	OwnerPlayerID  string `gorm:"size:32;index:idx_bank_profiles_player" json:"owner_player_id"`
	OwnerCompanyID string `gorm:"size:32;index:idx_bank_profiles_company" json:"owner_company_id"`

	Level      int   `gorm:"default:1" json:"level"`
	Experience int64 `json:"experience"`

	DepositRates map[deposit.AccountType]float64 `gorm:"serializer:json" json:"deposit_rates"`
	LoanRates    map[risk.Tier]float64           `gorm:"serializer:json" json:"loan_rates"`

	Policy ApprovalPolicy `gorm:"size:16;default:'MODERATE'" json:"policy"`

	MaxSingleLoan       decimal.Decimal `gorm:"type:decimal(18,2)" json:"max_single_loan"`
	MaxTotalOutstanding decimal.Decimal `gorm:"type:decimal(18,2)" json:"max_total_outstanding"`
	MaxDailyApprovals   int             `json:"max_daily_approvals"`

	CapitalReserve     decimal.Decimal `gorm:"type:decimal(18,2)" json:"capital_reserve"`
	TargetReserveRatio float64         `gorm:"type:decimal(6,4)" json:"target_reserve_ratio"`
	ActualReserveRatio float64         `gorm:"type:decimal(6,4)" json:"actual_reserve_ratio"`

	Reputation int `gorm:"default:50" json:"reputation"`

	Stats []DailyStats `gorm:"serializer:json" json:"stats"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BankProfile) TableName() string { return "bank_profiles" }

// NewBankProfile creates a level-1 bank with default rates and limits.
func NewBankProfile(bankID, name, ownerPlayerID, ownerCompanyID string, now time.Time) *BankProfile {
	depositRates := make(map[deposit.AccountType]float64)
	for _, t := range []deposit.AccountType{
		deposit.TypeChecking, deposit.TypeSavings, deposit.TypeMoneyMarket,
		deposit.TypeCD3, deposit.TypeCD6, deposit.TypeCD12,
	} {
		if r, err := deposit.RulesFor(t); err == nil {
			depositRates[t] = r.BaseRate
		}
	}

	return &BankProfile{
		BankID:         bankID,
		Name:           name,
		OwnerPlayerID:  ownerPlayerID,
		OwnerCompanyID: ownerCompanyID,
		Level:          1,
		Experience:     0,
		DepositRates:   depositRates,
		LoanRates: map[risk.Tier]float64{
			risk.TierPrime:        0.06,
			risk.TierNearPrime:    0.09,
			risk.TierSubprime:     0.15,
			risk.TierDeepSubprime: 0.24,
		},
		Policy:              PolicyModerate,
		MaxSingleLoan:       maxSingleLoanForLevel(1),
		MaxTotalOutstanding: maxSingleLoanForLevel(1).Mul(decimal.NewFromInt(20)),
		MaxDailyApprovals:   5,
		CapitalReserve:      decimal.NewFromInt(100_000),
		TargetReserveRatio:  0.10,
		ActualReserveRatio:  1.0,
		Reputation:          50,
		CreatedAt:           now,
	}
}

// maxSingleLoanForLevel grows the per-loan ceiling with bank level:
// $25,000 at level 1, +$25,000 per level.
func maxSingleLoanForLevel(level int) decimal.Decimal {
	return decimal.NewFromInt(int64(level) * 25_000)
}

// ThresholdForLevel returns the cumulative XP needed to reach the given level.
func ThresholdForLevel(level int) (int64, bool) {
	if level < 1 || level > MaxLevel {
		return 0, false
	}
	return levelThresholds[level-1], true
}
