package deposit

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("deposit account not found")
	ErrAccountClosed        = errors.New("account is closed")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInsufficientFunds    = errors.New("amount exceeds balance")
	ErrBelowMinimumBalance  = errors.New("withdrawal would violate minimum balance")
	ErrWithdrawalCapReached = errors.New("monthly withdrawal cap reached")
	ErrUnknownAccountType   = errors.New("unknown account type")
)

type AccountType string

const (
	TypeChecking    AccountType = "CHECKING"
	TypeSavings     AccountType = "SAVINGS"
	TypeMoneyMarket AccountType = "MONEY_MARKET"
	TypeCD3         AccountType = "CD_3"
	TypeCD6         AccountType = "CD_6"
	TypeCD12        AccountType = "CD_12"
)

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusMatured Status = "MATURED"
	StatusClosed  Status = "CLOSED"
)

type CustomerType string

const (
	CustomerIndividual CustomerType = "INDIVIDUAL"
	CustomerBusiness   CustomerType = "BUSINESS"
)

type TxType string

const (
	TxDeposit    TxType = "DEPOSIT"
	TxWithdrawal TxType = "WITHDRAWAL"
	TxInterest   TxType = "INTEREST"
	TxPenalty    TxType = "PENALTY"
)

// Transaction is one entry in the account's JSON transaction log.
type Transaction struct {
	TxID    string          `json:"tx_id"`
	Type    TxType          `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
	At      time.Time       `json:"at"`
	Note    string          `json:"note,omitempty"`
}

// Experience awarded when a CD matures.
const XPDepositMatured = 15

// BankDeposit is a liability account funding the bank.
type BankDeposit struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"-"`
	AccountID string `gorm:"size:32;uniqueIndex:ux_bank_deposits_account_id" json:"account_id"`
	BankID    string `gorm:"size:32;index:idx_bank_deposits_bank" json:"bank_id"`

	CustomerName string       `gorm:"size:128" json:"customer_name"`
	CustomerType CustomerType `gorm:"size:16" json:"customer_type"`
	Satisfaction int          `json:"satisfaction"`

	Type            AccountType     `gorm:"size:16" json:"type"`
	Balance         decimal.Decimal `gorm:"type:decimal(18,2)" json:"balance"`
	InitialDeposit  decimal.Decimal `gorm:"type:decimal(18,2)" json:"initial_deposit"`
	Rate            float64         `gorm:"type:decimal(6,4)" json:"rate"`
	InterestAccrued decimal.Decimal `gorm:"type:decimal(18,4)" json:"interest_accrued"`

	WithdrawalsThisMonth int    `json:"withdrawals_this_month"`
	WithdrawalMonth      string `gorm:"size:7" json:"withdrawal_month"`

	MaturityDate     *time.Time `json:"maturity_date,omitempty"`
	LastInterestDate time.Time  `json:"last_interest_date"`

	Transactions []Transaction `gorm:"serializer:json" json:"transactions"`

	Status   Status    `gorm:"size:16;default:'ACTIVE'" json:"status"`
	OpenedAt time.Time `json:"opened_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BankDeposit) TableName() string { return "bank_deposits" }

// NewDeposit opens an account with an initial deposit. CDs get their maturity
// date from the account type's term.
func NewDeposit(
	accountID, bankID, customerName string,
	customerType CustomerType,
	accountType AccountType,
	initial decimal.Decimal,
	rate float64,
	now time.Time,
) (*BankDeposit, error) {
	rules, err := RulesFor(accountType)
	if err != nil {
		return nil, err
	}
	if initial.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if initial.LessThan(rules.MinBalance) {
		return nil, ErrBelowMinimumBalance
	}

	d := &BankDeposit{
		AccountID:        accountID,
		BankID:           bankID,
		CustomerName:     customerName,
		CustomerType:     customerType,
		Satisfaction:     70,
		Type:             accountType,
		Balance:          initial,
		InitialDeposit:   initial,
		Rate:             rate,
		InterestAccrued:  decimal.Zero,
		WithdrawalMonth:  monthKey(now),
		LastInterestDate: now,
		Status:           StatusActive,
		OpenedAt:         now,
	}
	if rules.TermMonths > 0 {
		m := now.AddDate(0, rules.TermMonths, 0)
		d.MaturityDate = &m
	}
	d.Transactions = append(d.Transactions, Transaction{
		TxID:    uuid.NewString(),
		Type:    TxDeposit,
		Amount:  initial,
		Balance: initial,
		At:      now,
		Note:    "initial deposit",
	})
	return d, nil
}

func monthKey(t time.Time) string { return t.UTC().Format("2006-01") }
