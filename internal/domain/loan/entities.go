package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tycoon-banking-engine/internal/domain/risk"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrTerminalState     = errors.New("loan is in a terminal state")
	ErrNotServiceable    = errors.New("loan is not active or delinquent")
	ErrCorruptSchedule   = errors.New("loan schedule has no open entries")
	ErrNoCollateral      = errors.New("loan has no collateral to foreclose on")
	ErrInvalidTransition = errors.New("invalid loan state transition")
)

type Status string

const (
	StatusApproved    Status = "APPROVED"
	StatusActive      Status = "ACTIVE"
	StatusDelinquent  Status = "DELINQUENT"
	StatusPaidOff     Status = "PAID_OFF"
	StatusDefaulted   Status = "DEFAULTED"
	StatusWrittenOff  Status = "WRITTEN_OFF"
	StatusForeclosure Status = "FORECLOSURE"
)

// Terminal reports whether no further balance mutation is permitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusPaidOff, StatusDefaulted, StatusWrittenOff, StatusForeclosure:
		return true
	}
	return false
}

type EntryStatus string

const (
	EntryScheduled EntryStatus = "SCHEDULED"
	EntryPaid      EntryStatus = "PAID"
	EntryMissed    EntryStatus = "MISSED"
)

// ScheduleEntry is one period of the amortization schedule.
type ScheduleEntry struct {
	Period    int             `json:"period"`
	DueDate   time.Time       `json:"due_date"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Total     decimal.Decimal `json:"total"`
	Status    EntryStatus     `json:"status"`
}

// Schedule is stored as a JSON document on the loan row.
type Schedule []ScheduleEntry

// Experience awards per loan event.
const (
	XPLoanOriginated  = 25
	XPPaymentReceived = 10
	XPLoanPaidOff     = 100
)

// BorrowerSnapshot is copied from the applicant at origination, not live-linked,
// so the historical record survives later profile changes.
type BorrowerSnapshot struct {
	Name        string
	CreditScore int
	Tier        risk.Tier
}

// BankLoan is an approved, funded obligation.
type BankLoan struct {
	ID          uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID      string `gorm:"size:32;uniqueIndex:ux_bank_loans_loan_id" json:"loan_id"`
	BankID      string `gorm:"size:32;index:idx_bank_loans_bank" json:"bank_id"`
	ApplicantID string `gorm:"size:32;index" json:"applicant_id"`

	BorrowerName        string    `gorm:"size:128" json:"borrower_name"`
	BorrowerCreditScore int       `json:"borrower_credit_score"`
	BorrowerTier        risk.Tier `gorm:"size:16" json:"borrower_tier"`

	Principal      decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal"`
	AnnualRate     float64         `gorm:"type:decimal(6,4)" json:"annual_rate"`
	TermMonths     int             `json:"term_months"`
	MonthlyPayment decimal.Decimal `gorm:"type:decimal(18,2)" json:"monthly_payment"`

	PrincipalBalance decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal_balance"`
	InterestAccrued  decimal.Decimal `gorm:"type:decimal(18,2)" json:"interest_accrued"`
	TotalPaid        decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_paid"`
	TotalLateFees    decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_late_fees"`

	Status          Status   `gorm:"size:16" json:"status"`
	MissedPayments  int      `json:"missed_payments"`
	DaysDelinquent  int      `json:"days_delinquent"`
	CollateralValue *float64 `gorm:"type:decimal(18,2)" json:"collateral_value,omitempty"`

	Schedule Schedule `gorm:"serializer:json" json:"schedule"`

	ExperienceEarned int       `json:"experience_earned"`
	DisbursedAt      time.Time `json:"disbursed_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BankLoan) TableName() string { return "bank_loans" }

// NewLoan disburses an approved application: the schedule is generated here and
// the loan starts ACTIVE.
func NewLoan(
	loanID, bankID, applicantID string,
	borrower BorrowerSnapshot,
	principal decimal.Decimal,
	annualRate float64,
	termMonths int,
	collateralValue *float64,
	now time.Time,
) (*BankLoan, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("principal must be positive")
	}
	if termMonths <= 0 {
		return nil, errors.New("term months must be positive")
	}
	if annualRate < 0 {
		return nil, errors.New("annual rate must not be negative")
	}

	sched, payment := GenerateSchedule(principal, annualRate, termMonths, now)

	return &BankLoan{
		LoanID:              loanID,
		BankID:              bankID,
		ApplicantID:         applicantID,
		BorrowerName:        borrower.Name,
		BorrowerCreditScore: borrower.CreditScore,
		BorrowerTier:        borrower.Tier,
		Principal:           principal,
		AnnualRate:          annualRate,
		TermMonths:          termMonths,
		MonthlyPayment:      payment,
		PrincipalBalance:    principal,
		InterestAccrued:     decimal.Zero,
		TotalPaid:           decimal.Zero,
		TotalLateFees:       decimal.Zero,
		Status:              StatusActive,
		CollateralValue:     collateralValue,
		Schedule:            sched,
		ExperienceEarned:    XPLoanOriginated,
		DisbursedAt:         now,
	}, nil
}

// NextDue returns the first unpaid schedule entry and its index, or -1 when
// every entry is settled. Missed entries stay due until a later payment makes
// them up, so a balance can always be paid down through the schedule.
func (l *BankLoan) NextDue() (ScheduleEntry, int) {
	for i, e := range l.Schedule {
		if e.Status != EntryPaid {
			return e, i
		}
	}
	return ScheduleEntry{}, -1
}

func cloneSchedule(s Schedule) Schedule {
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}
