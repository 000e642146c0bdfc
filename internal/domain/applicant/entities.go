package applicant

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tycoon-banking-engine/internal/domain/risk"
)

var (
	ErrNotFound           = errors.New("applicant not found")
	ErrNotPending         = errors.New("applicant is not pending")
	ErrApplicationExpired = errors.New("application has expired")
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusExpired  Status = "EXPIRED"
)

// Purpose of the requested loan; drives amount/term generation.
type Purpose string

const (
	PurposePersonal  Purpose = "PERSONAL"
	PurposeAuto      Purpose = "AUTO"
	PurposeMortgage  Purpose = "MORTGAGE"
	PurposeBusiness  Purpose = "BUSINESS"
	PurposeEducation Purpose = "EDUCATION"
)

// LoanApplicant is a generated borrower profile awaiting a decision. Approved or
// rejected applicants are retained as historical records, never deleted.
type LoanApplicant struct {
	ID          uint64 `gorm:"primaryKey;column:id" json:"-"`
	ApplicantID string `gorm:"size:32;uniqueIndex:ux_applicants_applicant_id" json:"applicant_id"`
	BankID      string `gorm:"size:32;index:idx_applicants_bank" json:"bank_id"`

	Name          string              `gorm:"size:128" json:"name"`
	Age           int                 `json:"age"`
	Employment    risk.EmploymentType `gorm:"size:16" json:"employment"`
	YearsEmployed float64             `gorm:"type:decimal(5,2)" json:"years_employed"`

	CreditScore   int     `json:"credit_score"`
	AnnualIncome  float64 `gorm:"type:decimal(18,2)" json:"annual_income"`
	MonthlyDebt   float64 `gorm:"type:decimal(18,2)" json:"monthly_debt"`
	TotalAssets   float64 `gorm:"type:decimal(18,2)" json:"total_assets"`
	HasBankruptcy bool    `json:"has_bankruptcy"`
	LatePayments  int     `json:"late_payments"`

	RequestedAmount float64  `gorm:"type:decimal(18,2)" json:"requested_amount"`
	Purpose         Purpose  `gorm:"size:16" json:"purpose"`
	TermMonths      int      `json:"term_months"`
	CollateralValue *float64 `gorm:"type:decimal(18,2)" json:"collateral_value,omitempty"`

	// Derived risk: always a pure function of the financial profile above.
	RiskTier           risk.Tier `gorm:"size:16" json:"risk_tier"`
	DefaultProbability float64   `gorm:"type:decimal(6,4)" json:"default_probability"`
	RecommendedRate    float64   `gorm:"type:decimal(6,4)" json:"recommended_rate"`
	MaxApprovalAmount  float64   `gorm:"type:decimal(18,2)" json:"max_approval_amount"`

	Status    Status    `gorm:"size:16;default:'PENDING'" json:"status"`
	AppliedAt time.Time `json:"applied_at"`
	ExpiresAt time.Time `json:"expires_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LoanApplicant) TableName() string { return "loan_applicants" }

// RiskProfile maps the applicant's financials to the assessor's input.
func (a *LoanApplicant) RiskProfile() risk.Profile {
	return risk.Profile{
		CreditScore:     a.CreditScore,
		AnnualIncome:    a.AnnualIncome,
		MonthlyDebt:     a.MonthlyDebt,
		TotalAssets:     a.TotalAssets,
		HasBankruptcy:   a.HasBankruptcy,
		LatePayments:    a.LatePayments,
		EmploymentType:  a.Employment,
		YearsEmployed:   a.YearsEmployed,
		RequestedAmount: a.RequestedAmount,
	}
}

// Reassess re-derives the risk fields from the financial profile. Must be called
// after any mutation of credit score, income or debt.
func (a *LoanApplicant) Reassess() {
	as := risk.Assess(a.RiskProfile())
	a.RiskTier = as.Tier
	a.DefaultProbability = as.DefaultProbability
	a.RecommendedRate = as.RecommendedRate
	a.MaxApprovalAmount = as.MaxApprovalAmount
}

// ExpiredAt reports whether a still-pending application has passed its expiry.
func (a *LoanApplicant) ExpiredAt(now time.Time) bool {
	return a.Status == StatusPending && now.After(a.ExpiresAt)
}
