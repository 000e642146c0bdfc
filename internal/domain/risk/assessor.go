package risk

import "errors"

// ErrUnknownTier rejects a tier string outside the four buckets.
var ErrUnknownTier = errors.New("unknown risk tier")

// Tier is the coarse borrower-quality bucket derived from credit score.
type Tier string

const (
	TierPrime        Tier = "PRIME"
	TierNearPrime    Tier = "NEAR_PRIME"
	TierSubprime     Tier = "SUBPRIME"
	TierDeepSubprime Tier = "DEEP_SUBPRIME"
)

// Order ranks tiers from best (0) to worst (3).
func (t Tier) Order() int {
	switch t {
	case TierPrime:
		return 0
	case TierNearPrime:
		return 1
	case TierSubprime:
		return 2
	default:
		return 3
	}
}

// BaseAnnualDefaultRate is the tier's base annual default probability, used both
// for assessment and for the per-period borrower-payment simulation.
func (t Tier) BaseAnnualDefaultRate() float64 {
	switch t {
	case TierPrime:
		return 0.02
	case TierNearPrime:
		return 0.08
	case TierSubprime:
		return 0.20
	default:
		return 0.40
	}
}

// ParseTier validates a wire-format tier string.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierPrime, TierNearPrime, TierSubprime, TierDeepSubprime:
		return t, nil
	default:
		return "", ErrUnknownTier
	}
}

// TierForScore maps a credit score to its tier.
func TierForScore(score int) Tier {
	switch {
	case score >= 750:
		return TierPrime
	case score >= 650:
		return TierNearPrime
	case score >= 550:
		return TierSubprime
	default:
		return TierDeepSubprime
	}
}

// EmploymentType of a borrower.
type EmploymentType string

const (
	EmploymentFullTime     EmploymentType = "FULL_TIME"
	EmploymentPartTime     EmploymentType = "PART_TIME"
	EmploymentSelfEmployed EmploymentType = "SELF_EMPLOYED"
	EmploymentRetired      EmploymentType = "RETIRED"
	EmploymentUnemployed   EmploymentType = "UNEMPLOYED"
)

// Profile is the financial input to an assessment.
type Profile struct {
	CreditScore     int
	AnnualIncome    float64
	MonthlyDebt     float64
	TotalAssets     float64
	HasBankruptcy   bool
	LatePayments    int
	EmploymentType  EmploymentType
	YearsEmployed   float64
	RequestedAmount float64
}

// Assessment is the derived risk for a profile.
type Assessment struct {
	Tier               Tier
	DefaultProbability float64
	RecommendedRate    float64
	MaxApprovalAmount  float64
}

const (
	maxDefaultProbability = 0.95
	baseRate              = 0.05
	maxRate               = 0.30
	// Max monthly payment a borrower can carry: 35% of monthly income minus
	// existing debt, financed over 36 periods.
	paymentIncomeShare = 0.35
	affordablePeriods  = 36
)

// Assess derives a risk tier, default probability, recommended rate and maximum
// approvable amount from a borrower profile. Pure and deterministic: any mutation
// of the profile's financials must re-run Assess before the result is read again.
func Assess(p Profile) Assessment {
	tier := TierForScore(p.CreditScore)
	pd := tier.BaseAnnualDefaultRate()

	if p.HasBankruptcy {
		pd += 0.15
	}
	switch {
	case p.LatePayments > 5:
		pd += 0.10
	case p.LatePayments > 2:
		pd += 0.05
	}
	if dti := debtToIncome(p); dti > 0.5 {
		pd += 0.10
	} else if dti > 0.35 {
		pd += 0.05
	}
	if p.EmploymentType == EmploymentUnemployed {
		pd += 0.25
	}
	if p.YearsEmployed < 1 {
		pd += 0.05
	}
	if pd > maxDefaultProbability {
		pd = maxDefaultProbability
	}

	rate := baseRate + pd*0.5
	if rate > maxRate {
		rate = maxRate
	}

	monthlyIncome := p.AnnualIncome / 12
	capacity := (paymentIncomeShare*monthlyIncome - p.MonthlyDebt) * affordablePeriods
	if capacity < 0 {
		capacity = 0
	}
	maxAmount := p.RequestedAmount
	if capacity < maxAmount {
		maxAmount = capacity
	}

	return Assessment{
		Tier:               tier,
		DefaultProbability: pd,
		RecommendedRate:    rate,
		MaxApprovalAmount:  maxAmount,
	}
}

func debtToIncome(p Profile) float64 {
	if p.AnnualIncome <= 0 {
		return 1
	}
	return p.MonthlyDebt / (p.AnnualIncome / 12)
}
