package origination

import (
	"time"

	"tycoon-banking-engine/internal/domain/applicant"
	"tycoon-banking-engine/internal/domain/risk"
	"tycoon-banking-engine/pkg/id"
	"tycoon-banking-engine/pkg/random"
)

var firstNames = []string{
	"James", "Maria", "Wei", "Aisha", "Carlos", "Yuki", "Dmitri", "Fatima",
	"Liam", "Priya", "Omar", "Ingrid", "Kofi", "Elena", "Tomas", "Amara",
	"Noah", "Sofia", "Rajesh", "Hannah",
}

var lastNames = []string{
	"Smith", "Garcia", "Chen", "Okafor", "Silva", "Tanaka", "Volkov", "Hassan",
	"Murphy", "Patel", "Andersson", "Mensah", "Rossi", "Novak", "Kim", "Diallo",
	"Brown", "Alvarez", "Nair", "Schmidt",
}

var purposes = []applicant.Purpose{
	applicant.PurposePersonal,
	applicant.PurposeAuto,
	applicant.PurposeMortgage,
	applicant.PurposeBusiness,
	applicant.PurposeEducation,
}

// Generator samples internally consistent borrower profiles. Quality of the
// applicant pool scales with the bank's level: higher-level banks attract more
// stably employed, higher-score applicants.
type Generator struct {
	rng random.Rand
}

func NewGenerator(rng random.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate produces one pending applicant for the bank. Persistence is the
// caller's responsibility.
func (g *Generator) Generate(bankID string, bankLevel int, now time.Time) *applicant.LoanApplicant {
	if bankLevel < 1 {
		bankLevel = 1
	}

	employment := g.sampleEmployment(bankLevel)
	income := g.sampleIncome(employment)
	creditScore := g.sampleCreditScore(bankLevel)
	purpose := purposes[g.rng.Intn(len(purposes))]
	amount, term := g.sampleRequest(purpose, income)

	a := &applicant.LoanApplicant{
		ApplicantID:   id.NewID32(),
		BankID:        bankID,
		Name:          firstNames[g.rng.Intn(len(firstNames))] + " " + lastNames[g.rng.Intn(len(lastNames))],
		Age:           22 + g.rng.Intn(48),
		Employment:    employment,
		YearsEmployed: g.sampleYearsEmployed(employment),

		CreditScore:   creditScore,
		AnnualIncome:  income,
		MonthlyDebt:   income / 12 * (0.05 + g.rng.Float64()*0.45),
		TotalAssets:   income * (0.2 + g.rng.Float64()*2.8),
		HasBankruptcy: g.rng.Float64() < bankruptcyChance(creditScore),
		LatePayments:  g.sampleLatePayments(creditScore),

		RequestedAmount: amount,
		Purpose:         purpose,
		TermMonths:      term,

		Status:    applicant.StatusPending,
		AppliedAt: now,
		// Applications go stale between one and three game days out.
		ExpiresAt: now.Add(time.Duration(24+g.rng.Intn(49)) * time.Hour),
	}

	if purpose == applicant.PurposeMortgage || purpose == applicant.PurposeAuto {
		cv := amount * (0.9 + g.rng.Float64()*0.5)
		a.CollateralValue = &cv
	}

	a.Reassess()
	return a
}

// sampleEmployment shifts probability mass toward stable employment as the
// bank levels up.
func (g *Generator) sampleEmployment(bankLevel int) risk.EmploymentType {
	stableBoost := float64(bankLevel) * 0.01
	draw := g.rng.Float64()
	switch {
	case draw < 0.55+stableBoost:
		return risk.EmploymentFullTime
	case draw < 0.70+stableBoost:
		return risk.EmploymentPartTime
	case draw < 0.85+stableBoost:
		return risk.EmploymentSelfEmployed
	case draw < 0.93+stableBoost:
		return risk.EmploymentRetired
	default:
		return risk.EmploymentUnemployed
	}
}

// sampleCreditScore raises the floor with bank level: 300 + 10/level, capped so
// max-level banks still see scores down to 500.
func (g *Generator) sampleCreditScore(bankLevel int) int {
	floor := 300 + bankLevel*10
	if floor > 500 {
		floor = 500
	}
	return floor + g.rng.Intn(851-floor)
}

func (g *Generator) sampleIncome(e risk.EmploymentType) float64 {
	switch e {
	case risk.EmploymentFullTime:
		return 40_000 + g.rng.Float64()*110_000
	case risk.EmploymentPartTime:
		return 15_000 + g.rng.Float64()*30_000
	case risk.EmploymentSelfEmployed:
		return 25_000 + g.rng.Float64()*175_000
	case risk.EmploymentRetired:
		return 20_000 + g.rng.Float64()*40_000
	default:
		return g.rng.Float64() * 10_000
	}
}

func (g *Generator) sampleYearsEmployed(e risk.EmploymentType) float64 {
	switch e {
	case risk.EmploymentUnemployed:
		return 0
	case risk.EmploymentRetired:
		return 20 + g.rng.Float64()*25
	default:
		return g.rng.Float64() * 15
	}
}

func (g *Generator) sampleLatePayments(creditScore int) int {
	switch {
	case creditScore >= 750:
		return g.rng.Intn(2)
	case creditScore >= 650:
		return g.rng.Intn(4)
	case creditScore >= 550:
		return g.rng.Intn(7)
	default:
		return 2 + g.rng.Intn(9)
	}
}

func bankruptcyChance(creditScore int) float64 {
	switch {
	case creditScore >= 700:
		return 0.01
	case creditScore >= 600:
		return 0.05
	case creditScore >= 500:
		return 0.15
	default:
		return 0.30
	}
}

// sampleRequest sizes amount and term by declared purpose. Mortgages are
// income-multiple sized over multi-year terms; auto and education draw from
// fixed term sets.
func (g *Generator) sampleRequest(p applicant.Purpose, income float64) (float64, int) {
	switch p {
	case applicant.PurposeMortgage:
		terms := []int{120, 180, 240, 360}
		return income * (2 + g.rng.Float64()*3), terms[g.rng.Intn(len(terms))]
	case applicant.PurposeAuto:
		terms := []int{36, 48, 60, 72}
		return 8_000 + g.rng.Float64()*52_000, terms[g.rng.Intn(len(terms))]
	case applicant.PurposeEducation:
		terms := []int{60, 120}
		return 5_000 + g.rng.Float64()*45_000, terms[g.rng.Intn(len(terms))]
	case applicant.PurposeBusiness:
		return 10_000 + g.rng.Float64()*240_000, 12 + g.rng.Intn(49)
	default:
		return 1_000 + g.rng.Float64()*29_000, 6 + g.rng.Intn(55)
	}
}
