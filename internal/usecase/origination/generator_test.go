package origination

import (
	"testing"
	"time"

	"tycoon-banking-engine/internal/domain/applicant"
	"tycoon-banking-engine/internal/domain/risk"
	"tycoon-banking-engine/pkg/random"
)

func TestGenerate_InternallyConsistent(t *testing.T) {
	gen := NewGenerator(random.NewSeeded(42))
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		a := gen.Generate("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 1, now)

		if len(a.ApplicantID) != 32 {
			t.Fatalf("applicant id %q is not 32 hex chars", a.ApplicantID)
		}
		if a.CreditScore < 300 || a.CreditScore > 850 {
			t.Fatalf("credit score %d out of range", a.CreditScore)
		}
		if a.Age < 22 || a.Age > 69 {
			t.Fatalf("age %d out of range", a.Age)
		}
		if a.RequestedAmount <= 0 || a.TermMonths <= 0 {
			t.Fatalf("bad request: amount=%v term=%d", a.RequestedAmount, a.TermMonths)
		}
		if a.Status != applicant.StatusPending {
			t.Fatalf("new applicant status %s", a.Status)
		}

		// Expiry lands 24 to 72 hours out.
		h := a.ExpiresAt.Sub(a.AppliedAt).Hours()
		if h < 24 || h > 72 {
			t.Fatalf("expiry %v hours out", h)
		}

		// Derived risk matches a fresh assessment of the same profile.
		want := risk.Assess(a.RiskProfile())
		if a.RiskTier != want.Tier || a.DefaultProbability != want.DefaultProbability {
			t.Fatalf("derived risk out of sync: %+v vs %+v", a.RiskTier, want.Tier)
		}

		if a.Employment == risk.EmploymentUnemployed && a.YearsEmployed != 0 {
			t.Fatalf("unemployed with %v years employed", a.YearsEmployed)
		}
		if a.Purpose == applicant.PurposeMortgage {
			if a.TermMonths < 120 {
				t.Fatalf("mortgage term %d too short", a.TermMonths)
			}
			if a.CollateralValue == nil {
				t.Fatal("mortgage without collateral")
			}
		}
	}
}

func TestGenerate_PoolImprovesWithBankLevel(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	const n = 500

	avgScore := func(level int, seed int64) float64 {
		gen := NewGenerator(random.NewSeeded(seed))
		total := 0
		for i := 0; i < n; i++ {
			total += gen.Generate("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", level, now).CreditScore
		}
		return float64(total) / n
	}

	low := avgScore(1, 7)
	high := avgScore(20, 7)
	if high <= low {
		t.Fatalf("level 20 pool (%f) should out-score level 1 pool (%f)", high, low)
	}

	// Level 20 floor is 500: no applicant below it.
	gen := NewGenerator(random.NewSeeded(11))
	for i := 0; i < n; i++ {
		if s := gen.Generate("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 20, now).CreditScore; s < 500 {
			t.Fatalf("level 20 applicant with score %d", s)
		}
	}
}

func TestGenerate_SeededIsReproducible(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewGenerator(random.NewSeeded(99)).Generate("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 3, now)
	b := NewGenerator(random.NewSeeded(99)).Generate("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 3, now)

	if a.Name != b.Name || a.CreditScore != b.CreditScore || a.RequestedAmount != b.RequestedAmount {
		t.Fatalf("same seed produced different applicants: %+v vs %+v", a, b)
	}
}
