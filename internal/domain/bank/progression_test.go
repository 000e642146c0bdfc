package bank

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tycoon-banking-engine/internal/domain/risk"
)

func newTestBank(t *testing.T) *BankProfile {
	t.Helper()
	return NewBankProfile(
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "First Meridian",
		"pppppppppppppppppppppppppppppppp", "cccccccccccccccccccccccccccccccc",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	)
}

func TestAddExperience_LevelsAcrossThresholds(t *testing.T) {
	b := newTestBank(t)
	require.Equal(t, 1, b.Level)

	gained := b.AddExperience(99)
	assert.Equal(t, 0, gained)
	assert.Equal(t, 1, b.Level)

	// 99 + 1 = 100 crosses the level-2 threshold.
	gained = b.AddExperience(1)
	assert.Equal(t, 1, gained)
	assert.Equal(t, 2, b.Level)
	assert.True(t, b.MaxSingleLoan.Equal(decimal.NewFromInt(50_000)))
	assert.Equal(t, 7, b.MaxDailyApprovals)

	// A single large grant can skip several levels at once.
	gained = b.AddExperience(900)
	assert.Equal(t, 3, gained)
	assert.Equal(t, 5, b.Level)
}

func TestAddExperience_CapsAtMaxLevel(t *testing.T) {
	b := newTestBank(t)
	b.AddExperience(10_000_000)
	assert.Equal(t, MaxLevel, b.Level)

	before := b.Level
	b.AddExperience(10_000_000)
	assert.Equal(t, before, b.Level)

	assert.Equal(t, 0, b.AddExperience(0))
	assert.Equal(t, 0, b.AddExperience(-50))
}

func TestThresholds_StrictlyIncreasing(t *testing.T) {
	prev := int64(-1)
	for lvl := 1; lvl <= MaxLevel; lvl++ {
		th, ok := ThresholdForLevel(lvl)
		require.True(t, ok)
		assert.Greater(t, th, prev, "level %d", lvl)
		prev = th
	}
	_, ok := ThresholdForLevel(21)
	assert.False(t, ok)
}

func TestCanApproveLoan_PolicyGates(t *testing.T) {
	cases := []struct {
		policy ApprovalPolicy
		tier   risk.Tier
		ok     bool
	}{
		{PolicyConservative, risk.TierPrime, true},
		{PolicyConservative, risk.TierNearPrime, true},
		{PolicyConservative, risk.TierSubprime, false},
		{PolicyConservative, risk.TierDeepSubprime, false},
		{PolicyModerate, risk.TierSubprime, true},
		{PolicyModerate, risk.TierDeepSubprime, false},
		{PolicyAggressive, risk.TierDeepSubprime, true},
		{PolicyPredatory, risk.TierDeepSubprime, true},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_%s", tc.policy, tc.tier), func(t *testing.T) {
			b := newTestBank(t)
			require.NoError(t, b.SetPolicy(tc.policy))
			err := b.CanApproveLoan(decimal.NewFromInt(10_000), tc.tier, decimal.Zero, 0)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrApprovalForbidden)
			}
		})
	}
}

func TestCanApproveLoan_AmountCeiling(t *testing.T) {
	b := newTestBank(t)
	assert.NoError(t, b.CanApproveLoan(decimal.NewFromInt(25_000), risk.TierPrime, decimal.Zero, 0))
	assert.ErrorIs(t, b.CanApproveLoan(decimal.NewFromInt(25_001), risk.TierPrime, decimal.Zero, 0), ErrApprovalForbidden)
}

func TestCanApproveLoan_TotalOutstandingCeiling(t *testing.T) {
	b := newTestBank(t)
	// Level 1: $25,000 single, $500,000 total.
	room := b.MaxTotalOutstanding.Sub(decimal.NewFromInt(10_000))

	assert.NoError(t, b.CanApproveLoan(decimal.NewFromInt(10_000), risk.TierPrime, room, 0))
	assert.ErrorIs(t,
		b.CanApproveLoan(decimal.NewFromInt(10_001), risk.TierPrime, room, 0),
		ErrApprovalForbidden)
}

func TestCanApproveLoan_DailyApprovalCap(t *testing.T) {
	b := newTestBank(t)
	require.Equal(t, 5, b.MaxDailyApprovals)

	assert.NoError(t, b.CanApproveLoan(decimal.NewFromInt(10_000), risk.TierPrime, decimal.Zero, 4))
	assert.ErrorIs(t,
		b.CanApproveLoan(decimal.NewFromInt(10_000), risk.TierPrime, decimal.Zero, 5),
		ErrApprovalForbidden)
}

func TestApplyReputation_Clamped(t *testing.T) {
	b := newTestBank(t)
	require.Equal(t, 50, b.Reputation)

	b.ApplyReputation(-ReputationCostPredatory)
	assert.Equal(t, 48, b.Reputation)

	b.ApplyReputation(-1_000)
	assert.Equal(t, 0, b.Reputation)

	b.ApplyReputation(1_000)
	assert.Equal(t, 100, b.Reputation)
}

func TestLoansOriginatedOn(t *testing.T) {
	b := newTestBank(t)
	assert.Equal(t, 0, b.LoansOriginatedOn("2026-03-01"))

	b.UpsertDailyStats(DailyStats{Date: "2026-03-01", LoansOriginated: 3})
	assert.Equal(t, 3, b.LoansOriginatedOn("2026-03-01"))
	assert.Equal(t, 0, b.LoansOriginatedOn("2026-03-02"))
}

func TestSetRates_ClampedAtWrite(t *testing.T) {
	b := newTestBank(t)

	assert.ErrorIs(t, b.SetLoanRate(risk.TierPrime, 0.45), ErrRateOutOfBounds)
	assert.ErrorIs(t, b.SetLoanRate(risk.TierPrime, 0.005), ErrRateOutOfBounds)
	require.NoError(t, b.SetLoanRate(risk.TierPrime, 0.07))
	assert.Equal(t, 0.07, b.LoanRateFor(risk.TierPrime, 0.06))

	assert.ErrorIs(t, b.SetDepositRate("SAVINGS", 0.12), ErrRateOutOfBounds)
	require.NoError(t, b.SetDepositRate("SAVINGS", 0.025))
	assert.Equal(t, 0.025, b.DepositRateFor("SAVINGS"))

	assert.ErrorIs(t, b.SetPolicy("RECKLESS"), ErrUnknownPolicy)
}

func TestUpsertDailyStats_MergesAndEvicts(t *testing.T) {
	b := newTestBank(t)

	b.UpsertDailyStats(DailyStats{Date: "2026-01-01", PaymentsReceived: 2, Revenue: decimal.NewFromInt(100)})
	b.UpsertDailyStats(DailyStats{Date: "2026-01-01", PaymentsReceived: 3, Revenue: decimal.NewFromInt(50)})
	require.Len(t, b.Stats, 1)
	assert.Equal(t, 5, b.Stats[0].PaymentsReceived)
	assert.True(t, b.Stats[0].Revenue.Equal(decimal.NewFromInt(150)))

	// Keep-newest-30 by insertion order.
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		b.UpsertDailyStats(DailyStats{Date: start.AddDate(0, 0, i).Format("2006-01-02"), PaymentsReceived: 1})
	}
	require.Len(t, b.Stats, 30)
	assert.Equal(t, start.AddDate(0, 0, 39).Format("2006-01-02"), b.Stats[29].Date)
	assert.Equal(t, start.AddDate(0, 0, 10).Format("2006-01-02"), b.Stats[0].Date)
}
