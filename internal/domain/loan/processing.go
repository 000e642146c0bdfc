package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"tycoon-banking-engine/pkg/random"
)

const (
	delinquencyDaysPerMiss  = 30
	lateFeeThresholdDays    = 15
	delinquentThresholdDays = 30
	defaultThresholdDays    = 90

	lateFeeRate = 0.05
	lateFeeMin  = 25
	lateFeeMax  = 100

	// Each consecutive missed payment scales the next miss probability up by 50%.
	distressScalePerMiss = 0.5
)

// TickOutcome reports the effects of processing one loan for one tick. Amounts
// are zero when the tick was a no-op.
type TickOutcome struct {
	Acted            bool
	Paid             bool
	Missed           bool
	AmountPaid       decimal.Decimal
	PrincipalPaid    decimal.Decimal
	InterestAccrued  decimal.Decimal
	LateFee          decimal.Decimal
	PaidOff          bool
	Defaulted        bool
	BecameDelinquent bool
	Experience       int
}

func emptyOutcome() TickOutcome {
	return TickOutcome{
		AmountPaid:      decimal.Zero,
		PrincipalPaid:   decimal.Zero,
		InterestAccrued: decimal.Zero,
		LateFee:         decimal.Zero,
	}
}

// MissProbability converts the loan's annual tier default rate into a per-period
// miss probability, scaled by consecutive missed payments and clamped to [0, 1].
func (l *BankLoan) MissProbability() float64 {
	annual := l.BorrowerTier.BaseAnnualDefaultRate()
	monthly := 1 - math.Pow(1-annual, 1.0/12.0)
	scaled := monthly * (1 + float64(l.MissedPayments)*distressScalePerMiss)
	if scaled < 0 {
		return 0
	}
	if scaled > 1 {
		return 1
	}
	return scaled
}

// ProcessTick advances one loan by one tick without persisting anything: it
// returns the next state and the effects, leaving mutation application to the
// caller. A loan whose next payment is not yet due is a strict no-op.
func ProcessTick(l BankLoan, now time.Time, rng random.Rand) (BankLoan, TickOutcome, error) {
	out := emptyOutcome()

	if l.Status != StatusActive && l.Status != StatusDelinquent {
		return l, out, nil
	}

	entry, idx := l.NextDue()
	if idx < 0 {
		if l.PrincipalBalance.IsPositive() {
			return l, out, ErrCorruptSchedule
		}
		return l, out, nil
	}
	if now.Before(entry.DueDate) {
		return l, out, nil
	}

	next := l
	next.Schedule = cloneSchedule(l.Schedule)
	out.Acted = true

	// Interest accrual always precedes the payment decision.
	interest := next.PrincipalBalance.Mul(decimal.NewFromFloat(next.AnnualRate / 12)).Round(2)
	next.InterestAccrued = next.InterestAccrued.Add(interest)
	out.InterestAccrued = interest

	if rng.Float64() < next.MissProbability() {
		missPayment(&next, idx, &out)
	} else {
		applyScheduledPayment(&next, idx, &out)
	}

	return next, out, nil
}

func applyScheduledPayment(l *BankLoan, idx int, out *TickOutcome) {
	entry := &l.Schedule[idx]
	entry.Status = EntryPaid

	l.PrincipalBalance = l.PrincipalBalance.Sub(entry.Principal)
	if l.PrincipalBalance.LessThan(decimal.Zero) {
		l.PrincipalBalance = decimal.Zero
	}
	l.TotalPaid = l.TotalPaid.Add(entry.Total)
	l.MissedPayments = 0
	l.DaysDelinquent = 0
	if l.Status == StatusDelinquent {
		l.Status = StatusActive
	}

	out.Paid = true
	out.AmountPaid = entry.Total
	out.PrincipalPaid = entry.Principal
	out.Experience += XPPaymentReceived
	l.ExperienceEarned += XPPaymentReceived

	if l.PrincipalBalance.LessThanOrEqual(decimal.Zero) {
		l.Status = StatusPaidOff
		out.PaidOff = true
		out.Experience += XPLoanPaidOff
		l.ExperienceEarned += XPLoanPaidOff
	}
}

func missPayment(l *BankLoan, idx int, out *TickOutcome) {
	l.Schedule[idx].Status = EntryMissed
	l.MissedPayments++
	l.DaysDelinquent += delinquencyDaysPerMiss

	out.Missed = true

	if l.DaysDelinquent >= lateFeeThresholdDays {
		fee := lateFee(l.MonthlyPayment)
		l.TotalLateFees = l.TotalLateFees.Add(fee)
		out.LateFee = fee
	}
	if l.DaysDelinquent >= delinquentThresholdDays && l.Status == StatusActive {
		l.Status = StatusDelinquent
		out.BecameDelinquent = true
	}
	if l.DaysDelinquent >= defaultThresholdDays {
		l.Status = StatusDefaulted
		out.Defaulted = true
		for i := range l.Schedule {
			if l.Schedule[i].Status == EntryScheduled {
				l.Schedule[i].Status = EntryMissed
			}
		}
	}
}

func lateFee(monthlyPayment decimal.Decimal) decimal.Decimal {
	fee := monthlyPayment.Mul(decimal.NewFromFloat(lateFeeRate)).Round(2)
	min := decimal.NewFromInt(lateFeeMin)
	max := decimal.NewFromInt(lateFeeMax)
	if fee.LessThan(min) {
		return min
	}
	if fee.GreaterThan(max) {
		return max
	}
	return fee
}

// PaymentResult reports a manual or early payment.
type PaymentResult struct {
	AmountApplied   decimal.Decimal
	PrincipalPaid   decimal.Decimal
	InterestPaid    decimal.Decimal
	EntriesSettled  int
	ExtraPrincipal  decimal.Decimal
	PaidOff         bool
	Experience      int
}

// ApplyPayment applies a manual payment outside the tick, settling scheduled
// entries in order with the same split as the scheduled path. Any residual after
// whole entries is applied directly to principal.
func ApplyPayment(l BankLoan, amount decimal.Decimal, now time.Time) (BankLoan, PaymentResult, error) {
	res := PaymentResult{
		AmountApplied:  decimal.Zero,
		PrincipalPaid:  decimal.Zero,
		InterestPaid:   decimal.Zero,
		ExtraPrincipal: decimal.Zero,
	}
	if l.Status.Terminal() {
		return l, res, ErrTerminalState
	}
	if l.Status != StatusActive && l.Status != StatusDelinquent {
		return l, res, ErrNotServiceable
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return l, res, ErrInvalidTransition
	}

	next := l
	next.Schedule = cloneSchedule(l.Schedule)
	remaining := amount

	for {
		entry, idx := next.NextDue()
		if idx < 0 || remaining.LessThan(entry.Total) {
			break
		}
		next.Schedule[idx].Status = EntryPaid
		next.PrincipalBalance = next.PrincipalBalance.Sub(entry.Principal)
		next.TotalPaid = next.TotalPaid.Add(entry.Total)
		remaining = remaining.Sub(entry.Total)
		res.PrincipalPaid = res.PrincipalPaid.Add(entry.Principal)
		res.InterestPaid = res.InterestPaid.Add(entry.Interest)
		res.EntriesSettled++
	}

	// Residual below one payment prepays principal.
	if remaining.IsPositive() && next.PrincipalBalance.IsPositive() {
		extra := decimal.Min(remaining, next.PrincipalBalance)
		next.PrincipalBalance = next.PrincipalBalance.Sub(extra)
		next.TotalPaid = next.TotalPaid.Add(extra)
		res.ExtraPrincipal = extra
		res.PrincipalPaid = res.PrincipalPaid.Add(extra)
		remaining = remaining.Sub(extra)
	}

	res.AmountApplied = amount.Sub(remaining)
	if res.AmountApplied.IsZero() {
		return l, res, ErrInvalidTransition
	}

	if next.PrincipalBalance.LessThan(decimal.Zero) {
		next.PrincipalBalance = decimal.Zero
	}
	if res.EntriesSettled > 0 {
		next.MissedPayments = 0
		next.DaysDelinquent = 0
		if next.Status == StatusDelinquent {
			next.Status = StatusActive
		}
		res.Experience += res.EntriesSettled * XPPaymentReceived
		next.ExperienceEarned += res.EntriesSettled * XPPaymentReceived
	}
	if next.PrincipalBalance.IsZero() {
		next.Status = StatusPaidOff
		res.PaidOff = true
		res.Experience += XPLoanPaidOff
		next.ExperienceEarned += XPLoanPaidOff
		for i := range next.Schedule {
			if next.Schedule[i].Status == EntryScheduled {
				next.Schedule[i].Status = EntryPaid
			}
		}
	}

	return next, res, nil
}

// PayOff settles the loan early: remaining principal plus one period's interest
// on the current balance. All open entries are marked paid.
func PayOff(l BankLoan, now time.Time) (BankLoan, PaymentResult, error) {
	res := PaymentResult{
		AmountApplied:  decimal.Zero,
		PrincipalPaid:  decimal.Zero,
		InterestPaid:   decimal.Zero,
		ExtraPrincipal: decimal.Zero,
	}
	if l.Status.Terminal() {
		return l, res, ErrTerminalState
	}
	if l.Status != StatusActive && l.Status != StatusDelinquent {
		return l, res, ErrNotServiceable
	}

	next := l
	next.Schedule = cloneSchedule(l.Schedule)

	interest := next.PrincipalBalance.Mul(decimal.NewFromFloat(next.AnnualRate / 12)).Round(2)
	payoff := next.PrincipalBalance.Add(interest)

	res.AmountApplied = payoff
	res.PrincipalPaid = next.PrincipalBalance
	res.InterestPaid = interest
	res.PaidOff = true

	next.InterestAccrued = next.InterestAccrued.Add(interest)
	next.TotalPaid = next.TotalPaid.Add(payoff)
	next.PrincipalBalance = decimal.Zero
	next.MissedPayments = 0
	next.DaysDelinquent = 0
	next.Status = StatusPaidOff
	for i := range next.Schedule {
		if next.Schedule[i].Status == EntryScheduled {
			next.Schedule[i].Status = EntryPaid
		}
	}
	res.Experience = XPLoanPaidOff
	next.ExperienceEarned += XPLoanPaidOff

	return next, res, nil
}

// WriteOff is an explicit administrative transition from DEFAULTED, never taken
// by the tick itself.
func WriteOff(l BankLoan, now time.Time) (BankLoan, error) {
	if l.Status != StatusDefaulted {
		return l, ErrInvalidTransition
	}
	next := l
	next.Status = StatusWrittenOff
	return next, nil
}

// Foreclose moves a collateralized delinquent or defaulted loan to FORECLOSURE.
func Foreclose(l BankLoan, now time.Time) (BankLoan, error) {
	if l.Status != StatusDelinquent && l.Status != StatusDefaulted {
		return l, ErrInvalidTransition
	}
	if l.CollateralValue == nil {
		return l, ErrNoCollateral
	}
	next := l
	next.Status = StatusForeclosure
	return next, nil
}
