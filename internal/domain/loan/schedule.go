package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// GenerateSchedule computes a standard fixed-payment amortization schedule and
// the level monthly payment.
//
//	monthlyRate = annualRate / 12
//	payment     = P * r * (1+r)^n / ((1+r)^n - 1)
//
// The last period's principal portion absorbs rounding drift so the balance
// reaches exactly zero and the principal portions sum to the original principal.
func GenerateSchedule(
	principal decimal.Decimal,
	annualRate float64,
	termMonths int,
	startDate time.Time,
) (Schedule, decimal.Decimal) {
	if termMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero
	}

	monthlyRate := annualRate / 12.0

	var payment decimal.Decimal
	if monthlyRate == 0 {
		payment = principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	} else {
		// The power term is computed in float64, monetary arithmetic in decimal.
		factor := math.Pow(1+monthlyRate, float64(termMonths))
		raw := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
		payment = decimal.NewFromFloat(raw).Round(2)
	}

	schedule := make(Schedule, 0, termMonths)
	remaining := principal
	rateDec := decimal.NewFromFloat(monthlyRate)

	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(rateDec).Round(2)
		principalPart := payment.Sub(interest)
		total := payment

		if period == termMonths {
			principalPart = remaining
			total = principalPart.Add(interest)
		}

		remaining = remaining.Sub(principalPart)
		if remaining.LessThan(decimal.Zero) {
			remaining = decimal.Zero
		}

		schedule = append(schedule, ScheduleEntry{
			Period:    period,
			DueDate:   startDate.AddDate(0, period, 0),
			Principal: principalPart,
			Interest:  interest,
			Total:     total,
			Status:    EntryScheduled,
		})
	}

	return schedule, payment
}
