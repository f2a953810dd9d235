package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type Pricing struct {
	DurationHours int             `json:"duration_hours"`
	Total         decimal.Decimal `json:"total_amount"`
}

// ComputePricing bills every started hour in full: 1h01m is two hours.
func ComputePricing(start, end time.Time, hourlyRate decimal.Decimal) (Pricing, error) {
	if !end.After(start) {
		fe := FieldErrors{}
		fe.Add("end_at", "must be after start_at")
		return Pricing{}, fe.Err()
	}

	elapsed := end.Sub(start)
	hours := int(elapsed / time.Hour)
	if elapsed%time.Hour != 0 {
		hours++
	}

	return Pricing{
		DurationHours: hours,
		Total:         hourlyRate.Mul(decimal.NewFromInt(int64(hours))).Round(2),
	}, nil
}
