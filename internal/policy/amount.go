package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// AmountFor converts a request's date range (DAYS) or minutes (HOURS) into
// policy units. Day counts are inclusive of both endpoints; negative spans
// clamp to zero. Decimal arithmetic keeps fractional hours exact.
func AmountFor(unit string, dateFrom, dateTo time.Time, minutes *int) decimal.Decimal {
	if unit == UnitDays {
		days := int64(dateTo.Sub(dateFrom).Hours()/24) + 1
		if days < 0 {
			days = 0
		}
		return decimal.NewFromInt(days)
	}

	m := 0
	if minutes != nil && *minutes > 0 {
		m = *minutes
	}
	return decimal.NewFromInt(int64(m)).Div(minutesPerHour)
}
