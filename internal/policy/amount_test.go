package policy_test

import (
	"testing"
	"time"

	"go-leave/internal/policy"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAmountFor(t *testing.T) {
	t.Run("days are inclusive of both endpoints", func(t *testing.T) {
		got := policy.AmountFor(policy.UnitDays, date(2026, 3, 1), date(2026, 3, 3), nil)
		assert.Equal(t, "3", got.String())
	})

	t.Run("single day counts as one", func(t *testing.T) {
		got := policy.AmountFor(policy.UnitDays, date(2026, 3, 1), date(2026, 3, 1), nil)
		assert.Equal(t, "1", got.String())
	})

	t.Run("inverted range clamps to zero", func(t *testing.T) {
		got := policy.AmountFor(policy.UnitDays, date(2026, 3, 5), date(2026, 3, 1), nil)
		assert.True(t, got.IsZero())
	})

	t.Run("minutes convert to fractional hours exactly", func(t *testing.T) {
		minutes := 90
		got := policy.AmountFor(policy.UnitHours, date(2026, 3, 1), date(2026, 3, 1), &minutes)
		assert.Equal(t, "1.5", got.String())
	})

	t.Run("nil minutes yield zero hours", func(t *testing.T) {
		got := policy.AmountFor(policy.UnitHours, date(2026, 3, 1), date(2026, 3, 1), nil)
		assert.True(t, got.IsZero())
	})
}

func TestLeavePolicy_WindowContains(t *testing.T) {
	p := policy.LeavePolicy{
		ValidFrom: date(2026, 1, 1),
		ValidTo:   date(2026, 12, 31),
	}

	assert.True(t, p.WindowContains(date(2026, 1, 1), date(2026, 12, 31)))
	assert.True(t, p.WindowContains(date(2026, 6, 1), date(2026, 6, 10)))
	assert.False(t, p.WindowContains(date(2025, 12, 31), date(2026, 1, 2)))
	assert.False(t, p.WindowContains(date(2026, 12, 30), date(2027, 1, 2)))
}
