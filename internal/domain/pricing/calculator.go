// Package pricing computes visitor parking charges. The rate depends on the
// calendar day at the moment of charge computation and is always evaluated
// server-side; clients only ever submit an hour count.
package pricing

import (
	"errors"
	"time"
)

var ErrInvalidHours = errors.New("hours must be between 1 and 12")

const (
	MinHours = 1
	MaxHours = 12
)

type Calculator struct {
	WeekdayRateCents int64
	WeekendRateCents int64
}

func NewCalculator(weekdayRateCents, weekendRateCents int64) Calculator {
	return Calculator{
		WeekdayRateCents: weekdayRateCents,
		WeekendRateCents: weekendRateCents,
	}
}

// IsWeekendDay treats Friday through Sunday as weekend.
func IsWeekendDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

func (c Calculator) RateCentsAt(t time.Time) int64 {
	if IsWeekendDay(t) {
		return c.WeekendRateCents
	}
	return c.WeekdayRateCents
}

// Quote prices an hour count at the rate in effect at t.
func (c Calculator) Quote(t time.Time, hours int) (int64, error) {
	if hours < MinHours || hours > MaxHours {
		return 0, ErrInvalidHours
	}
	return c.RateCentsAt(t) * int64(hours), nil
}
