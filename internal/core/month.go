package core

import (
	"fmt"
	"time"
)

// Month is a calendar month, the grain of budgets, limits and challenge
// windows. Its string form YYYY-MM matches the storage layout.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month a date falls in.
func MonthOf(d Date) Month {
	return Month{Year: d.Time.Year(), Month: d.Time.Month()}
}

// CurrentMonth returns the current calendar month in UTC.
func CurrentMonth() Month {
	return MonthOf(Today())
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, ErrInvalidDate
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) Validate() error {
	if m.Year < 1 || m.Month < time.January || m.Month > time.December {
		return ErrInvalidDate
	}
	return nil
}

