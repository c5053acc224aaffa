// Package valueobject contains domain value objects and pure computations of the feedlot finance domain.
package valueobject

import (
	"errors"
	"fmt"
	"time"
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// ErrInvalidMonth is returned when a month string cannot be parsed.
var ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

// Month is a calendar month in UTC.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

// Start returns midnight of the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last instant of the last day of the month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(m.Start()) && !t.After(m.End())
}

// Previous returns the month before m.
func (m Month) Previous() Month {
	return MonthOf(m.Start().AddDate(0, -1, 0))
}

// Next returns the month after m.
func (m Month) Next() Month {
	return MonthOf(m.Start().AddDate(0, 1, 0))
}

// MonthsBetween lists every month from first to last inclusive.
// It returns nil when last is before first.
func MonthsBetween(first, last Month) []Month {
	if last.Start().Before(first.Start()) {
		return nil
	}
	var months []Month
	for m := first; !m.Start().After(last.Start()); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return m.Start().Format(monthLayout)
}

// ParseDate parses a YYYY-MM-DD string as a UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// TruncateDay returns midnight UTC of the day containing t.
func TruncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange truncates both ends to whole days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: TruncateDay(start), End: TruncateDay(end)}
}

// Days returns the number of calendar days in the range, both ends included.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// EndOfDay returns the last instant of the range.
func (r DateRange) EndOfDay() time.Time {
	return r.End.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// EachDay calls fn for every day in the range in ascending order.
func (r DateRange) EachDay(fn func(day time.Time)) {
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
