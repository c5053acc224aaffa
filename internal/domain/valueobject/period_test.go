package valueobject

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	t.Run("valid month", func(t *testing.T) {
		m, err := ParseMonth("2024-02")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.String() != "2024-02" {
			t.Errorf("expected 2024-02, got %s", m.String())
		}
		if !m.Start().Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected start %v", m.Start())
		}
		if m.End().Day() != 29 {
			t.Errorf("expected leap-year end on the 29th, got %v", m.End())
		}
	})

	t.Run("invalid month", func(t *testing.T) {
		for _, raw := range []string{"", "2024-13", "2024/01", "24-01"} {
			if _, err := ParseMonth(raw); !errors.Is(err, ErrInvalidMonth) {
				t.Errorf("%q: expected ErrInvalidMonth, got %v", raw, err)
			}
		}
	})
}

func TestMonth_Contains(t *testing.T) {
	m, _ := ParseMonth("2024-03")

	if !m.Contains(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)) {
		t.Error("expected last second of the month to be contained")
	}
	if m.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected first day of next month to be excluded")
	}
	if m.Contains(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)) {
		t.Error("expected previous month to be excluded")
	}
}

func TestMonth_Previous(t *testing.T) {
	m, _ := ParseMonth("2024-01")
	if got := m.Previous().String(); got != "2023-12" {
		t.Errorf("expected 2023-12, got %s", got)
	}
}

func TestMonthsBetween(t *testing.T) {
	first, _ := ParseMonth("2023-11")
	last, _ := ParseMonth("2024-02")

	months := MonthsBetween(first, last)
	expected := []string{"2023-11", "2023-12", "2024-01", "2024-02"}
	if len(months) != len(expected) {
		t.Fatalf("expected %d months, got %d", len(expected), len(months))
	}
	for i := range expected {
		if months[i].String() != expected[i] {
			t.Errorf("month %d: expected %s, got %s", i, expected[i], months[i])
		}
	}

	if got := MonthsBetween(last, first); got != nil {
		t.Errorf("expected nil for an inverted range, got %v", got)
	}
	if got := MonthsBetween(first, first); len(got) != 1 {
		t.Errorf("expected a single month, got %d", len(got))
	}
}

func TestDateRange(t *testing.T) {
	r := NewDateRange(
		time.Date(2024, 1, 30, 15, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 2, 1, 0, 0, 0, time.UTC),
	)

	if r.Days() != 4 {
		t.Errorf("expected 4 days, got %d", r.Days())
	}

	var days []string
	r.EachDay(func(day time.Time) { days = append(days, FormatDate(day)) })
	expected := []string{"2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"}
	for i := range expected {
		if days[i] != expected[i] {
			t.Errorf("day %d: expected %s, got %s", i, expected[i], days[i])
		}
	}

	inverted := NewDateRange(r.End, r.Start)
	if inverted.Days() != 0 {
		t.Errorf("expected 0 days for inverted range, got %d", inverted.Days())
	}
}
