package model

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// MonthKey is a calendar month in UTC.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf truncates t (converted to UTC) to its month.
func MonthOf(t time.Time) MonthKey {
	t = t.UTC()
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (MonthKey, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// Index is the number of months since year 0; consecutive months differ by one.
func (m MonthKey) Index() int { return m.Year*12 + int(m.Month) - 1 }

// MonthFromIndex is the inverse of Index.
func MonthFromIndex(i int) MonthKey {
	return MonthKey{Year: i / 12, Month: time.Month(i%12 + 1)}
}

func (m MonthKey) Next() MonthKey { return MonthFromIndex(m.Index() + 1) }

func (m MonthKey) Before(o MonthKey) bool { return m.Index() < o.Index() }

func (m MonthKey) After(o MonthKey) bool { return m.Index() > o.Index() }

// Start is the first instant of the month.
func (m MonthKey) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m MonthKey) String() string { return m.Start().Format(monthLayout) }

func (m MonthKey) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *MonthKey) UnmarshalText(b []byte) error {
	k, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = k
	return nil
}
