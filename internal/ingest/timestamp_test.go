package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2023-01-15 10:22:33", time.Date(2023, 1, 15, 10, 22, 33, 0, time.UTC), true},
		{"2023-01-15 10:22", time.Date(2023, 1, 15, 10, 22, 0, 0, time.UTC), true},
		{"2023-01-15T10:22:33Z", time.Date(2023, 1, 15, 10, 22, 33, 0, time.UTC), true},
		{"2023-01-31T23:30:00-02:00", time.Date(2023, 2, 1, 1, 30, 0, 0, time.UTC), true},
		{"2023-01-15T10:22:33", time.Date(2023, 1, 15, 10, 22, 33, 0, time.UTC), true},
		{"2023-01-15", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"2023/01/15", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"01/15/2023 10:22", time.Date(2023, 1, 15, 10, 22, 0, 0, time.UTC), true},
		{"01/15/2023", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"  2023-01-15  ", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"NaT", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"2023-13-40", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseTimestamp(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.True(t, tc.want.Equal(got), "input %q: want %v got %v", tc.in, tc.want, got)
		if ok {
			assert.Equal(t, time.UTC, got.Location(), "input %q", tc.in)
		}
	}
}
