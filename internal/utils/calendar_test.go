package utils

import (
	"testing"
	"time"

	"reservation-backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestWeekRange_StartsOnMonday(t *testing.T) {
	loc := mustLoad(t, "Europe/Paris")

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"sunday", time.Date(2026, 3, 8, 22, 0, 0, 0, loc), "2026-03-02"},
		{"monday", time.Date(2026, 3, 9, 0, 0, 0, 0, loc), "2026-03-09"},
		{"wednesday", time.Date(2026, 3, 11, 12, 0, 0, 0, loc), "2026-03-09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := WeekRange(tt.now, loc)
			assert.Equal(t, tt.want, p.Start.Format(DateLayout))
			assert.Equal(t, 7*24*time.Hour, p.End.Sub(p.Start))
		})
	}
}

func TestTodayRange_UsesLocation(t *testing.T) {
	loc := mustLoad(t, "Europe/Paris")
	// 23:30 UTC on the 1st is already the 2nd in Paris
	now := time.Date(2026, 6, 1, 23, 30, 0, 0, time.UTC)

	p := TodayRange(now, loc)
	assert.Equal(t, "2026-06-02", p.Start.Format(DateLayout))
	assert.True(t, p.Start.Before(now) || p.Start.Equal(now))
	assert.True(t, now.Before(p.End))
}

func TestMonthRanges(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, loc)

	current := MonthRange(now, loc)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, loc), current.Start)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, loc), current.End)

	last := LastMonthRange(now, loc)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, loc), last.Start)
	assert.Equal(t, current.Start, last.End)

	assert.Equal(t, current, ReportRange(domain.ReportPeriodCurrent, now, loc))
	assert.Equal(t, last, ReportRange(domain.ReportPeriodPrevious, now, loc))
	assert.Equal(t, last, ReportRange("", now, loc))
}

func TestParseMonth(t *testing.T) {
	p, err := ParseMonth("2024-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, domain.DateRange{Start: "2024-02-01", End: "2024-02-29"}, DisplayRange(p))

	_, err = ParseMonth("February", time.UTC)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFormatSlot(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mon 02 Mar 2026, 09:00 - 11:30", FormatSlot(start, start.Add(150*time.Minute), time.UTC))
}
