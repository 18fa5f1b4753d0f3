package utils

import (
	"fmt"
	"time"

	"reservation-backoffice/internal/domain"
)

// DateLayout is the yyyy-mm-dd layout used for day keys and report ranges
const DateLayout = "2006-01-02"

// All ranges below are half-open [Start, End) and computed in loc.

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func TodayRange(now time.Time, loc *time.Location) domain.Period {
	start := StartOfDay(now, loc)
	return domain.Period{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekRange returns the ISO week containing now; weeks start on Monday.
func WeekRange(now time.Time, loc *time.Location) domain.Period {
	day := StartOfDay(now, loc)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return domain.Period{Start: start, End: start.AddDate(0, 0, 7)}
}

func MonthOf(year int, month time.Month, loc *time.Location) domain.Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return domain.Period{Start: start, End: start.AddDate(0, 1, 0)}
}

func MonthRange(now time.Time, loc *time.Location) domain.Period {
	now = now.In(loc)
	return MonthOf(now.Year(), now.Month(), loc)
}

func LastMonthRange(now time.Time, loc *time.Location) domain.Period {
	current := MonthRange(now, loc)
	return MonthOf(current.Start.Year(), current.Start.Month()-1, loc)
}

// ReportRange resolves a report period selector relative to now
func ReportRange(period domain.ReportPeriod, now time.Time, loc *time.Location) domain.Period {
	if period == domain.ReportPeriodCurrent {
		return MonthRange(now, loc)
	}
	return LastMonthRange(now, loc)
}

// ParseMonth parses "yyyy-mm" into that calendar month
func ParseMonth(s string, loc *time.Location) (domain.Period, error) {
	t, err := time.ParseInLocation("2006-01", s, loc)
	if err != nil {
		return domain.Period{}, domain.NewValidationError("invalid month %q, expected yyyy-mm", s)
	}
	return MonthOf(t.Year(), t.Month(), loc), nil
}

// DayKey formats t as a calendar date in loc
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// DisplayRange renders a period with an inclusive last day, e.g. 2026-05-01 to 2026-05-31
func DisplayRange(p domain.Period) domain.DateRange {
	return domain.DateRange{
		Start: p.Start.Format(DateLayout),
		End:   p.End.AddDate(0, 0, -1).Format(DateLayout),
	}
}

// MonthLabel returns the English month name and year of a period, e.g. "May", 2026
func MonthLabel(p domain.Period) (string, int) {
	return p.Start.Month().String(), p.Start.Year()
}

// FormatSlot renders a reservation time slot for emails
func FormatSlot(start, end time.Time, loc *time.Location) string {
	start, end = start.In(loc), end.In(loc)
	if DayKey(start, loc) == DayKey(end, loc) {
		return fmt.Sprintf("%s, %s - %s", start.Format("Mon 02 Jan 2006"), start.Format("15:04"), end.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Mon 02 Jan 2006 15:04"), end.Format("Mon 02 Jan 2006 15:04"))
}
