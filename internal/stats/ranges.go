package stats

import (
	"time"

	"github.com/ddshop/reports-manager/internal/entity"
)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Second)
}

// startOfWeek returns the preceding (or same) Monday at midnight.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfQuarter(t time.Time) time.Time {
	qm := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), qm, 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

func spanFrom(start time.Time, years, months, days int) entity.TimeRange {
	return entity.TimeRange{
		Start: start,
		End:   start.AddDate(years, months, days).Add(-time.Second),
	}
}

// resolveRange turns a named range into a concrete inclusive window relative
// to now in the given location, along with the immediately preceding
// equivalent period.
func resolveRange(name entity.RangeName, now time.Time, loc *time.Location) (entity.TimeRange, entity.TimeRange, bool) {
	n := now.In(loc)

	var period, relative entity.TimeRange
	switch name {
	case entity.RangeToday:
		period = spanFrom(startOfDay(n), 0, 0, 1)
		relative = spanFrom(startOfDay(n).AddDate(0, 0, -1), 0, 0, 1)
	case entity.RangeYesterday:
		period = spanFrom(startOfDay(n).AddDate(0, 0, -1), 0, 0, 1)
		relative = spanFrom(startOfDay(n).AddDate(0, 0, -2), 0, 0, 1)
	case entity.RangeThisWeek:
		period = spanFrom(startOfWeek(n), 0, 0, 7)
		relative = spanFrom(startOfWeek(n).AddDate(0, 0, -7), 0, 0, 7)
	case entity.RangeLastWeek:
		period = spanFrom(startOfWeek(n).AddDate(0, 0, -7), 0, 0, 7)
		relative = spanFrom(startOfWeek(n).AddDate(0, 0, -14), 0, 0, 7)
	case entity.RangeThisMonth:
		period = spanFrom(startOfMonth(n), 0, 1, 0)
		relative = spanFrom(startOfMonth(n).AddDate(0, -1, 0), 0, 1, 0)
	case entity.RangeLastMonth:
		period = spanFrom(startOfMonth(n).AddDate(0, -1, 0), 0, 1, 0)
		relative = spanFrom(startOfMonth(n).AddDate(0, -2, 0), 0, 1, 0)
	case entity.RangeThisQuarter:
		period = spanFrom(startOfQuarter(n), 0, 3, 0)
		relative = spanFrom(startOfQuarter(n).AddDate(0, -3, 0), 0, 3, 0)
	case entity.RangeLastQuarter:
		period = spanFrom(startOfQuarter(n).AddDate(0, -3, 0), 0, 3, 0)
		relative = spanFrom(startOfQuarter(n).AddDate(0, -6, 0), 0, 3, 0)
	case entity.RangeThisYear:
		period = spanFrom(startOfYear(n), 1, 0, 0)
		relative = spanFrom(startOfYear(n).AddDate(-1, 0, 0), 1, 0, 0)
	case entity.RangeLastYear:
		period = spanFrom(startOfYear(n).AddDate(-1, 0, 0), 1, 0, 0)
		relative = spanFrom(startOfYear(n).AddDate(-2, 0, 0), 1, 0, 0)
	default:
		return entity.TimeRange{}, entity.TimeRange{}, false
	}
	return period, relative, true
}

// relativeWindow shifts an explicit window back by its own length, keeping
// second-granularity inclusive bounds.
func relativeWindow(period entity.TimeRange) entity.TimeRange {
	length := period.End.Sub(period.Start) + time.Second
	return entity.TimeRange{
		Start: period.Start.Add(-length),
		End:   period.Start.Add(-time.Second),
	}
}
